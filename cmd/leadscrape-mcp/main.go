package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/leadscrape/models"
)

func main() {
	apiURL := os.Getenv("LEADSCRAPE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("LEADSCRAPE_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "LEADSCRAPE_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"leadscrape",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	scrapeCompanyTool := mcp.NewTool("scrape_company",
		mcp.WithDescription("Extract a company profile (name, description, industry, size, location) from a company website. Tries a plain fetch, then a headless browser, then a remote reader service."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The company website URL (http or https)"),
		),
		mcp.WithBoolean("include_content",
			mcp.Description("Also return the page's main content as Markdown"),
		),
	)

	s.AddTool(scrapeCompanyTool, handleScrapeCompany(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the leadscrape API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func handleScrapeCompany(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 150 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := models.ScrapeRequest{
			URL:            url,
			IncludeContent: request.GetBool("include_content", false),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/scrape", reqBody)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var resp models.ScrapeResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !resp.Success || resp.Data == nil {
			return mcp.NewToolResultError(formatError(resp.Error)), nil
		}

		return mcp.NewToolResultText(formatCompany(&resp)), nil
	}
}

func formatError(e *models.ErrorDetail) string {
	if e == nil {
		return "scrape failed"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	for _, d := range e.Details {
		fmt.Fprintf(&b, "\n- %s", d)
	}
	return b.String()
}

func formatCompany(resp *models.ScrapeResponse) string {
	d := resp.Data
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", d.CompanyName)
	fmt.Fprintf(&b, "Description: %s\n", d.Description)
	if d.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", d.Industry)
	}
	if d.Size != "" {
		fmt.Fprintf(&b, "Size: %s\n", d.Size)
	}
	if d.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", d.Location)
	}
	fmt.Fprintf(&b, "Source: %s (via %s)\n", d.Metadata.URL, d.Metadata.Method)

	if resp.Content != nil && resp.Content.Markdown != "" {
		b.WriteString("\n")
		b.WriteString(resp.Content.Markdown)
	}
	return b.String()
}
