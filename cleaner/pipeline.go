package cleaner

import (
	"math"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/leadscrape/models"
)

// Cleaner turns a scraped page into a compact Markdown digest:
//
//	Stage 1 (readability): extract main content, strip nav/footer/sidebar/ads
//	Stage 2 (markdown):    convert clean HTML to Markdown
//
// The converter is created once and reused across all requests (goroutine-safe).
type Cleaner struct {
	mdConverter *converter.Converter
}

// NewCleaner initialises the Cleaner with a pre-configured Markdown converter.
func NewCleaner() *Cleaner {
	return &Cleaner{
		mdConverter: newMarkdownConverter(),
	}
}

// Digest runs both stages over rawHTML.
//
// Flow:
//  1. Estimate original tokens from raw HTML.
//  2. go-readability extracts main content (raw HTML when too short).
//  3. Convert to Markdown.
//  4. Estimate cleaned tokens and compute savings.
func (c *Cleaner) Digest(rawHTML string, sourceURL string) (*models.ContentDigest, error) {
	originalTokens := EstimateTokens(rawHTML)

	article, _ := ExtractContent(rawHTML, sourceURL)

	md, err := ToMarkdown(c.mdConverter, article.Content, sourceURL)
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeInternal,
			"markdown conversion failed",
			err,
		)
	}

	cleanedTokens := EstimateTokens(md)

	savingsPercent := 0.0
	if originalTokens > 0 {
		savingsPercent = float64(originalTokens-cleanedTokens) / float64(originalTokens) * 100
		savingsPercent = math.Round(savingsPercent*100) / 100
	}

	excerpt := article.Excerpt
	if excerpt == "" {
		excerpt = firstSentence(article.TextContent)
	}

	return &models.ContentDigest{
		Title:    article.Title,
		Excerpt:  excerpt,
		Markdown: md,
		Tokens: models.TokenInfo{
			OriginalEstimate: originalTokens,
			CleanedEstimate:  cleanedTokens,
			SavingsPercent:   savingsPercent,
		},
	}, nil
}

// stripTags is a simple helper that extracts visible text from an HTML
// fragment by parsing it with goquery. Returns trimmed plain text.
func stripTags(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}

// firstSentence returns text up to and including the first full stop, capped
// at 300 bytes.
func firstSentence(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if i := strings.Index(text, ". "); i >= 0 {
		text = text[:i+1]
	}
	if len(text) > 300 {
		text = strings.ToValidUTF8(text[:300], "")
	}
	return text
}
