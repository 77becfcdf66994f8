// Package extractor derives company fields from raw HTML using ordered
// selector cascades with per-field length bounds.
package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/use-agent/leadscrape/models"
)

// strategy pulls one candidate value out of a parsed document. An empty
// string means the strategy found nothing.
type strategy func(d *document) string

// bounds is an inclusive-exclusive rune length window [min, max).
type bounds struct {
	min, max int
}

func (b bounds) accepts(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= b.min && n < b.max
}

var (
	nameBounds        = bounds{min: 1, max: 100}
	descriptionBounds = bounds{min: 20, max: 500}
	shortFieldBounds  = bounds{min: 1, max: 100}
	locationBounds    = bounds{min: 1, max: 200}
)

var nameStrategies = []strategy{
	metaContent(`meta[property="og:site_name"]`),
	metaContent(`meta[name="application-name"]`),
	metaContent(`meta[property="og:title"]`),
	titlePrefix,
	firstText(`header h1`),
	firstText(`.logo`),
	firstText(`[class*="logo"]`),
	firstText(`h1`),
}

var descriptionStrategies = []strategy{
	metaContent(`meta[name="description"]`),
	metaContent(`meta[property="og:description"]`),
	metaContent(`meta[name="twitter:description"]`),
	firstText(`[class*="hero"] p`),
	firstText(`[class*="intro"] p`),
	firstText(`[class*="about"] p`),
	firstText(`main p`),
	firstText(`p`),
}

var industryStrategies = []strategy{
	metaContent(`meta[property="og:type"]`),
	firstText(`[class*="industry"]`),
	allText(`[itemprop="industry"]`),
}

var sizeStrategies = []strategy{
	firstText(`[class*="company-size"]`),
	firstText(`[class*="employees"]`),
	allText(`[itemprop="numberOfEmployees"]`),
}

var locationStrategies = []strategy{
	metaContent(`meta[property="og:locality"]`),
	firstText(`[class*="location"]`),
	allText(`[itemprop="address"]`),
	firstText(`address`),
}

var titleSelector = cascadia.MustCompile("title")

// Extract parses html and resolves every company field. Unparseable input
// yields the sentinel name and description with no optional fields.
func Extract(rawHTML string) models.CompanyInfo {
	info := models.CompanyInfo{
		CompanyName: models.UnknownCompany,
		Description: models.NoDescription,
	}

	d, err := parse(rawHTML)
	if err != nil {
		return info
	}

	if v, ok := firstAcceptable(d, nameStrategies, nameBounds); ok {
		info.CompanyName = v
	}
	if v, ok := firstAcceptable(d, descriptionStrategies, descriptionBounds); ok {
		info.Description = v
	}
	info.Industry, _ = firstAcceptable(d, industryStrategies, shortFieldBounds)
	info.Size, _ = firstAcceptable(d, sizeStrategies, shortFieldBounds)
	info.Location, _ = firstAcceptable(d, locationStrategies, locationBounds)

	return info
}

// firstAcceptable runs strategies in order and returns the first normalized
// value inside b.
func firstAcceptable(d *document, strategies []strategy, b bounds) (string, bool) {
	for _, s := range strategies {
		v := normalize(s(d))
		if v != "" && b.accepts(v) {
			return v, true
		}
	}
	return "", false
}

// normalize trims s and collapses internal whitespace runs to one space.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type document struct {
	root *html.Node
	doc  *goquery.Document
}

func parse(rawHTML string) (*document, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	return &document{root: root, doc: goquery.NewDocumentFromNode(root)}, nil
}

func (d *document) first(sel cascadia.Selector) *goquery.Selection {
	n := cascadia.Query(d.root, sel)
	if n == nil {
		return nil
	}
	return d.doc.FindNodes(n)
}

// metaContent reads the content attribute of the first element matching
// selector.
func metaContent(selector string) strategy {
	sel := cascadia.MustCompile(selector)
	return func(d *document) string {
		s := d.first(sel)
		if s == nil {
			return ""
		}
		return s.AttrOr("content", "")
	}
}

// firstText returns the text of the first element matching selector.
func firstText(selector string) strategy {
	sel := cascadia.MustCompile(selector)
	return func(d *document) string {
		s := d.first(sel)
		if s == nil {
			return ""
		}
		return s.Text()
	}
}

// allText concatenates the text of every element matching selector.
func allText(selector string) strategy {
	sel := cascadia.MustCompile(selector)
	return func(d *document) string {
		nodes := cascadia.QueryAll(d.root, sel)
		if len(nodes) == 0 {
			return ""
		}
		return d.doc.FindNodes(nodes...).Text()
	}
}

// titlePrefix keeps the <title> text before the first "|", then before the
// first "-" of what remains.
func titlePrefix(d *document) string {
	s := d.first(titleSelector)
	if s == nil {
		return ""
	}
	t := s.Text()
	t, _, _ = strings.Cut(t, "|")
	t, _, _ = strings.Cut(t, "-")
	return t
}
