package scraper

import (
	"strings"
	"unicode/utf8"

	"github.com/use-agent/leadscrape/models"
)

// minDescriptionRunes is the shortest description the gate accepts.
const minDescriptionRunes = 20

// lowQualityReason is recorded for results that fail IsValid.
const lowQualityReason = "insufficient data extracted"

// noResultReason is recorded when a backend returns neither a result nor
// an error.
const noResultReason = "no result returned"

// IsValid reports whether r is good enough to return to a caller: a real
// company name and a real description of at least 20 characters.
// Optional fields do not affect the decision.
func IsValid(r *models.ScrapedResult) bool {
	if r == nil {
		return false
	}

	name := strings.TrimSpace(r.CompanyName)
	if name == "" || name == models.UnknownCompany {
		return false
	}

	desc := strings.Join(strings.Fields(r.Description), " ")
	if desc == "" || desc == models.NoDescription {
		return false
	}
	return utf8.RuneCountInString(desc) >= minDescriptionRunes
}
