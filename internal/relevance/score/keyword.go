package score

import (
	"strings"

	"github.com/grantwell/grantsearch/internal/grants"
)

// KeywordPoints holds the point values for each keyword-match rule. All
// checks are independent and additive; a word matching in both title and
// description contributes twice.
type KeywordPoints struct {
	TitlePhrase       float64 `yaml:"titlePhrase"`
	TitleWord         float64 `yaml:"titleWord"`
	KeywordEntry      float64 `yaml:"keywordEntry"`
	KeywordWord       float64 `yaml:"keywordWord"`
	DescriptionPhrase float64 `yaml:"descriptionPhrase"`
	DescriptionWord   float64 `yaml:"descriptionWord"`
	AgencyBonus       float64 `yaml:"agencyBonus"`
}

// DefaultKeywordPoints returns the reference point values.
func DefaultKeywordPoints() KeywordPoints {
	return KeywordPoints{
		TitlePhrase:       15,
		TitleWord:         8,
		KeywordEntry:      6,
		KeywordWord:       3,
		DescriptionPhrase: 4,
		DescriptionWord:   1.5,
		AgencyBonus:       2,
	}
}

// DefaultAgencyCodes is the reference list of domain-relevant agency codes
// that earn the one-time agency bonus.
func DefaultAgencyCodes() []string {
	return []string{"NIH", "NSF", "HHS", "DOE", "CDC"}
}

// Keyword computes the positional substring/word-overlap score. The second
// return value reports whether any lexical rule fired, i.e. anything other
// than the agency bonus; the ranker uses it to keep freshness and agency
// contributions from carrying an otherwise unmatched document over the
// relevance threshold.
func Keyword(query string, doc grants.Document, points KeywordPoints, agencyCodes []string) (float64, bool) {
	queryText := strings.ToLower(strings.TrimSpace(query))
	if queryText == "" {
		return 0, false
	}
	var queryWords []string
	for _, word := range strings.Fields(queryText) {
		if len(word) > 3 {
			queryWords = append(queryWords, word)
		}
	}

	score := 0.0
	lexical := false

	if doc.Title != "" {
		title := strings.ToLower(doc.Title)
		if strings.Contains(title, queryText) {
			score += points.TitlePhrase
			lexical = true
		}
		for _, word := range queryWords {
			if strings.Contains(title, word) {
				score += points.TitleWord
				lexical = true
			}
		}
	}

	for _, keyword := range doc.KeywordList() {
		if strings.Contains(queryText, keyword) || strings.Contains(keyword, queryText) {
			score += points.KeywordEntry
			lexical = true
		}
		for _, word := range queryWords {
			if strings.Contains(keyword, word) {
				score += points.KeywordWord
				lexical = true
			}
		}
	}

	if doc.Description != "" {
		desc := strings.ToLower(doc.Description)
		if strings.Contains(desc, queryText) {
			score += points.DescriptionPhrase
			lexical = true
		}
		for _, word := range queryWords {
			if strings.Contains(desc, word) {
				score += points.DescriptionWord
				lexical = true
			}
		}
	}

	if doc.Agency != "" {
		agency := strings.ToUpper(doc.Agency)
		for _, code := range agencyCodes {
			if strings.Contains(agency, strings.ToUpper(code)) {
				score += points.AgencyBonus
				break
			}
		}
	}

	return score, lexical
}
