package score

import (
	"math"
	"testing"

	"github.com/grantwell/grantsearch/internal/grants"
)

func keywordScore(t *testing.T, query string, doc grants.Document) (float64, bool) {
	t.Helper()
	return Keyword(query, doc, DefaultKeywordPoints(), DefaultAgencyCodes())
}

func TestKeywordTitleRules(t *testing.T) {
	doc := grants.Document{Title: "Cancer Biomarker Discovery Program"}

	// Full phrase present in title: 15, plus each long query word in the
	// title: 2 * 8.
	got, lexical := keywordScore(t, "cancer biomarker", doc)
	if want := 15.0 + 8 + 8; got != want {
		t.Errorf("score = %v, want %v", got, want)
	}
	if !lexical {
		t.Error("lexical flag should be set")
	}

	// Words only, no phrase match (reversed order).
	got, _ = keywordScore(t, "biomarker cancer", doc)
	if want := 8.0 + 8; got != want {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestKeywordShortWordsIgnored(t *testing.T) {
	doc := grants.Document{Title: "The DNA lab"}
	// "dna" has length 3 and never qualifies for word-level rules; the
	// phrase rule still applies when the whole query appears verbatim.
	got, _ := keywordScore(t, "dna", doc)
	if got != 15 {
		t.Errorf("score = %v, want 15 (phrase only)", got)
	}
}

func TestKeywordEntryRules(t *testing.T) {
	doc := grants.Document{Keywords: "mass spectrometry, proteomics"}

	// "proteomics" keyword entry is a substring of the query: 6 entry
	// points, plus the query word "proteomics" inside the entry: 3.
	got, lexical := keywordScore(t, "advanced proteomics methods", doc)
	if want := 6.0 + 3; got != want {
		t.Errorf("score = %v, want %v", got, want)
	}
	if !lexical {
		t.Error("lexical flag should be set")
	}

	// Query inside a keyword entry (other direction).
	got, _ = keywordScore(t, "spectrometry", doc)
	if want := 6.0 + 3; got != want {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestKeywordDescriptionRules(t *testing.T) {
	doc := grants.Document{Description: "Funding for single cell analysis workflows"}

	// Phrase in description: 4, plus long words "cell"→4 letters and
	// "analysis" in description: 2 * 1.5. "cell" is exactly 4 characters
	// so it qualifies (rule is len > 3).
	got, _ := keywordScore(t, "cell analysis", doc)
	if want := 4.0 + 1.5 + 1.5; math.Abs(got-want) > 1e-12 {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestKeywordAgencyBonus(t *testing.T) {
	doc := grants.Document{Title: "Community arts outreach", Agency: "NIH"}
	got, lexical := keywordScore(t, "quantum networking", doc)
	if got != 2 {
		t.Errorf("score = %v, want 2 (agency bonus only)", got)
	}
	if lexical {
		t.Error("agency bonus alone must not set the lexical flag")
	}

	// Bonus applies once even when the agency string matches several codes.
	doc.Agency = "NIH / HHS joint program"
	got, _ = keywordScore(t, "quantum networking", doc)
	if got != 2 {
		t.Errorf("score = %v, want 2 (bonus is one-time)", got)
	}

	// Case-insensitive code matching.
	doc.Agency = "nih"
	got, _ = keywordScore(t, "quantum networking", doc)
	if got != 2 {
		t.Errorf("score = %v, want 2 for lowercase agency", got)
	}
}

func TestKeywordAdditiveAcrossFields(t *testing.T) {
	doc := grants.Document{
		Title:       "Biomarker platforms",
		Description: "Novel biomarker detection",
		Keywords:    "biomarker",
		Agency:      "NSF",
	}
	got, _ := keywordScore(t, "biomarker", doc)
	// Title phrase 15 + title word 8 + keyword entry 6 + keyword word 3 +
	// description phrase 4 + description word 1.5 + agency 2.
	if want := 15.0 + 8 + 6 + 3 + 4 + 1.5 + 2; math.Abs(got-want) > 1e-12 {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestKeywordEmptyQuery(t *testing.T) {
	doc := grants.Document{Title: "Anything", Agency: "NIH"}
	got, lexical := keywordScore(t, "   ", doc)
	if got != 0 || lexical {
		t.Errorf("blank query scored %v lexical=%v, want 0 false", got, lexical)
	}
}

func TestKeywordNoMatch(t *testing.T) {
	doc := grants.Document{Title: "Rural broadband expansion", Agency: "USDA"}
	got, lexical := keywordScore(t, "proteomics", doc)
	if got != 0 || lexical {
		t.Errorf("unrelated doc scored %v lexical=%v, want 0 false", got, lexical)
	}
}
