package ranker

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/grantwell/grantsearch/internal/grants"
	"github.com/grantwell/grantsearch/internal/relevance/idf"
	apperrors "github.com/grantwell/grantsearch/pkg/errors"
)

var testNow = time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

func testCorpus() []grants.Document {
	recent := testNow.Add(-3 * 24 * time.Hour)
	old := testNow.Add(-400 * 24 * time.Hour)
	return []grants.Document{
		{
			ID:          1,
			Title:       "Cancer Biomarker Discovery",
			Description: "Novel biomarker detection assays for early cancer diagnosis",
			Keywords:    "biomarker,cancer,diagnostics",
			Agency:      "NIH",
			LastUpdated: recent,
		},
		{
			ID:          2,
			Title:       "Genome Sequencing Infrastructure",
			Description: "Shared whole genome sequencing services",
			Keywords:    "genomics,sequencing",
			Agency:      "NSF",
			LastUpdated: old,
		},
		{
			ID:          3,
			Title:       "Rural Broadband Expansion",
			Description: "Funding for fiber infrastructure in rural counties",
			Keywords:    "broadband,infrastructure",
			Agency:      "USDA",
			LastUpdated: recent,
		},
		{
			ID:          4,
			Title:       "Community Arts Outreach",
			Description: "Support for local arts programs",
			Keywords:    "arts,community",
			Agency:      "NIH",
			LastUpdated: recent,
		},
	}
}

func newTestRanker(t *testing.T, cfg Config) *Ranker {
	t.Helper()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	return New(cfg, WithNow(func() time.Time { return testNow }))
}

func TestRankOrdersByRelevance(t *testing.T) {
	docs := testCorpus()
	table := idf.Build(docs)
	r := newTestRanker(t, DefaultConfig())

	results, err := r.Rank("cancer biomarker detection", docs, table, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].ID != 1 {
		t.Errorf("top result ID = %d, want 1", results[0].ID)
	}
	for i := 1; i < len(results); i++ {
		if results[i].RelevanceScore > results[i-1].RelevanceScore {
			t.Errorf("results not in descending order at index %d", i)
		}
	}
	for _, res := range results {
		if res.RelevanceScore <= 0.5 {
			t.Errorf("doc %d survived with score %v below cutoff", res.ID, res.RelevanceScore)
		}
		if res.ID == 3 {
			t.Error("unrelated broadband grant should not match a biomedical query")
		}
	}
}

func TestRankCompositeIsWeightedRounded(t *testing.T) {
	docs := testCorpus()
	table := idf.Build(docs)
	cfg := DefaultConfig()
	r := newTestRanker(t, cfg)

	results, err := r.Rank("cancer biomarker detection", docs, table, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, res := range results {
		want := math.Round((res.Signals.TFIDF*cfg.Weights.TFIDF+
			res.Signals.Semantic*cfg.Weights.Semantic+
			res.Signals.Keyword*cfg.Weights.Keyword+
			res.Signals.Freshness*cfg.Weights.Freshness)*100) / 100
		if res.RelevanceScore != want {
			t.Errorf("doc %d score = %v, want weighted sum %v", res.ID, res.RelevanceScore, want)
		}
		if res.RelevanceScore != math.Round(res.RelevanceScore*100)/100 {
			t.Errorf("doc %d score %v not rounded to 2 decimals", res.ID, res.RelevanceScore)
		}
	}
}

func TestRankUnrelatedQueryReturnsNothing(t *testing.T) {
	docs := testCorpus()
	table := idf.Build(docs)
	r := newTestRanker(t, DefaultConfig())

	// No document mentions either word; the agency bonus plus freshness
	// alone must not carry anything over the cutoff.
	results, err := r.Rank("underwater basket weaving", docs, table, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for unrelated query, want 0: %+v", len(results), results)
	}
}

func TestRankTextMatchGuardDisabled(t *testing.T) {
	docs := testCorpus()
	table := idf.Build(docs)
	cfg := DefaultConfig()
	cfg.RequireTextMatch = false
	r := newTestRanker(t, cfg)

	// With the guard off, a recent NIH grant scores
	// 2*0.30 + 5*0.10 = 1.1 on agency bonus and freshness alone.
	results, err := r.Rank("underwater basket weaving", docs, table, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Error("expected agency/freshness noise once the text-match guard is off")
	}
	for _, res := range results {
		if res.Signals.TFIDF != 0 || res.Signals.Semantic != 0 {
			t.Errorf("doc %d has unexpected text signals: %+v", res.ID, res.Signals)
		}
	}
}

func TestRankTieBreakByID(t *testing.T) {
	now := testNow.Add(-2 * 24 * time.Hour)
	docs := []grants.Document{
		{ID: 9, Title: "Protein assay development", Agency: "NIH", LastUpdated: now},
		{ID: 2, Title: "Protein assay development", Agency: "NIH", LastUpdated: now},
		{ID: 5, Title: "Protein assay development", Agency: "NIH", LastUpdated: now},
	}
	table := idf.Build(docs)
	r := newTestRanker(t, DefaultConfig())

	results, err := r.Rank("protein assay", docs, table, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, wantID := range []int64{2, 5, 9} {
		if results[i].ID != wantID {
			t.Errorf("results[%d].ID = %d, want %d", i, results[i].ID, wantID)
		}
	}
}

func TestRankLimit(t *testing.T) {
	docs := testCorpus()
	table := idf.Build(docs)
	r := newTestRanker(t, DefaultConfig())

	full, err := r.Rank("cancer genome sequencing biomarker", docs, table, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(full) < 2 {
		t.Fatalf("fixture should produce at least 2 matches, got %d", len(full))
	}
	limited, err := r.Rank("cancer genome sequencing biomarker", docs, table, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("got %d results with limit 1", len(limited))
	}
	if limited[0].ID != full[0].ID {
		t.Error("truncation changed the top result")
	}
}

func TestRankNegativeLimit(t *testing.T) {
	r := newTestRanker(t, DefaultConfig())
	_, err := r.Rank("anything", nil, idf.Build(nil), -1)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("negative limit error = %v, want ErrInvalidInput", err)
	}
}

func TestRankEmptyQuery(t *testing.T) {
	docs := testCorpus()
	table := idf.Build(docs)
	r := newTestRanker(t, DefaultConfig())

	for _, query := range []string{"", "   ", "the and of", "a b"} {
		results, err := r.Rank(query, docs, table, 0)
		if err != nil {
			t.Errorf("query %q: %v", query, err)
		}
		if len(results) != 0 {
			t.Errorf("query %q returned %d results, want 0", query, len(results))
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	cfg.Weights.TFIDF = 0.5
	if err := cfg.Validate(); err == nil {
		t.Error("weights not summing to 1.0 should fail validation")
	}
	cfg = DefaultConfig()
	cfg.MinScore = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative cutoff should fail validation")
	}
}
