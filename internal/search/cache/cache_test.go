package cache

import (
	"strings"
	"testing"

	"github.com/grantwell/grantsearch/internal/relevance/filter"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestBuildKeyDeterministic(t *testing.T) {
	c := &ResultCache{}
	criteria := filter.Criteria{
		Agency:       "NIH",
		AmountMin:    floatPtr(300000),
		DeadlineDays: intPtr(30),
	}
	a := c.buildKey("biomarker cancer", 20, criteria)
	b := c.buildKey("biomarker cancer", 20, criteria)
	if a != b {
		t.Errorf("identical inputs produced different keys: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, keyPrefix) {
		t.Errorf("key %q missing prefix %q", a, keyPrefix)
	}
}

func TestBuildKeyNormalisesQuery(t *testing.T) {
	c := &ResultCache{}
	a := c.buildKey("Biomarker Cancer", 20, filter.Criteria{})
	b := c.buildKey("  biomarker cancer  ", 20, filter.Criteria{})
	if a != b {
		t.Error("query case and surrounding whitespace should not split cache entries")
	}
}

func TestBuildKeyDiscriminates(t *testing.T) {
	c := &ResultCache{}
	base := c.buildKey("biomarker", 20, filter.Criteria{})
	variants := []string{
		c.buildKey("biomarker", 10, filter.Criteria{}),
		c.buildKey("biomarker assay", 20, filter.Criteria{}),
		c.buildKey("biomarker", 20, filter.Criteria{Agency: "NIH"}),
		c.buildKey("biomarker", 20, filter.Criteria{AmountMin: floatPtr(1)}),
		c.buildKey("biomarker", 20, filter.Criteria{DeadlineDays: intPtr(30)}),
		c.buildKey("biomarker", 20, filter.Criteria{Category: "genomics"}),
		c.buildKey("biomarker", 20, filter.Criteria{Keywords: "assay"}),
	}
	seen := map[string]bool{base: true}
	for i, key := range variants {
		if seen[key] {
			t.Errorf("variant %d collided with an earlier key", i)
		}
		seen[key] = true
	}
}

func TestBuildKeyUnsetVersusZero(t *testing.T) {
	c := &ResultCache{}
	unset := c.buildKey("biomarker", 20, filter.Criteria{})
	zero := c.buildKey("biomarker", 20, filter.Criteria{AmountMin: floatPtr(0)})
	if unset == zero {
		t.Error("an explicit zero floor is a different query from no floor")
	}
}
