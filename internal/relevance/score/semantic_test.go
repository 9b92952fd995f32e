package score

import (
	"math"
	"testing"

	"github.com/grantwell/grantsearch/internal/grants"
)

func TestSemanticClusterMath(t *testing.T) {
	clusters := []Cluster{
		{Name: "genomics", Phrases: []string{"genome", "sequencing", "dna", "crispr"}},
		{Name: "imaging", Phrases: []string{"microscope", "confocal"}},
	}
	doc := grants.Document{
		Title:       "Genome sequencing core facility",
		Description: "High coverage dna sequencing services",
	}

	// Query hits genome+sequencing+dna (3); doc hits the same 3.
	// Contribution: 3*3/4 * boost. The imaging cluster has no query match.
	got := Semantic("genome sequencing dna analysis", doc, clusters, 3.0)
	want := (3.0 * 3.0 / 4.0) * 3.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Semantic = %v, want %v", got, want)
	}
}

func TestSemanticBothSidesMustMatch(t *testing.T) {
	clusters := []Cluster{
		{Name: "genomics", Phrases: []string{"genome", "sequencing"}},
	}
	// Doc matches, query does not.
	doc := grants.Document{Title: "Genome center"}
	if got := Semantic("solar panels", doc, clusters, 3.0); got != 0 {
		t.Errorf("query with no cluster match scored %v, want 0", got)
	}
	// Query matches, doc does not.
	if got := Semantic("genome sequencing", grants.Document{Title: "Solar panels"}, clusters, 3.0); got != 0 {
		t.Errorf("doc with no cluster match scored %v, want 0", got)
	}
}

func TestSemanticSumsAcrossClusters(t *testing.T) {
	clusters := []Cluster{
		{Name: "a", Phrases: []string{"protein", "peptide"}},
		{Name: "b", Phrases: []string{"assay", "reagent"}},
	}
	doc := grants.Document{Title: "Protein assay kits", Keywords: "peptide,reagent"}
	got := Semantic("protein assay", doc, clusters, 1.0)
	// Cluster a: q=1 (protein), d=2 (protein, peptide) → 1*2/2 = 1.
	// Cluster b: q=1 (assay), d=2 (assay, reagent) → 1*2/2 = 1.
	if math.Abs(got-2.0) > 1e-12 {
		t.Errorf("Semantic = %v, want 2", got)
	}
}

func TestSemanticCaseInsensitive(t *testing.T) {
	clusters := []Cluster{{Name: "g", Phrases: []string{"CRISPR"}}}
	doc := grants.Document{Title: "crispr screening platform"}
	if got := Semantic("Crispr editing", doc, clusters, 3.0); got == 0 {
		t.Error("matching should ignore case")
	}
}

func TestSemanticEmptyInputs(t *testing.T) {
	clusters := DefaultClusters()
	if got := Semantic("", grants.Document{Title: "genome"}, clusters, 3.0); got != 0 {
		t.Errorf("empty query scored %v, want 0", got)
	}
	if got := Semantic("genome", grants.Document{Title: "genome"}, nil, 3.0); got != 0 {
		t.Errorf("nil clusters scored %v, want 0", got)
	}
	empty := []Cluster{{Name: "empty"}}
	if got := Semantic("genome", grants.Document{Title: "genome"}, empty, 3.0); got != 0 {
		t.Errorf("cluster with no phrases scored %v, want 0", got)
	}
}

func TestClusterProfile(t *testing.T) {
	clusters := []Cluster{
		{Name: "genomics", Phrases: []string{"genome", "sequencing"}},
		{Name: "imaging", Phrases: []string{"microscope"}},
	}
	doc := grants.Document{Title: "Genome sequencing lab", Description: "no optics here"}
	profile := ClusterProfile(doc, clusters)
	if profile["genomics"] != 2 {
		t.Errorf("genomics hits = %d, want 2", profile["genomics"])
	}
	if _, ok := profile["imaging"]; ok {
		t.Error("clusters with zero hits should be omitted")
	}
}
