package score

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadClusters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.yaml")
	data := `clusters:
  - name: optics
    phrases: ["laser", "photon", "interferometer"]
  - name: materials
    phrases: ["polymer", "composite"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	clusters, err := LoadClusters(path)
	if err != nil {
		t.Fatalf("LoadClusters: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
	if clusters[0].Name != "optics" || len(clusters[0].Phrases) != 3 {
		t.Errorf("unexpected first cluster: %+v", clusters[0])
	}
}

func TestLoadClustersErrors(t *testing.T) {
	if _, err := LoadClusters(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should err")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("clusters: {not: a list"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadClusters(path); err == nil {
		t.Error("malformed yaml should err")
	}
}

func TestDefaultClustersWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range DefaultClusters() {
		if c.Name == "" {
			t.Error("cluster with empty name")
		}
		if seen[c.Name] {
			t.Errorf("duplicate cluster name %q", c.Name)
		}
		seen[c.Name] = true
		if len(c.Phrases) == 0 {
			t.Errorf("cluster %q has no phrases", c.Name)
		}
	}
}
