package score

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Cluster is a named group of domain phrases treated as one topical unit.
// Clusters are static configuration, not derived from the corpus, and a
// deployment may swap the whole table for a different domain vocabulary.
type Cluster struct {
	Name    string   `yaml:"name"`
	Phrases []string `yaml:"phrases"`
}

// LoadClusters reads a cluster table from a YAML file. The file holds a
// top-level `clusters` list of {name, phrases} entries.
func LoadClusters(path string) ([]Cluster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cluster file %s: %w", path, err)
	}
	var doc struct {
		Clusters []Cluster `yaml:"clusters"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing cluster file %s: %w", path, err)
	}
	return doc.Clusters, nil
}

// DefaultClusters returns the built-in biomedical research-tooling
// vocabulary. Phrases are lowercase; matching is substring-based against
// lowercased query and document text.
func DefaultClusters() []Cluster {
	return []Cluster{
		{
			Name: "genomics",
			Phrases: []string{
				"genome", "genomic", "dna", "gene", "genetic", "sequencing",
				"mutation", "variant", "chromosome", "crispr",
				"whole genome sequencing", "genome editing",
			},
		},
		{
			Name: "cell_biology",
			Phrases: []string{
				"cell", "cellular", "organelle", "nucleus", "membrane",
				"mitochondria", "apoptosis", "cell culture", "cell sorting",
				"live cell imaging",
			},
		},
		{
			Name: "proteomics",
			Phrases: []string{
				"protein", "proteome", "peptide", "amino acid", "enzyme",
				"antibody", "protease", "mass spectrometry",
				"protein identification",
			},
		},
		{
			Name: "metabolomics",
			Phrases: []string{
				"metabolome", "metabolite", "metabolism", "biochemical",
				"small molecule", "metabolic profiling",
			},
		},
		{
			Name: "bioinformatics",
			Phrases: []string{
				"bioinformatics", "computational biology", "algorithm",
				"pipeline", "data mining", "sequence analysis",
				"pathway analysis", "computational modeling",
			},
		},
		{
			Name: "single_cell",
			Phrases: []string{
				"single cell", "single-cell", "droplet", "microwell",
				"single cell rna sequencing", "droplet microfluidics",
			},
		},
		{
			Name: "spatial_biology",
			Phrases: []string{
				"spatial", "tissue", "in situ", "spatial transcriptomics",
				"spatial proteomics", "tissue imaging", "cellular mapping",
			},
		},
		{
			Name: "immunology",
			Phrases: []string{
				"immune", "immunology", "t cell", "b cell", "cytokine",
				"immunoassay", "antigen", "vaccine", "immune profiling",
			},
		},
		{
			Name: "microbiome",
			Phrases: []string{
				"microbiome", "microbiota", "microbial", "bacteria",
				"metagenome", "16s sequencing", "microbial community",
			},
		},
		{
			Name: "instrumentation",
			Phrases: []string{
				"microscope", "sequencer", "cytometer", "spectrometer",
				"analyzer", "scanner", "detector", "sensor",
				"flow cytometer", "confocal microscope", "plate reader",
			},
		},
		{
			Name: "assays",
			Phrases: []string{
				"assay", "reagent", "probe", "primer", "elisa",
				"immunoassay", "pcr", "cell viability assay",
			},
		},
		{
			Name: "screening",
			Phrases: []string{
				"high throughput", "high-throughput", "screening",
				"robotics", "automation", "compound library",
				"automated screening",
			},
		},
		{
			Name: "diagnostics",
			Phrases: []string{
				"diagnostic", "detection", "biomarker", "clinical",
				"medical", "point-of-care", "rapid test",
				"biomarker detection", "clinical diagnostics",
			},
		},
	}
}
