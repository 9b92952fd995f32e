package benchmark

import (
	"fmt"
	"testing"
	"time"

	"github.com/grantwell/grantsearch/internal/grants"
	"github.com/grantwell/grantsearch/internal/relevance/idf"
	"github.com/grantwell/grantsearch/internal/relevance/ranker"
)

func syntheticCorpus(n int) []grants.Document {
	titles := []string{
		"Cancer Biomarker Discovery",
		"Whole Genome Sequencing Core",
		"Mass Spectrometry Proteomics Facility",
		"Single Cell RNA Sequencing Methods",
		"Flow Cytometer Acquisition",
		"Microbiome and Host Immunity",
		"Rural Broadband Expansion",
		"Community Arts Outreach",
	}
	agencies := []string{"NIH", "NSF", "DOE", "HHS", "USDA"}
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	docs := make([]grants.Document, n)
	for i := 0; i < n; i++ {
		docs[i] = grants.Document{
			ID:          int64(i + 1),
			Title:       titles[i%len(titles)],
			Description: "Support for shared instrumentation, assay development, and clinical validation studies",
			Keywords:    "biomarker,sequencing,assay",
			Agency:      agencies[i%len(agencies)],
			LastUpdated: base.AddDate(0, 0, -(i % 365)),
		}
	}
	return docs
}

// BenchmarkIDFBuild measures full index construction at several corpus
// sizes.
func BenchmarkIDFBuild(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("docs_%d", n), func(b *testing.B) {
			docs := syntheticCorpus(n)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				table := idf.Build(docs)
				_ = table
			}
		})
	}
}

// BenchmarkRank measures the full score-sort-truncate pipeline.
func BenchmarkRank(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("docs_%d", n), func(b *testing.B) {
			docs := syntheticCorpus(n)
			table := idf.Build(docs)
			r := ranker.New(ranker.DefaultConfig())
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				results, err := r.Rank("biomarker cancer sequencing", docs, table, 20)
				if err != nil {
					b.Fatal(err)
				}
				_ = results
			}
		})
	}
}

// BenchmarkRankParallel measures concurrent query throughput against a
// shared corpus and table.
func BenchmarkRankParallel(b *testing.B) {
	docs := syntheticCorpus(1000)
	table := idf.Build(docs)
	r := ranker.New(ranker.DefaultConfig())
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			results, err := r.Rank("biomarker cancer sequencing", docs, table, 20)
			if err != nil {
				b.Fatal(err)
			}
			_ = results
		}
	})
}
