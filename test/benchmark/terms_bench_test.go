// Package benchmark contains Go benchmarks for term extraction, IDF table
// construction, and the ranking pipeline, measuring throughput and
// allocation behaviour.
package benchmark

import (
	"strings"
	"testing"

	"github.com/grantwell/grantsearch/internal/relevance/terms"
)

var sampleTexts = map[string]string{
	"query": "biomarker detection cancer diagnostics",
	"description": `This program supports the development of novel biomarker detection
        platforms for early cancer diagnosis. Applications should propose assay
        technologies with clinical translation potential, including point-of-care
        devices, high-throughput screening approaches, and validation in patient
        cohorts. Collaborations between engineering and clinical teams are encouraged.`,
	"long": strings.Repeat(`Grant opportunities in genomics and proteomics increasingly
        demand shared instrumentation such as sequencers, mass spectrometers, and flow
        cytometers. Single cell and spatial approaches add further requirements for
        droplet microfluidics and tissue imaging. Successful proposals combine
        biomarker discovery with computational pipelines for sequence analysis and
        pathway modeling, supported by institutional cores. `, 20),
}

func BenchmarkExtract(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := terms.Extract(text)
				_ = tokens
			}
		})
	}
}

func BenchmarkExtractParallel(b *testing.B) {
	text := sampleTexts["description"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tokens := terms.Extract(text)
			_ = tokens
		}
	})
}
