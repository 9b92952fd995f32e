package terms

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "punctuation only",
			text: "!!! ... ---",
			want: []string{},
		},
		{
			name: "stop words only",
			text: "the and from that",
			want: []string{},
		},
		{
			name: "short tokens dropped",
			text: "a an of to dna pcr",
			want: []string{"dna", "pcr"},
		},
		{
			name: "lowercasing and punctuation stripping",
			text: "Single-Cell RNA Sequencing (scRNA-seq)!",
			want: []string{"single", "cell", "rna", "sequencing", "scrna", "seq"},
		},
		{
			name: "order and duplicates preserved",
			text: "cancer biomarker cancer detection cancer",
			want: []string{"cancer", "biomarker", "cancer", "detection", "cancer"},
		},
		{
			name: "digits kept",
			text: "crispr cas9 16s",
			want: []string{"crispr", "cas9", "16s"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if tt.want == nil {
				if len(got) != 0 {
					t.Fatalf("Extract(%q) = %v, want empty", tt.text, got)
				}
				return
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractNeverPanicsOnUnicode(t *testing.T) {
	inputs := []string{"näive ümlaut", "生物学 tools", "emoji 🔬 probe"}
	for _, in := range inputs {
		_ = Extract(in)
	}
}

func TestIsStopWord(t *testing.T) {
	if !IsStopWord("the") {
		t.Error("expected 'the' to be a stop word")
	}
	if IsStopWord("biomarker") {
		t.Error("did not expect 'biomarker' to be a stop word")
	}
}
