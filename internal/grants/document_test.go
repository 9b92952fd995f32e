package grants

import "testing"

func TestCombinedText(t *testing.T) {
	doc := Document{
		Title:       "Cancer Biomarker Discovery",
		Description: "Early detection assays",
		Keywords:    "biomarker,cancer",
	}
	want := "Cancer Biomarker Discovery Early detection assays biomarker,cancer"
	if got := doc.CombinedText(); got != want {
		t.Errorf("CombinedText = %q, want %q", got, want)
	}
	// Empty fields still join with spaces; scorers tokenise the result, so
	// extra whitespace is harmless.
	if got := (Document{Title: "Only title"}).CombinedText(); got != "Only title  " {
		t.Errorf("CombinedText = %q", got)
	}
}

func TestKeywordList(t *testing.T) {
	doc := Document{Keywords: " Biomarker , cancer,, Mass Spectrometry "}
	got := doc.KeywordList()
	want := []string{"biomarker", "cancer", "mass spectrometry"}
	if len(got) != len(want) {
		t.Fatalf("KeywordList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("KeywordList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if list := (Document{}).KeywordList(); len(list) != 0 {
		t.Errorf("empty keywords yielded %v", list)
	}
}
