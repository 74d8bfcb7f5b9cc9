package reconcile

import "testing"

func TestReconcileEmptyInput(t *testing.T) {
	c := NewConsensus(DefaultVocab())
	if got := c.Reconcile(nil); got != "" {
		t.Errorf("Reconcile(nil) = %q, want empty", got)
	}
	detail := c.ReconcileDetail(nil)
	if detail.Method != MethodEmpty {
		t.Errorf("method = %v, want empty", detail.Method)
	}
}

func TestReconcileMajority(t *testing.T) {
	c := NewConsensus(DefaultVocab())
	got := c.ReconcileDetail([]string{"x", "x", "x", "y"})
	if got.Text != "x" {
		t.Errorf("Reconcile = %q, want x", got.Text)
	}
	if got.Method != MethodMajority {
		t.Errorf("method = %v, want majority", got.Method)
	}
}

func TestReconcileMajorityTieBreak(t *testing.T) {
	c := NewConsensus(DefaultVocab())
	// Both variants hit half; the longer string wins, then the
	// lexicographically later one.
	if got := c.Reconcile([]string{"ab", "ab", "abc", "abc"}); got != "abc" {
		t.Errorf("Reconcile = %q, want abc", got)
	}
	if got := c.Reconcile([]string{"x", "x", "y", "y"}); got != "y" {
		t.Errorf("Reconcile = %q, want y", got)
	}
}

func TestReconcileNormalizesPunctuation(t *testing.T) {
	c := NewConsensus(DefaultVocab())
	got := c.Reconcile([]string{"MTS . : canyon", "MTS . : canyon"})
	if got != "MTS.: canyon" {
		t.Errorf("Reconcile = %q, want space collapsed before punctuation", got)
	}
}

func TestReconcileVocabularyFallback(t *testing.T) {
	c := NewConsensus(DefaultVocab())
	got := c.ReconcileDetail([]string{
		"M0J4V3 D3S3RT c4ny0n",
		"MOJAVE DESERT canyon",
		"MQUAVE DESXRT cenyon",
	})
	if got.Text != "MOJAVE DESERT canyon" {
		t.Errorf("Reconcile = %q, want the variant with the most vocabulary hits", got.Text)
	}
	if got.Method != MethodVocabulary {
		t.Errorf("method = %v, want vocabulary", got.Method)
	}
}

func TestReconcileFallbackPrefersMoreWords(t *testing.T) {
	c := NewConsensus(DefaultVocab())
	// Equal hit ratios; the variant with more words wins.
	got := c.Reconcile([]string{
		"desert canyon",
		"desert canyon above mojave",
		"qqq zzz xxx",
	})
	if got != "desert canyon above mojave" {
		t.Errorf("Reconcile = %q, want the longer full-hit variant", got)
	}
}

func TestVocabHits(t *testing.T) {
	v := DefaultVocab()
	tests := []struct {
		text string
		want int
	}{
		{"MOJAVE DESERT, PROVIDENCE MTS.: canyon above", 6},
		{"elev 1200 ft", 3},
		{"collected 4/22/81", 2},
		{"collected 11-2-34", 2},
		{"qqqq zzzz", 0},
	}
	for _, tt := range tests {
		if got := v.Hits(tt.text); got != tt.want {
			t.Errorf("Hits(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestVocabLoadAndContains(t *testing.T) {
	v := DefaultVocab()
	if !v.Contains("Canyon") {
		t.Error("vocabulary lookup must be case-insensitive")
	}
	if !v.Contains("mts.") {
		t.Error("vocabulary lookup must strip punctuation")
	}
	if v.Contains("qqqq") {
		t.Error("unknown word reported as present")
	}
}
