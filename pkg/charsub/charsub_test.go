package charsub

import (
	"bytes"
	"errors"
	"testing"
)

func TestPairKeyCanonicalOrder(t *testing.T) {
	if PairKey('b', 'a') != (Pair{C1: 'a', C2: 'b'}) {
		t.Fatalf("PairKey('b', 'a') = %v, want {a b}", PairKey('b', 'a'))
	}
	if PairKey('a', 'b') != PairKey('b', 'a') {
		t.Fatal("reversed pairs must share one key")
	}
}

func TestBuildIdentityAndSymmetry(t *testing.T) {
	m, err := Build([]rune("ab "), nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, c := range "ab " {
		e, ok := m.Entry(c, c)
		if !ok {
			t.Fatalf("no identity entry for %q", c)
		}
		if e.Sub != Same {
			t.Errorf("identity level for %q = %v, want %v", c, e.Sub, Same)
		}
		if e.HasScore {
			t.Errorf("identity entry for %q carries a score", c)
		}
	}

	if m.Weight('a', 'b') != m.Weight('b', 'a') {
		t.Error("weights are not symmetric")
	}
	if got, want := m.Len(), 6; got != want {
		// C(3,2) pairs plus 3 identities, each stored once.
		t.Errorf("matrix has %d entries, want %d", got, want)
	}
}

func TestBuildSpacePairsScoreByInk(t *testing.T) {
	m, err := Build([]rune("M. "), nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// A dense glyph is expensive to swap with a space.
	e, ok := m.Entry(' ', 'M')
	if !ok {
		t.Fatal("no entry for space/M")
	}
	if !e.HasScore || e.Score <= 0 {
		t.Errorf("space/M score = %+v, want a positive ink count", e)
	}
	if e.Sub != Unrelated {
		t.Errorf("space/M level = %v, want %v", e.Sub, Unrelated)
	}

	// A few pixels of ink are cheap to swap with a space.
	e, ok = m.Entry(' ', '.')
	if !ok {
		t.Fatal("no entry for space/.")
	}
	if e.Sub != Marginal {
		t.Errorf("space/. level = %v, want %v", e.Sub, Marginal)
	}
}

func TestBuildIncrementalCarriesOldPairs(t *testing.T) {
	cfg := DefaultConfig()
	first, err := Build([]rune("ab"), nil, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build([]rune("c"), first, cfg)
	if err != nil {
		t.Fatalf("incremental Build: %v", err)
	}

	want, _ := first.Entry('a', 'b')
	got, ok := second.Entry('a', 'b')
	if !ok || got != want {
		t.Errorf("carried entry = %+v, want %+v", got, want)
	}
	if _, ok := second.Entry('a', 'c'); !ok {
		t.Error("new pair a/c is missing")
	}
	if got, want := len(second.Chars()), 3; got != want {
		t.Errorf("matrix spans %d chars, want %d", got, want)
	}
}

func TestWeightMissFallsBack(t *testing.T) {
	m, err := Build([]rune("ab"), nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if w := m.Weight('a', 'z'); w != Unrelated {
		t.Errorf("unknown pair weight = %v, want %v", w, Unrelated)
	}
	if m.Misses() != 1 {
		t.Errorf("miss counter = %d, want 1", m.Misses())
	}
	m.Weight('a', 'b')
	if m.Misses() != 1 {
		t.Error("a hit must not bump the miss counter")
	}
}

func TestCanvasTooSmall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CanvasSize = 4
	_, err := Build([]rune("M"), nil, cfg)
	var tooSmall *ErrCanvasTooSmall
	if !errors.As(err, &tooSmall) {
		t.Fatalf("Build error = %v, want ErrCanvasTooSmall", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m, err := Build([]rune("ab "), nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := Save(&buf, m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(&buf, "default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Len() != m.Len() {
		t.Fatalf("loaded %d entries, want %d", loaded.Len(), m.Len())
	}
	for _, p := range []Pair{PairKey('a', 'b'), PairKey(' ', 'a'), PairKey('b', 'b')} {
		want, _ := m.Entry(p.C1, p.C2)
		got, ok := loaded.Entry(p.C1, p.C2)
		if !ok || got != want {
			t.Errorf("entry %q/%q = %+v, want %+v", p.C1, p.C2, got, want)
		}
	}
}

func TestLoadSkipsOtherCharSets(t *testing.T) {
	table := "char1,char2,char_set,score,sub\n" +
		"a,a,default,,2\n" +
		"a,b,other,0.9,1\n"
	m, err := Load(bytes.NewReader([]byte(table)), "default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("loaded %d entries, want 1", m.Len())
	}
	if _, ok := m.Entry('a', 'b'); ok {
		t.Error("entry from another char set leaked in")
	}
}
