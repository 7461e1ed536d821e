package fuzzy

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"José", "jose", 0},
		{"Anne-Marie", "anne marie", 0},
	}
	for _, tt := range tests {
		if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNameSimilarity(t *testing.T) {
	if s := NameSimilarity("Doe, Jane", "Jane Doe"); s != 1 {
		t.Errorf("token order should not matter, got %f", s)
	}
	if s := NameSimilarity("Jon Smith", "John Smith"); s < 0.85 {
		t.Errorf("expected close names to score >= 0.85, got %f", s)
	}
	if s := NameSimilarity("Alice Wong", "Robert Brown"); s >= 0.5 {
		t.Errorf("expected unrelated names to score low, got %f", s)
	}
	if s := Similarity("", ""); s != 0 {
		t.Errorf("empty strings should not match, got %f", s)
	}
}

func TestBestMatch(t *testing.T) {
	idx, score := BestMatch("Jon Smith", []string{"Alice Wong", "John Smith", "Jon Smyth"})
	if idx != 1 && idx != 2 {
		t.Fatalf("unexpected best match %d", idx)
	}
	if score < 0.85 {
		t.Errorf("expected strong score, got %f", score)
	}
	if idx, _ := BestMatch("x", nil); idx != -1 {
		t.Errorf("expected -1 for no candidates")
	}
}
