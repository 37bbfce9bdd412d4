package knowledge

import (
	"reflect"
	"sort"
	"testing"
)

func TestTokenize_NormalizesCaseAndPunctuation(t *testing.T) {
	got := Tokenize("Dogs are loyal; dogs BARK!")

	want := map[string]struct{}{
		"dogs": {}, "are": {}, "loyal": {}, "bark": {},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenize_PunctuationSeparatesTokens(t *testing.T) {
	got := Tokenize("cache-aware,fast")

	for _, tok := range []string{"cache", "aware", "fast"} {
		if _, ok := got[tok]; !ok {
			t.Fatalf("Tokenize() missing token %q in %v", tok, got)
		}
	}
}

func TestTokenize_Empty(t *testing.T) {
	if got := Tokenize("   \t\n"); len(got) != 0 {
		t.Fatalf("Tokenize(whitespace) = %v, want empty", got)
	}
}

func TestIsStopword(t *testing.T) {
	cases := []struct {
		word string
		want bool
	}{
		{"the", true},
		{"about", true},
		{"ab", true}, // too short
		{"x", true},
		{"dogs", false},
		{"concurrency", false},
		{"TELL", true}, // case-insensitive
	}
	for _, tc := range cases {
		if got := IsStopword(tc.word); got != tc.want {
			t.Errorf("IsStopword(%q) = %v, want %v", tc.word, got, tc.want)
		}
	}
}

func TestMeaningfulWords_FiltersShortAndStopwords(t *testing.T) {
	got := meaningfulWords("the quick brown fox uses goroutines")
	sort.Strings(got)

	want := []string{"brown", "goroutines", "quick"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("meaningfulWords() = %v, want %v", got, want)
	}
}
