package staircase

import (
	"errors"
	"testing"
)

func TestSelector_DrawsFromAlphabet(t *testing.T) {
	alphabet := []string{"C", "D", "H", "K", "N", "O", "R", "S", "V", "Z"}
	s, err := NewSelector(alphabet)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}

	members := make(map[string]bool, len(alphabet))
	for _, v := range alphabet {
		members[v] = true
	}
	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		v := s.Next()
		if !members[v] {
			t.Fatalf("draw %d: got %q, not in alphabet", i, v)
		}
		seen[v] = true
	}
	// Uniform draws over 2000 trials cover a 10-letter alphabet.
	if len(seen) != len(alphabet) {
		t.Errorf("got %d distinct stimuli, want %d", len(seen), len(alphabet))
	}
}

func TestSelector_EmptyAlphabet(t *testing.T) {
	_, err := NewSelector(nil)
	if !errors.Is(err, ErrBadConfig) {
		t.Errorf("got error %v, want ErrBadConfig", err)
	}
}

func TestSelector_AlphabetCopied(t *testing.T) {
	alphabet := []string{"up", "down"}
	s, err := NewSelector(alphabet)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	alphabet[0] = "mutated"
	for _, v := range s.Alphabet() {
		if v == "mutated" {
			t.Error("selector alphabet aliased caller's slice")
		}
	}
}
