package staircase

import (
	"fmt"
	"math/rand"
	"time"
)

// Selector draws the expected stimulus for each trial uniformly from the
// test's fixed alphabet. Draws are independent: consecutive trials may present
// the same stimulus, and no repeat-avoidance is applied.
type Selector struct {
	alphabet []string
	rng      *rand.Rand
}

// NewSelector builds a selector over the given alphabet. The alphabet is the
// set of directions for an acuity test or the letter set for a contrast test.
func NewSelector(alphabet []string) (*Selector, error) {
	if len(alphabet) == 0 {
		return nil, fmt.Errorf("%w: stimulus alphabet is empty", ErrBadConfig)
	}
	out := make([]string, len(alphabet))
	copy(out, alphabet)
	return &Selector{
		alphabet: out,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Next returns the expected value for the upcoming trial.
func (s *Selector) Next() string {
	return s.alphabet[s.rng.Intn(len(s.alphabet))]
}

// Alphabet returns a copy of the selector's alphabet.
func (s *Selector) Alphabet() []string {
	out := make([]string, len(s.alphabet))
	copy(out, s.alphabet)
	return out
}
