package staircase

import (
	"fmt"
	"sync"
	"time"
)

// Status is the lifecycle state of a session. Terminal states have no exit.
type Status string

const (
	StatusRunning          Status = "running"
	StatusPassedAll        Status = "passed_all"
	StatusStoppedOnFailure Status = "stopped_on_failure"
)

// Terminal reports whether the status is one of the two end states.
func (s Status) Terminal() bool {
	return s == StatusPassedAll || s == StatusStoppedOnFailure
}

// Eye identifies which eye a session measures.
type Eye string

const (
	EyeLeft  Eye = "left"
	EyeRight Eye = "right"
)

// Trial is one stimulus/response pair within a level.
type Trial struct {
	LevelIndex int    `json:"levelIndex"`
	Expected   string `json:"expected"`
	Observed   string `json:"observed"`
	Correct    bool   `json:"correct"`
}

// Config carries the per-test staircase constants. They are supplied by the
// test definition, never hardcoded here.
type Config struct {
	TrialsPerLevel   int
	MinCorrectToPass int
}

// EyeResult is the immutable outcome of one terminated session.
type EyeResult struct {
	Eye          Eye        `json:"eye"`
	Status       Status     `json:"status"`
	LevelsPassed int        `json:"levelsPassed"`
	Score        ScoreValue `json:"score"`
	MaxLevel     int        `json:"maxLevel"`
	Trials       []Trial    `json:"trials"`
	CompletedAt  time.Time  `json:"completedAt"`
}

// Session runs one staircase test for one eye. It starts at the easiest
// level, takes a fixed number of trials per level, advances when enough of
// them were answered correctly, and terminates on the first level failure or
// after passing the hardest level.
//
// Two input channels (direct taps and voice commands) may both feed responses
// to the same session, so the guard against stray or duplicate events lives
// here rather than in caller discipline: all entry points hold the session
// mutex, and a submission against a terminated session is rejected with
// ErrInvalidState instead of being silently dropped.
type Session struct {
	mu       sync.Mutex
	table    *LevelTable
	selector *Selector
	cfg      Config

	currentLevel    int
	trialsAtLevel   int
	correctAtLevel  int
	bestLevelPassed int
	history         []Trial
	status          Status
	stimulus        string
	completedAt     time.Time
}

// NewSession creates a fresh session for one eye and one test attempt.
// Sessions share no state: retesting an eye always starts from a clean slate.
func NewSession(table *LevelTable, alphabet []string, cfg Config) (*Session, error) {
	if table == nil || table.Count() == 0 {
		return nil, fmt.Errorf("%w: level table is empty", ErrBadConfig)
	}
	if cfg.TrialsPerLevel < 1 {
		return nil, fmt.Errorf("%w: trials per level must be at least 1, got %d", ErrBadConfig, cfg.TrialsPerLevel)
	}
	if cfg.MinCorrectToPass < 1 || cfg.MinCorrectToPass > cfg.TrialsPerLevel {
		return nil, fmt.Errorf("%w: min correct to pass %d must be in 1..%d", ErrBadConfig, cfg.MinCorrectToPass, cfg.TrialsPerLevel)
	}
	selector, err := NewSelector(alphabet)
	if err != nil {
		return nil, err
	}
	s := &Session{
		table:    table,
		selector: selector,
		cfg:      cfg,
		status:   StatusRunning,
	}
	s.stimulus = s.selector.Next()
	return s, nil
}

// SubmitResponse records the observed response for the trial in flight and
// applies the advance/stop rules:
//
//   - fewer than TrialsPerLevel trials taken: stay on the level, draw the
//     next stimulus;
//   - level complete with at least MinCorrectToPass correct: the level is
//     passed; advance, or terminate with StatusPassedAll on the last level;
//   - level complete with fewer correct: terminate with
//     StatusStoppedOnFailure. The failed level is never reported; the result
//     keeps the last level actually passed.
func (s *Session) SubmitResponse(observed string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusRunning {
		return fmt.Errorf("%w: response submitted to a %s session", ErrInvalidState, s.status)
	}

	correct := observed == s.stimulus
	s.history = append(s.history, Trial{
		LevelIndex: s.currentLevel,
		Expected:   s.stimulus,
		Observed:   observed,
		Correct:    correct,
	})
	s.trialsAtLevel++
	if correct {
		s.correctAtLevel++
	}

	if s.trialsAtLevel < s.cfg.TrialsPerLevel {
		s.stimulus = s.selector.Next()
		return nil
	}

	if s.correctAtLevel >= s.cfg.MinCorrectToPass {
		// High-water mark: how many levels from the bottom are confirmed.
		// Always index+1, never an increment.
		s.bestLevelPassed = s.currentLevel + 1
		if s.currentLevel+1 == s.table.Count() {
			s.status = StatusPassedAll
			s.completedAt = time.Now().UTC()
			return nil
		}
		s.currentLevel++
		s.trialsAtLevel = 0
		s.correctAtLevel = 0
		s.stimulus = s.selector.Next()
		return nil
	}

	s.status = StatusStoppedOnFailure
	s.completedAt = time.Now().UTC()
	return nil
}

// Finalize packages a terminated session into an EyeResult. Calling it on a
// running session is an error. It is idempotent: repeated calls on the same
// session return equal results.
func (s *Session) Finalize(eye Eye) (*EyeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.status.Terminal() {
		return nil, fmt.Errorf("%w: finalize called on a %s session", ErrInvalidState, s.status)
	}

	trials := make([]Trial, len(s.history))
	copy(trials, s.history)
	return &EyeResult{
		Eye:          eye,
		Status:       s.status,
		LevelsPassed: s.bestLevelPassed,
		Score:        MapScore(s.bestLevelPassed, s.table),
		MaxLevel:     s.table.Count(),
		Trials:       trials,
		CompletedAt:  s.completedAt,
	}, nil
}

// Status returns the session's lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentStimulus returns the expected value for the trial in flight. It is
// only meaningful while the session is running.
func (s *Session) CurrentStimulus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stimulus
}

// CurrentLevel returns the level the session is presenting.
func (s *Session) CurrentLevel() Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.LevelAt(s.currentLevel)
}

// BestLevelPassed returns the count of levels confirmed from the bottom.
// It never decreases and is only updated on a level pass.
func (s *Session) BestLevelPassed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bestLevelPassed
}

// LevelCount returns the size of the session's level table.
func (s *Session) LevelCount() int {
	return s.table.Count()
}

// TrialsAtLevel returns how many trials have been taken at the current level.
func (s *Session) TrialsAtLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trialsAtLevel
}

// History returns a copy of all trials submitted so far, in order.
func (s *Session) History() []Trial {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Trial, len(s.history))
	copy(out, s.history)
	return out
}
