package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ocucheck/internal/classify"
	"ocucheck/internal/models"
	"ocucheck/internal/repository"
	"ocucheck/internal/staircase"
)

// ScreeningHandler drives the staircase engine over HTTP: it starts per-eye
// test sessions, feeds them response events, and persists finalized results.
type ScreeningHandler struct {
	log       *zap.Logger
	screening *models.Screening
	manager   *staircase.Manager
}

func NewScreeningHandler(log *zap.Logger, screening *models.Screening, manager *staircase.Manager) *ScreeningHandler {
	return &ScreeningHandler{log: log, screening: screening, manager: manager}
}

func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// trialPayload is what the browser needs to render the next stimulus.
type trialPayload struct {
	SessionID       string  `json:"sessionId"`
	TestID          string  `json:"testId"`
	Eye             string  `json:"eye"`
	Stimulus        string  `json:"stimulus"`
	LevelIndex      int     `json:"levelIndex"`
	RenderParam     float64 `json:"renderParam"`
	TrialsAtLevel   int     `json:"trialsAtLevel"`
	TrialsPerLevel  int     `json:"trialsPerLevel"`
	LevelCount      int     `json:"levelCount"`
	BestLevelPassed int     `json:"bestLevelPassed"`
}

func (h *ScreeningHandler) trialResponse(id string, a *staircase.Active, def *models.TestDefinition) trialPayload {
	level := a.Session.CurrentLevel()
	return trialPayload{
		SessionID:       id,
		TestID:          a.TestID,
		Eye:             string(a.Eye),
		Stimulus:        a.Session.CurrentStimulus(),
		LevelIndex:      level.Index,
		RenderParam:     level.RenderParam,
		TrialsAtLevel:   a.Session.TrialsAtLevel(),
		TrialsPerLevel:  def.TrialsPerLevel,
		LevelCount:      a.Session.LevelCount(),
		BestLevelPassed: a.Session.BestLevelPassed(),
	}
}

// Start creates a fresh engine session for one test and one eye. Sessions
// share nothing; restarting a test never inherits state from a prior run.
func (h *ScreeningHandler) Start(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	testID := c.Param("test")
	eye := staircase.Eye(c.Param("eye"))
	if eye != staircase.EyeLeft && eye != staircase.EyeRight {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Eye must be left or right"})
		return
	}

	def, _, found := h.screening.TestByID(testID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown test"})
		return
	}

	table, err := def.LevelTable()
	if err != nil {
		h.log.Error("Malformed level table", zap.String("test", testID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Test misconfigured"})
		return
	}
	session, err := staircase.NewSession(table, def.Alphabet, def.EngineConfig())
	if err != nil {
		h.log.Error("Failed to create session", zap.String("test", testID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Test misconfigured"})
		return
	}

	active := &staircase.Active{Session: session, UserID: user.ID, TestID: testID, Eye: eye}
	id := h.manager.Put(active)

	h.log.Debug("Screening session started",
		zap.Uint("userID", user.ID),
		zap.String("test", testID),
		zap.String("eye", string(eye)),
	)
	c.JSON(http.StatusCreated, h.trialResponse(id, active, def))
}

type respondRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Observed  string `json:"observed" binding:"required"`
}

// Respond submits one response event. Both the tap channel and the voice
// channel post here; the engine itself rejects events that land after
// termination, which surfaces as a 409 so the UI can drop the stray input.
func (h *ScreeningHandler) Respond(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	active, found := h.manager.Get(req.SessionID)
	if !found || active.UserID != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}
	def, defIndex, found := h.screening.TestByID(active.TestID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown test"})
		return
	}

	if err := active.Session.SubmitResponse(req.Observed); err != nil {
		if errors.Is(err, staircase.ErrInvalidState) {
			c.JSON(http.StatusConflict, gin.H{"error": "Test already finished"})
			return
		}
		h.log.Error("Failed to submit response", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit response"})
		return
	}

	if !active.Session.Status().Terminal() {
		c.JSON(http.StatusOK, gin.H{"done": false, "trial": h.trialResponse(req.SessionID, active, def)})
		return
	}

	// Claim the session before persisting. If a second request raced this
	// one to termination, only the claimant saves a result row.
	if !h.manager.Remove(req.SessionID) {
		c.JSON(http.StatusConflict, gin.H{"error": "Test already finished"})
		return
	}

	result, err := active.Session.Finalize(active.Eye)
	if err != nil {
		h.log.Error("Failed to finalize session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize test"})
		return
	}
	severity := classify.Classify(classify.FromResult(result), def.Rules())

	summary, err := repository.BuildEyeResult(user.ID, active.TestID, result, string(severity))
	if err != nil {
		h.log.Error("Failed to build result row", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save result"})
		return
	}
	if err := repository.SaveEyeResultTx(c.Request.Context(), summary, result.Trials); err != nil {
		h.log.Error("Failed to save result", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save result"})
		return
	}

	state, err := repository.GetOrCreateScreeningState(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("Failed to get screening state", zap.Error(err))
	} else if err := repository.MarkTestCompleted(c.Request.Context(), state, defIndex, len(h.screening.Tests)); err != nil {
		h.log.Error("Failed to update screening state", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"done": true,
		"result": gin.H{
			"testId":       active.TestID,
			"eye":          result.Eye,
			"status":       result.Status,
			"levelsPassed": result.LevelsPassed,
			"maxLevel":     result.MaxLevel,
			"score":        result.Score,
			"severity":     severity,
			"completedAt":  result.CompletedAt,
		},
	})
}

// eyeReport is one eye's slice of the aggregated report.
type eyeReport struct {
	Completed    bool                 `json:"completed"`
	LevelsPassed int                  `json:"levelsPassed,omitempty"`
	MaxLevel     int                  `json:"maxLevel,omitempty"`
	Score        *staircase.ScoreValue `json:"score,omitempty"`
	Severity     string               `json:"severity,omitempty"`
}

// Report aggregates the newest per-eye results of every test, with severity
// and inter-eye asymmetry, for the results screen and share/export flows.
func (h *ScreeningHandler) Report(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tests := make([]gin.H, 0, len(h.screening.Tests))
	for i := range h.screening.Tests {
		def := &h.screening.Tests[i]

		var scores [2]*classify.EyeScore
		reports := make(map[string]eyeReport, 2)
		for j, eye := range []string{string(staircase.EyeLeft), string(staircase.EyeRight)} {
			record, err := repository.GetLatestEyeResult(c.Request.Context(), user.ID, def.ID, eye)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				reports[eye] = eyeReport{}
				continue
			}
			if err != nil {
				h.log.Error("Failed to load result", zap.String("test", def.ID), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load report"})
				return
			}
			score := staircase.ScoreValue{
				Determined: record.ScoreDetermined,
				Score:      staircase.Score{Snellen: record.ScoreLabel, LogCS: record.ScoreValue},
			}
			scores[j] = &classify.EyeScore{LevelsPassed: record.LevelsPassed, Score: score}
			reports[eye] = eyeReport{
				Completed:    true,
				LevelsPassed: record.LevelsPassed,
				MaxLevel:     record.MaxLevel,
				Score:        &score,
				Severity:     record.Severity,
			}
		}

		tests = append(tests, gin.H{
			"testId":     def.ID,
			"title":      def.Title,
			"kind":       def.Kind,
			"eyes":       reports,
			"asymmetric": classify.DetectAsymmetry(scores[0], scores[1], def.Rules()),
			"bothEyes":   reports["left"].Completed && reports["right"].Completed,
		})
	}

	c.JSON(http.StatusOK, gin.H{"tests": tests})
}
