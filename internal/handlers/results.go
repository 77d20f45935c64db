package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"ocucheck/internal/models"
	"ocucheck/internal/repository"
	"ocucheck/internal/staircase"
)

type ResultsHandler struct {
	log       *zap.Logger
	screening *models.Screening
}

func NewResultsHandler(log *zap.Logger, screening *models.Screening) *ResultsHandler {
	return &ResultsHandler{log: log, screening: screening}
}

// ShowResults renders one timeline chart per test, with a series per eye, so
// a returning user can watch a screen drift over repeated self-checks.
func (h *ResultsHandler) ShowResults(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	page := components.NewPage()
	page.PageTitle = "OcuCheck Results"

	for i := range h.screening.Tests {
		def := &h.screening.Tests[i]
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title:    def.Title,
				Subtitle: "Levels passed per eye over time",
			}),
			charts.WithXAxisOpts(opts.XAxis{
				Type: "time",
			}),
			charts.WithYAxisOpts(opts.YAxis{
				Type:  "value",
				Scale: opts.Bool(true),
			}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
			charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
		)

		for _, eye := range []string{string(staircase.EyeLeft), string(staircase.EyeRight)} {
			points, err := repository.GetTimelineData(c.Request.Context(), user.ID, def.ID, eye)
			if err != nil {
				h.log.Error("Failed to get timeline data",
					zap.String("test", def.ID),
					zap.String("eye", eye),
					zap.Error(err),
				)
				c.String(http.StatusInternalServerError, "Failed to load results")
				return
			}
			items := make([]opts.LineData, 0, len(points))
			for _, point := range points {
				items = append(items, opts.LineData{Value: []interface{}{point.Date, point.Value}})
			}
			line.AddSeries(eye, items).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
		}
		page.AddCharts(line)
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(c.Writer); err != nil {
		h.log.Error("Failed to render results page", zap.Error(err))
	}
}
