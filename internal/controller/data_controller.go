package controller

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"airstation/internal/display"
	"airstation/internal/models"
	"airstation/internal/service"
	"airstation/internal/utils"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// DataController handles HTTP requests for the dashboard.
type DataController struct {
	service *service.DataService
	log     *zap.Logger
	now     func() time.Time // injectable clock for tests
}

// NewDataController creates a new DataController.
func NewDataController(svc *service.DataService, log *zap.Logger) *DataController {
	return &DataController{
		service: svc,
		log:     log,
		now:     time.Now,
	}
}

// HandleLatest serves the most recent reading as a flat JSON object, or {}
// when no data has been logged yet.
func (c *DataController) HandleLatest(w http.ResponseWriter, r *http.Request) {
	latest, err := c.service.Latest(c.now())
	if err != nil {
		apiErr := models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("error loading data: %v", err), nil, http.StatusInternalServerError)
		utils.RespondWithError(w, apiErr)
		return
	}
	if latest == nil {
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, latest)
}

// HandleData serves the trailing 24-hour window as a JSON array, [] when empty.
func (c *DataController) HandleData(w http.ResponseWriter, r *http.Request) {
	rows, err := c.service.Window(c.now())
	if err != nil {
		apiErr := models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("error loading data: %v", err), nil, http.StatusInternalServerError)
		utils.RespondWithError(w, apiErr)
		return
	}
	if rows == nil {
		rows = []models.Reading{}
	}
	utils.RespondWithJSON(w, http.StatusOK, rows)
}

// HandleHome renders the dashboard page: latest values plus the last-100 rows
// for the chart.
func (c *DataController) HandleHome(w http.ResponseWriter, r *http.Request) {
	now := c.now()
	latest, err := c.service.Latest(now)
	if err != nil {
		apiErr := models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("error loading data: %v", err), nil, http.StatusInternalServerError)
		utils.RespondWithError(w, apiErr)
		return
	}
	recent, err := c.service.Recent(now, 100)
	if err != nil {
		apiErr := models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("error loading data: %v", err), nil, http.StatusInternalServerError)
		utils.RespondWithError(w, apiErr)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Latest *latestView
		Rows   int
	}{newLatestView(latest), len(recent)}
	if err := indexTemplate.Execute(w, data); err != nil {
		c.log.Error("rendering dashboard page failed", zap.Error(err))
	}
}

// latestView is the pre-formatted latest-values widget: every numeric is
// rendered with a placeholder for absent values, so a partial reading never
// breaks the page.
type latestView struct {
	Timestamp   string
	Temperature string
	Humidity    string
	Pressure    string
	DewPoint    string
	CO2         string
	AQI         string
	TVOC        string
	ECO2        string
	Errors      string
}

func newLatestView(r *models.Reading) *latestView {
	if r == nil {
		return nil
	}
	return &latestView{
		Timestamp:   r.Timestamp.Format("2006-01-02 15:04:05"),
		Temperature: display.FormatNum(r.TemperatureC, "°C"),
		Humidity:    display.FormatNum(r.HumidityPct, "%"),
		Pressure:    display.FormatNum(r.PressureHPa, " hPa"),
		DewPoint:    display.FormatNum(r.DewPointC, "°C"),
		CO2:         display.FormatPpm(r.CO2Ppm),
		AQI:         display.FormatNum(r.AQI, ""),
		TVOC:        display.FormatNum(r.TVOCPpb, " ppb"),
		ECO2:        display.FormatPpm(r.ECO2Ppm),
		Errors:      r.Errors,
	}
}

// HandleHealth is a liveness probe.
func (c *DataController) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}
