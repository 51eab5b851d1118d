package server

import (
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/haskel/calburn/internal/features"
	"github.com/haskel/calburn/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type genderOption struct {
	Value    string
	Label    string
	Selected bool
}

type formField struct {
	Name  string
	Label string
	Min   string
	Max   string
	Step  string
	Value string
}

type pageData struct {
	Genders  []genderOption
	Fields   []formField
	Result   *report.Assessment
	ChartURL string
	Error    string
}

func newPageData(rec features.FeatureRecord) pageData {
	var genders []genderOption
	for _, g := range []features.Gender{features.GenderMale, features.GenderFemale} {
		genders = append(genders, genderOption{Value: g.String(), Label: g.Label(), Selected: g == rec.Gender()})
	}

	field := func(name, label string, b features.Bounds, step string, v float64) formField {
		return formField{
			Name:  name,
			Label: label,
			Min:   formatNumber(b.Min),
			Max:   formatNumber(b.Max),
			Step:  step,
			Value: formatNumber(v),
		}
	}

	return pageData{
		Genders: genders,
		Fields: []formField{
			field("age", "Age", features.AgeBounds, "1", float64(rec.Age())),
			field("height_cm", "Height (cm)", features.HeightBounds, "0.1", rec.HeightCM()),
			field("weight_kg", "Weight (kg)", features.WeightBounds, "0.1", rec.WeightKG()),
			field("duration_min", "Workout Duration (minutes)", features.DurationBounds, "1", float64(rec.DurationMin())),
			field("heart_rate_bpm", "Average Heart Rate (bpm)", features.HeartRateBounds, "1", float64(rec.HeartRateBPM())),
			field("body_temp_c", "Body Temperature (°C)", features.BodyTempBounds, "0.1", rec.BodyTempC()),
		},
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseForm reads the submitted widgets. Out-of-range numbers are clamped
// the way the number inputs would clamp them; unparseable ones are errors.
func parseForm(r *http.Request) (features.FeatureRecord, error) {
	if err := r.ParseForm(); err != nil {
		return features.FeatureRecord{}, fmt.Errorf("invalid form: %w", err)
	}

	gender, err := features.ParseGender(r.PostForm.Get("gender"))
	if err != nil {
		return features.FeatureRecord{}, err
	}

	var parseErr error
	number := func(name string) float64 {
		raw := strings.TrimSpace(r.PostForm.Get(name))
		if raw == "" {
			if parseErr == nil {
				parseErr = fmt.Errorf("%s is required", name)
			}
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			if parseErr == nil {
				parseErr = fmt.Errorf("%s must be a number, got %q", name, raw)
			}
			return 0
		}
		return v
	}

	age := number("age")
	height := number("height_cm")
	weight := number("weight_kg")
	duration := number("duration_min")
	heartRate := number("heart_rate_bpm")
	bodyTemp := number("body_temp_c")
	if parseErr != nil {
		return features.FeatureRecord{}, parseErr
	}

	// Pre-clamp the integer inputs so huge values survive the int conversion
	return features.ClampedRecord(gender,
		roundInt(features.AgeBounds.Clamp(age)), height, weight,
		roundInt(features.DurationBounds.Clamp(duration)),
		roundInt(features.HeartRateBounds.Clamp(heartRate)), bodyTemp)
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func chartURL(format report.ChartFormat, a *report.Assessment) string {
	q := url.Values{}
	q.Set("predicted", strconv.FormatFloat(a.PredictedKcal, 'f', 2, 64))
	q.Set("category", string(a.Category))
	return "/chart." + string(format) + "?" + q.Encode()
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, newPageData(features.Defaults()))
}

func (s *Server) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	rec, err := parseForm(r)
	if err != nil {
		data := newPageData(features.Defaults())
		data.Error = err.Error()
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}

	data := newPageData(rec)

	a, err := report.Assess(s.predictor, rec)
	if err != nil {
		s.logger.Error("prediction failed", "error", err)
		data.Error = "Prediction failed. Please try again later."
		s.renderPage(w, http.StatusInternalServerError, data)
		return
	}

	data.Result = a
	data.ChartURL = chartURL(s.chart.Format, a)
	s.renderPage(w, http.StatusOK, data)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", "error", err)
	}
}
