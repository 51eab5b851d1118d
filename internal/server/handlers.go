package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/haskel/calburn/internal/benchmark"
	"github.com/haskel/calburn/internal/features"
	"github.com/haskel/calburn/internal/model"
	"github.com/haskel/calburn/internal/monitor"
	"github.com/haskel/calburn/internal/report"
	"github.com/haskel/calburn/internal/stage"
	"github.com/haskel/calburn/internal/storage"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"`
}

// PredictRequest is the JSON body of POST /api/predict.
type PredictRequest struct {
	Gender       string  `json:"gender"`
	Age          int     `json:"age"`
	HeightCM     float64 `json:"height_cm"`
	WeightKG     float64 `json:"weight_kg"`
	DurationMin  int     `json:"duration_min"`
	HeartRateBPM int     `json:"heart_rate_bpm"`
	BodyTempC    float64 `json:"body_temp_c"`
}

// Record validates the request strictly. Unlike the form, nothing is clamped.
func (r PredictRequest) Record() (features.FeatureRecord, error) {
	gender, err := features.ParseGender(r.Gender)
	if err != nil {
		return features.FeatureRecord{}, err
	}
	return features.NewFeatureRecord(gender, r.Age, r.HeightCM, r.WeightKG, r.DurationMin, r.HeartRateBPM, r.BodyTempC)
}

type PredictResponse struct {
	*report.Assessment
	Model string   `json:"model"`
	Lines []string `json:"lines"`
}

type ModelSummary struct {
	Type         string             `json:"type"`
	IncludesBMI  bool               `json:"includes_bmi"`
	InputColumns []features.Column  `json:"input_columns"`
	FeatureNames []string           `json:"feature_names"`
	Coefficients model.Coefficients `json:"coefficients"`
}

type StatusResponse struct {
	Name      string                 `json:"name"`
	Version   string                 `json:"version"`
	UptimeSec int64                  `json:"uptime_sec"`
	Model     ModelStatus            `json:"model"`
	Artifacts []storage.ArtifactInfo `json:"artifacts"`
	Runtime   *monitor.Snapshot      `json:"runtime,omitempty"`
}

type ModelStatus struct {
	Type         string            `json:"type"`
	IncludesBMI  bool              `json:"includes_bmi"`
	InputColumns []features.Column `json:"input_columns"`
	OutputWidth  int               `json:"output_width"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handlePredictAPI(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large", "")
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rec, err := req.Record()
	if err != nil {
		var rangeErr *features.RangeError
		if errors.As(err, &rangeErr) {
			s.writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "input out of range",
				Details: rangeErr.Error(),
				Field:   rangeErr.Field,
			})
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	a, err := report.Assess(s.predictor, rec)
	if err != nil {
		s.logger.Error("prediction failed", "stage", stage.Of(err), "error", err)
		s.writeError(w, http.StatusInternalServerError, "prediction failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, PredictResponse{
		Assessment: a,
		Model:      s.predictor.ModelName(),
		Lines:      a.Lines(),
	})
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, ModelSummary{
		Type:         s.predictor.ModelName(),
		IncludesBMI:  s.predictor.IncludesBMI(),
		InputColumns: s.predictor.Schema().InputColumns(),
		FeatureNames: s.predictor.FeatureNames(),
		Coefficients: s.predictor.Coefficients(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Name:      "calburn",
		Version:   s.version,
		UptimeSec: int64(time.Since(s.started).Seconds()),
		Model: ModelStatus{
			Type:         s.predictor.ModelName(),
			IncludesBMI:  s.predictor.IncludesBMI(),
			InputColumns: s.predictor.Schema().InputColumns(),
			OutputWidth:  len(s.predictor.FeatureNames()),
		},
	}
	if s.store != nil {
		resp.Artifacts = s.store.Info()
	}
	if s.aggregator != nil {
		resp.Runtime = s.aggregator.Snapshot()
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleChart renders the comparison chart for a prediction passed in the
// query string, so the result page can embed it as a plain image. The
// category is taken as given; a bmi is classified only when no category
// is passed.
func (s *Server) handleChart(format report.ChartFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := chartAssessment(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		opts := s.chart
		opts.Format = format

		var buf bytes.Buffer
		if err := report.RenderChart(&buf, a, opts); err != nil {
			s.logger.Error("failed to render chart", "error", err)
			http.Error(w, "failed to render chart", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			s.logger.Debug("failed to write chart", "error", err)
		}
	}
}

func chartAssessment(q url.Values) (*report.Assessment, error) {
	predicted, err := queryFloat(q, "predicted")
	if err != nil {
		return nil, err
	}

	if raw := q.Get("category"); raw != "" {
		category, err := benchmark.ParseCategory(raw)
		if err != nil {
			return nil, err
		}
		return report.ForCategory(category, predicted), nil
	}

	bmi, err := queryFloat(q, "bmi")
	if err != nil {
		return nil, fmt.Errorf("category or bmi is required")
	}
	if bmi <= 0 {
		return nil, fmt.Errorf("bmi must be positive")
	}
	return report.Build(bmi, predicted, report.Input{}), nil
}

func queryFloat(q url.Values, name string) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a finite number", name)
	}
	return v, nil
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg, details string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg, Details: details})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status,
		)
	}
}
