package server

import (
	"net/http"

	"github.com/haskel/calburn/internal/report"
)

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Browser form
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /predict", s.handlePredictForm)
	mux.HandleFunc("GET /chart.png", s.handleChart(report.FormatPNG))
	mux.HandleFunc("GET /chart.svg", s.handleChart(report.FormatSVG))

	// JSON API
	mux.HandleFunc("POST /api/predict", s.handlePredictAPI)
	mux.HandleFunc("GET /api/model", s.handleModel)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)

	return mux
}
