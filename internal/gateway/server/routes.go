package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flightassist/internal/gateway/handler"
	"flightassist/internal/gateway/middleware"
)

func NewMux(analyzeHandler *handler.AnalyzeHandler, statusHandler *handler.StatusHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/llm/analyze", analyzeHandler.HandleAnalyze)
	mux.HandleFunc("/api/llm/status", statusHandler.HandleStatus)

	mux.Handle("/metrics", promhttp.Handler())

	return middleware.CORS(mux)
}
