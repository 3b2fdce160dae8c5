package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/galaxyweather/internal/forecast"
	"github.com/lox/galaxyweather/internal/render"
	"github.com/lox/galaxyweather/internal/store"
)

type Server struct {
	store     *store.Store
	predictor *forecast.Predictor
	galaxy    forecast.Galaxy
	days      int
	port      string
	images    *render.Cache
	runMu     sync.Mutex // One prediction run at a time
}

// NewServer wires the HTTP surface. galaxy and days are used for runs
// triggered without a request body and for diagrams.
func NewServer(st *store.Store, predictor *forecast.Predictor, galaxy forecast.Galaxy, days int, port string) *Server {
	return &Server{
		store:     st,
		predictor: predictor,
		galaxy:    galaxy,
		days:      days,
		port:      port,
		images:    render.NewCache(time.Hour),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/weather", s.handleWeatherQuery)
	mux.HandleFunc("GET /api/weather/{day}", s.handleWeatherDetail)
	mux.HandleFunc("GET /api/periods", s.handlePeriods)
	mux.HandleFunc("POST /api/predict", s.handlePredict)
	mux.HandleFunc("GET /api/runs/latest", s.handleLatestRun)
	mux.HandleFunc("GET /api/galaxy/{day}", s.handleGalaxyImage)
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
