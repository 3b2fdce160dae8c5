package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/lox/galaxyweather/internal/forecast"
	"github.com/lox/galaxyweather/internal/metrics"
	"github.com/lox/galaxyweather/internal/models"
	"github.com/lox/galaxyweather/internal/render"
	"github.com/lox/galaxyweather/internal/store"
)

// maxBodyBytes caps prediction request bodies.
const maxBodyBytes = 64 << 10

// MaxPredictDays bounds the days a single HTTP prediction may simulate. Runs
// hold the run lock and persist every day, so larger runs go through the CLI.
const MaxPredictDays = 36500

type HealthStatus struct {
	Status        string `json:"status"`
	SchemaVersion int    `json:"schemaVersion"`
	StoredDays    int    `json:"storedDays"`
}

type WeatherResponse struct {
	Day     int            `json:"day"`
	Weather models.Weather `json:"weather"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	version, err := s.store.MigrationVersion()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": err.Error()})
		return
	}
	periods, err := s.store.CountPeriods(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, HealthStatus{
		Status:        "ok",
		SchemaVersion: version,
		StoredDays:    periods.Total(),
	})
}

// parseDay reads a day number no smaller than lowest.
func parseDay(raw string, lowest int) (int, error) {
	if raw == "" {
		return 0, errors.New("missing day")
	}
	day, err := strconv.Atoi(raw)
	if err != nil || day < lowest {
		return 0, fmt.Errorf("invalid day %q", raw)
	}
	return day, nil
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request, raw string) (*models.DayWeather, bool) {
	day, err := parseDay(raw, 1)
	if err != nil {
		metrics.Lookups.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	dw, err := s.store.GetDayWeather(r.Context(), day)
	if errors.Is(err, store.ErrNotFound) {
		metrics.Lookups.WithLabelValues("not_found").Inc()
		writeError(w, http.StatusNotFound, store.ErrNotFound.Error())
		return nil, false
	}
	if err != nil {
		log.Printf("api: lookup day %d: %v", day, err)
		metrics.Lookups.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	metrics.Lookups.WithLabelValues("ok").Inc()
	return dw, true
}

func (s *Server) handleWeatherQuery(w http.ResponseWriter, r *http.Request) {
	dw, ok := s.lookup(w, r, r.URL.Query().Get("day"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, WeatherResponse{Day: dw.Day, Weather: dw.Weather})
}

func (s *Server) handleWeatherDetail(w http.ResponseWriter, r *http.Request) {
	dw, ok := s.lookup(w, r, r.PathValue("day"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dw)
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.store.CountPeriods(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
		return
	}

	in := forecast.NewInput(s.days, s.galaxy)
	if len(strings.TrimSpace(string(body))) > 0 {
		in = forecast.Input{}
		if err := json.Unmarshal(body, &in); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("decode body: %v", err))
			return
		}
	}

	if in.Days != nil && *in.Days > MaxPredictDays {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("days must be at most %d, received %d", MaxPredictDays, *in.Days))
		return
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	result, err := s.predictor.Execute(r.Context(), in)
	if errors.Is(err, forecast.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("api: predict: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := s.store.InsertPredictionRun(r.Context(), *in.Days, result); err != nil {
		log.Printf("api: record prediction run: %v", err)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetLatestPredictionRun(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGalaxyImage(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(strings.TrimSuffix(r.PathValue("day"), ".png"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, ok := s.images.Get(day)
	if !ok {
		radii := make([]float64, 0, len(s.galaxy.Planets))
		for _, p := range s.galaxy.Planets {
			radii = append(radii, p.SolarRadius)
		}
		data, err = render.Draw(render.Scene{
			Day:   forecast.ClassifyDay(s.galaxy, day).DayWeather,
			Sun:   s.galaxy.Sun,
			Radii: radii,
		})
		if err != nil {
			log.Printf("api: render day %d: %v", day, err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.images.Set(day, data)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
