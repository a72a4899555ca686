package api

import (
	"net/http"
	"strconv"

	"github.com/krishisetu/krishi-cli/pkg/weather"
)

func parseCoords(w http.ResponseWriter, r *http.Request) (lat, lon float64, ok bool) {
	var err error
	lat, err = strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err == nil {
		lon, err = strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed",
			"lat and lon query parameters are required")
		return 0, 0, false
	}
	return lat, lon, true
}

func (s *Server) weatherSnapshot(w http.ResponseWriter, r *http.Request) *weather.Snapshot {
	if s.weather == nil {
		writeError(w, http.StatusServiceUnavailable, "Weather unavailable",
			"No weather API key is configured")
		return nil
	}
	lat, lon, ok := parseCoords(w, r)
	if !ok {
		return nil
	}
	snap, err := s.weather.Current(r.Context(), lat, lon)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Weather lookup failed", err.Error())
		return nil
	}
	return snap
}

func (s *Server) handleWeatherCurrent(w http.ResponseWriter, r *http.Request) {
	snap := s.weatherSnapshot(w, r)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    snap,
	})
}

func (s *Server) handleWeatherAdvice(w http.ResponseWriter, r *http.Request) {
	snap := s.weatherSnapshot(w, r)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"weather": snap,
			"advice":  weather.FieldAdvice(snap),
		},
	})
}
