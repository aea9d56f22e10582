package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/antigravity/morocco-transport/internal/repository"
	"github.com/antigravity/morocco-transport/internal/routing"

	"github.com/go-chi/chi/v5"
)

type TransportHandler struct {
	Repo      *repository.LineRepository
	Timetable *routing.Timetable
	Cfg       routing.GroupQueryConfig
}

func NewTransportHandler(repo *repository.LineRepository, timetable *routing.Timetable, cfg routing.GroupQueryConfig) *TransportHandler {
	return &TransportHandler{Repo: repo, Timetable: timetable, Cfg: cfg}
}

func (h *TransportHandler) GetAllLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Repo.GetAllLines(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(lines)
}

func (h *TransportHandler) GetLineDetails(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid line ID", http.StatusBadRequest)
		return
	}

	direction := 0
	if dirStr := r.URL.Query().Get("direction"); dirStr != "" {
		if d, err := strconv.Atoi(dirStr); err == nil {
			direction = d
		}
	}

	line, stops, err := h.Repo.GetLineDetails(r.Context(), id, direction)
	if err != nil {
		if repository.IsNoRows(err) {
			http.Error(w, "Line not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"line":  line,
		"stops": stops,
	}
	json.NewEncoder(w).Encode(response)
}

// GetRoute plans a depart-after journey between viewport-nearby stops,
// stitching across calendar days when the requested time lands after
// that day's last service.
func (h *TransportHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	fromLat, _ := strconv.ParseFloat(r.URL.Query().Get("from_lat"), 64)
	fromLon, _ := strconv.ParseFloat(r.URL.Query().Get("from_lon"), 64)
	toLat, _ := strconv.ParseFloat(r.URL.Query().Get("to_lat"), 64)
	toLon, _ := strconv.ParseFloat(r.URL.Query().Get("to_lon"), 64)

	if fromLat == 0 || toLat == 0 {
		http.Error(w, "Missing source/destination coordinates", http.StatusBadRequest)
		return
	}

	departureTime := 8*3600 + 30*60
	if timeParam := r.URL.Query().Get("time"); timeParam != "" {
		if parsed, err := strconv.Atoi(timeParam); err == nil && parsed >= 0 {
			departureTime = parsed
		}
	}

	now := time.Now()
	date := routing.Date(now.Year()*10000 + int(now.Month())*100 + now.Day())
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		if n, err := strconv.Atoi(dateParam); err == nil {
			date = routing.Date(n)
		}
	}

	sources, err := h.Repo.GetStopsInViewport(r.Context(), fromLat-0.01, fromLon-0.01, fromLat+0.01, fromLon+0.01)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	targets, err := h.Repo.GetStopsInViewport(r.Context(), toLat-0.01, toLon-0.01, toLat+0.01, toLon+0.01)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(sources) == 0 || len(targets) == 0 {
		http.Error(w, "No nearby stops found", http.StatusNotFound)
		return
	}

	origins := make(map[routing.StopID]bool, len(sources))
	for _, s := range sources {
		origins[routing.StopID(s.Code)] = true
	}
	destinations := make(map[routing.StopID]bool, len(targets))
	for _, tgt := range targets {
		destinations[routing.StopID(tgt.Code)] = true
	}

	best, err := h.Timetable.PlanDepartAfter(origins, destinations, date, departureTime, h.Cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(best) == 0 {
		http.Error(w, "No route found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(best)
}

// ReMatchRequest carries a previously planned journey's leg descriptors
// and the new anchor to re-anchor them onto.
type ReMatchRequest struct {
	Legs       []routing.LegDescriptor `json:"legs"`
	NewAnchor  int                     `json:"new_anchor"` // seconds since midnight
	AnchorDate int                     `json:"anchor_date"` // YYYYMMDD
	Depart     bool                    `json:"depart"`
}

func (h *TransportHandler) ReMatch(w http.ResponseWriter, r *http.Request) {
	var req ReMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	matched, err := h.Timetable.ReMatch(req.Legs, req.NewAnchor, routing.Date(req.AnchorDate), req.Depart)
	if err != nil {
		if errors.Is(err, routing.ErrNoRematch) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(matched)
}

func (h *TransportHandler) GetStops(w http.ResponseWriter, r *http.Request) {
	minLat, _ := strconv.ParseFloat(r.URL.Query().Get("min_lat"), 64)
	minLon, _ := strconv.ParseFloat(r.URL.Query().Get("min_lon"), 64)
	maxLat, _ := strconv.ParseFloat(r.URL.Query().Get("max_lat"), 64)
	maxLon, _ := strconv.ParseFloat(r.URL.Query().Get("max_lon"), 64)

	if minLat == 0 || maxLat == 0 {
		http.Error(w, "Missing viewport coordinates", http.StatusBadRequest)
		return
	}

	stops, err := h.Repo.GetStopsInViewport(r.Context(), minLat, minLon, maxLat, maxLon)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(stops)
}

func (h *TransportHandler) GetStopDetails(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid stop ID", http.StatusBadRequest)
		return
	}

	stop, lines, err := h.Repo.GetStopDetails(r.Context(), id)
	if err != nil {
		if repository.IsNoRows(err) {
			http.Error(w, "Stop not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"stop":  stop,
		"lines": lines,
	}
	json.NewEncoder(w).Encode(response)
}
