// Package api exposes the dashboard read surface: REST endpoints over
// the hot tier and alert ledger, plus a websocket stream of raised
// alerts.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/groundsense/groundwatch/pkg/alerting"
	"github.com/groundsense/groundwatch/pkg/cache"
	"github.com/groundsense/groundwatch/pkg/logger"
	"github.com/groundsense/groundwatch/pkg/models"
)

// Server serves the dashboard API. It only reads shared state; the
// single mutation it offers is resolving an alert.
type Server struct {
	tier       cache.Tier
	ledger     *alerting.Ledger
	hub        *Hub
	router     *mux.Router
	httpServer *http.Server
	listenAddr string
	log        *logger.Logger
}

// NewServer builds the API server and its routes.
func NewServer(listenAddr string, tier cache.Tier, ledger *alerting.Ledger, log *logger.Logger) *Server {
	s := &Server{
		tier:       tier,
		ledger:     ledger,
		hub:        NewHub(log),
		router:     mux.NewRouter(),
		listenAddr: listenAddr,
		log:        log,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// OPTIONS is listed so preflights reach the CORS middleware; mux
	// skips middleware entirely on method-mismatch responses
	s.router.HandleFunc("/api/sensors/{type}/{id}/snapshot", s.getSnapshot).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/sensors/{type}/{id}/history", s.getHistory).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/sensors/{type}/{id}/average", s.getAverage).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/alerts", s.getActiveAlerts).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/alerts/{id}/resolve", s.resolveAlert).Methods("POST", "OPTIONS")
	s.router.HandleFunc("/api/dashboard", s.getDashboard).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/ws", s.hub.ServeWS)
}

// Router exposes the handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP listener and the alert fan-out bridge.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	// bridge ledger broadcasts into the websocket hub
	alerts := s.ledger.Subscribe(64)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case alert := <-alerts:
				s.hub.BroadcastAlert(alert)
			}
		}
	}()

	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("API server error")
		}
	}()

	return nil
}

// Stop shuts the HTTP server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

func sensorType(r *http.Request) (models.SensorType, bool) {
	t := models.SensorType(mux.Vars(r)["type"])
	return t, t.Valid()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	t, ok := sensorType(r)
	if !ok {
		http.Error(w, "unknown sensor type", http.StatusBadRequest)
		return
	}

	reading, err := s.tier.Snapshot(t, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "sensor not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	t, ok := sensorType(r)
	if !ok {
		http.Error(w, "unknown sensor type", http.StatusBadRequest)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		limit = parsed
	}

	history, err := s.tier.History(t, mux.Vars(r)["id"], limit)
	if err != nil {
		http.Error(w, "sensor not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

func (s *Server) getAverage(w http.ResponseWriter, r *http.Request) {
	t, ok := sensorType(r)
	if !ok {
		http.Error(w, "unknown sensor type", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]

	avg, err := s.tier.Average(t, id)
	if err != nil {
		http.Error(w, "no series data", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sensor_id":   id,
		"sensor_type": t,
		"average":     avg,
	})
}

func (s *Server) getActiveAlerts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.ActiveAlerts())
}

func (s *Server) resolveAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	resolved := s.ledger.Resolve(id)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       id,
		"resolved": resolved,
	})
}

// dashboardSensor is one live sensor's latest state.
type dashboardSensor struct {
	SensorID string         `json:"sensor_id"`
	Reading  models.Reading `json:"reading"`
}

// dashboardResponse summarizes all live sensors and active alerts.
type dashboardResponse struct {
	Timestamp    time.Time                               `json:"timestamp"`
	Sensors      map[models.SensorType][]dashboardSensor `json:"sensors"`
	ActiveAlerts []models.Alert                          `json:"active_alerts"`
	TotalAlerts  int                                     `json:"total_alerts"`
}

func (s *Server) getDashboard(w http.ResponseWriter, _ *http.Request) {
	resp := dashboardResponse{
		Timestamp: time.Now().UTC(),
		Sensors:   make(map[models.SensorType][]dashboardSensor),
	}

	for _, t := range models.SensorTypes() {
		sensors := []dashboardSensor{}

		for _, id := range s.tier.SensorIDs(t) {
			reading, err := s.tier.Snapshot(t, id)
			if err != nil {
				continue // expired between listing and read
			}

			sensors = append(sensors, dashboardSensor{SensorID: id, Reading: reading})
		}

		resp.Sensors[t] = sensors
	}

	resp.ActiveAlerts = s.ledger.ActiveAlerts()
	resp.TotalAlerts = len(resp.ActiveAlerts)

	writeJSON(w, http.StatusOK, resp)
}
