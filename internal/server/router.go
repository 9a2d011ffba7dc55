package server

import (
	"encoding/json"
	"net/http"
	"os/exec"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hubpanel/backend/hubd/internal/config"
	"hubpanel/backend/hubd/internal/hubcfg"
	"hubpanel/backend/hubd/internal/usb"
	"hubpanel/backend/hubd/pkg/httpx"
	"hubpanel/backend/hubd/pkg/shell"
)

const version = "0.1.0"

func Logger(cfg config.Config) *zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	logger := log.Logger.Level(cfg.LogLevel).With().Timestamp().Logger()
	return &logger
}

func NewRouter(cfg config.Config, hubs *hubcfg.Snapshot) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(zerologMiddleware(Logger(cfg)))
	r.Use(securityHeaders)

	// Dev CORS for the frontend dev server
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	r.Use(c.Handler)

	m := newMetrics()
	r.Method(http.MethodGet, "/metrics", m.handler())

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"ok": true, "version": version})
	})

	r.Get("/api/topology", handleTopology(cfg, hubs, m))
	r.Post("/api/power", handlePower(cfg, m))
	r.Get("/api/uhubctl", handleUhubctlInfo(cfg))
	r.Get("/api/system", handleSystemInfo)

	if cfg.WebRoot != "" {
		r.Handle("/*", spaHandler(cfg.WebRoot))
	}

	return r
}

// handleTopology runs a fresh point-in-time scan per request. Scans share no
// state, so concurrent requests need no locking. The only propagated failure
// is the enumeration command itself; ?aggregate=true applies the merged view
// against the process-wide configuration snapshot.
func handleTopology(cfg config.Config, hubs *hubcfg.Snapshot, m *metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		topo, err := usb.Collect(r.Context(), cfg.ScanTimeout)
		m.observeScan(time.Since(start), err)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "usb discovery failed: "+err.Error())
			return
		}
		if r.URL.Query().Get("aggregate") == "true" {
			topo = usb.Aggregate(topo, hubs)
		}
		writeJSON(w, topo)
	}
}

// handleUhubctlInfo probes whether uhubctl is usable and relays its raw
// status output for the frontend's diagnostics panel.
func handleUhubctlInfo(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !hasCommand("uhubctl") {
			writeJSON(w, map[string]any{"available": false, "output": ""})
			return
		}
		res, err := shell.Run(r.Context(), cfg.ScanTimeout, "sudo", "uhubctl")
		writeJSON(w, map[string]any{"available": err == nil, "output": string(res.Combined())})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func hasCommand(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
