package api

import (
	"net/http"

	"github.com/dgallion1/textprep/internal/storage"
	"github.com/dgallion1/textprep/internal/version"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	engine := s.orchestrator.Engine()
	body := map[string]any{
		"status":    "ok",
		"version":   version.Version,
		"extractor": engine.ExtractorName(),
		"ready":     true,
	}
	if err := engine.ExtractorReady(r.Context()); err != nil {
		body["status"] = "degraded"
		body["ready"] = false
		body["error"] = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	backends := []string{}
	if s.store != nil {
		if m, ok := s.store.(*storage.Multi); ok {
			for _, b := range m.Backends() {
				backends = append(backends, b.Name())
			}
		} else {
			backends = append(backends, s.store.Name())
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documents":        s.orchestrator.Engine().Stats(),
		"jobs":             s.orchestrator.JobCounts(),
		"queue_depth":      s.orchestrator.QueueDepth(),
		"storage_backends": backends,
	})
}
