// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/ngsim/botindex/internal/site"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) current(w http.ResponseWriter) *site.Result {
	res := s.pages.Current()
	if res == nil {
		w.Header().Set("Retry-After", "5")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "page not built yet"})
	}
	return res
}

// handleIndex serves the rendered page. Conditional requests are answered
// from the build id and build time.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	res := s.current(w)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("ETag", `"`+res.ID+`"`)
	http.ServeContent(w, r, site.IndexFile, res.BuiltAt, bytes.NewReader(res.HTML))
}

// handleBots serves the derived listing as JSON.
func (s *Server) handleBots(w http.ResponseWriter, _ *http.Request) {
	res := s.current(w)
	if res == nil {
		return
	}
	writeJSON(w, http.StatusOK, res.Bots)
}
