package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// maxRequestBody bounds the getTranslatorCode request body
const maxRequestBody = 64 * 1024

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/status", s.handleStatus)

	mux.HandleFunc("/connector/getTranslators", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			http.MethodGet:  s.handleGetTranslators,
			http.MethodPost: s.handleGetTranslators,
		})
	})

	mux.HandleFunc("/connector/getTranslatorCode", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			http.MethodGet:  s.handleGetTranslatorCode,
			http.MethodPost: s.handleGetTranslatorCode,
		})
	})

	return mux
}

// handleStatus handles GET /status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"translators": s.catalog.Len(),
	})
}

// handleGetTranslators returns the metadata of every translator
func (s *Server) handleGetTranslators(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.catalog.Metadata())
}

type translatorCodeRequest struct {
	TranslatorID string `json:"translatorID"`
}

// handleGetTranslatorCode returns the full source of one translator.
// The ID comes from a JSON body ({"translatorID": "..."}) or the translatorID query parameter.
func (s *Server) handleGetTranslatorCode(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("translatorID")

	if id == "" && r.Method == http.MethodPost {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		var req translatorCodeRequest
		if err := json.Unmarshal(body, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "request body must be JSON with a translatorID")
			return
		}
		id = req.TranslatorID
	}

	id = strings.TrimSpace(id)
	if id == "" {
		WriteError(w, http.StatusBadRequest, "translatorID is required")
		return
	}

	translator, ok := s.catalog.ByID(id)
	if !ok {
		s.logger.Warn().Str("translator_id", id).Msg("Requested unknown translator")
		WriteError(w, http.StatusNotFound, "translator not found")
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, translator.Content)
}
