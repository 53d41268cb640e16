package mcp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"connpass-mcp/pkg/protocol"

	log "github.com/sirupsen/logrus"
)

func (s *Server) handleMCPRequest(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handlePost(w, r)
	case http.MethodDelete:
		s.handleDelete(w, r)
	default:
		// No server-initiated messages, so there is no SSE stream to GET.
		w.Header().Set("Allow", "POST, DELETE")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return
	}

	if id := r.Header.Get(SessionHeader); id != "" {
		if _, ok := s.Session(id); !ok {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
	}

	resp, sessionID := s.handleMessage(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	if sessionID != "" {
		w.Header().Set(SessionHeader, sessionID)
	}
	writeResponse(w, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		http.Error(w, "Missing "+SessionHeader+" header", http.StatusBadRequest)
		return
	}
	if !s.endSession(id) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	log.Infof("Closed session: %s", id)
	w.WriteHeader(http.StatusNoContent)
}

func writeResponse(w http.ResponseWriter, resp *protocol.Response) {
	status := http.StatusOK
	if resp.Error != nil {
		switch resp.Error.Code {
		case protocol.CodeParseError, protocol.CodeInvalidRequest, protocol.CodeInvalidParams:
			status = http.StatusBadRequest
		case protocol.CodeMethodNotFound:
			status = http.StatusNotFound
		default:
			status = http.StatusInternalServerError
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("Error writing response: %v", err)
	}
}
