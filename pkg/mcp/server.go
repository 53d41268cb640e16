package mcp

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"connpass-mcp/pkg/protocol"

	log "github.com/sirupsen/logrus"
)

// SessionHeader carries the session id issued by initialize over HTTP.
const SessionHeader = "Mcp-Session-Id"

// MaxRequestBodySize caps a single JSON-RPC message on either transport (1MB).
const MaxRequestBodySize = 1 << 20

// Server holds the state and logic for an MCP server.
type Server struct {
	serverMux    *http.ServeMux
	info         protocol.ImplementationInfo
	capabilities protocol.ServerCapabilities
	sessionLock  sync.RWMutex
	sessions     map[string]*SessionState
	toolLock     sync.RWMutex
	// tools stores the internal representation of registered tools.
	tools map[string]internalRegisteredTool
}

// SessionState holds state for a connected client.
type SessionState struct {
	ClientInfo         protocol.ImplementationInfo
	ClientCapabilities protocol.ClientCapabilities
	ProtocolVersion    string
	CreatedAt          time.Time
}

// NewServer creates a new MCP Server.
func NewServer(name, version string, capabilities protocol.ServerCapabilities) *Server {
	s := &Server{
		serverMux:    http.NewServeMux(),
		info:         protocol.ImplementationInfo{Name: name, Version: version},
		capabilities: capabilities,
		sessions:     make(map[string]*SessionState),
		tools:        make(map[string]internalRegisteredTool),
	}
	s.serverMux.HandleFunc("/mcp", s.handleMCPRequest)
	return s
}

// ServeHTTP exposes the /mcp endpoint so the server can be mounted or tested directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.serverMux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server and shuts it down when ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.serverMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("MCP Server '%s' version '%s' listening on %s", s.info.Name, s.info.Version, addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Infof("Shutting down MCP Server '%s'", s.info.Name)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) createSession(params protocol.InitializeRequest, version string) string {
	id := uuid.New().String()
	s.sessionLock.Lock()
	s.sessions[id] = &SessionState{
		ClientInfo:         params.ClientInfo,
		ClientCapabilities: params.Capabilities,
		ProtocolVersion:    version,
		CreatedAt:          time.Now(),
	}
	s.sessionLock.Unlock()
	return id
}

// Session returns the state recorded for id, if the session is still open.
func (s *Server) Session(id string) (*SessionState, bool) {
	s.sessionLock.RLock()
	defer s.sessionLock.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Server) endSession(id string) bool {
	s.sessionLock.Lock()
	defer s.sessionLock.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}
