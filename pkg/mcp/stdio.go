package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ServeStdio speaks newline-delimited JSON-RPC, reading requests from in and
// writing responses to out. It returns nil when in reaches EOF or ctx is done.
// Nothing else may write to out while it runs, and nothing is written to out
// after it returns. On cancellation a read blocked on in is left behind until
// in is closed; whatever it reads is dropped.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	log.Infof("MCP Server '%s' version '%s' serving on stdio", s.info.Name, s.info.Version)

	w := &closableWriter{w: out}
	errCh := make(chan error, 1)
	go func() { errCh <- s.serveLines(ctx, in, w) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		w.close()
		return nil
	}
}

// closableWriter refuses writes once closed. close waits for a write in flight.
type closableWriter struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

func (c *closableWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, io.ErrClosedPipe
	}
	return c.w.Write(p)
}

func (c *closableWriter) close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (s *Server) serveLines(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxRequestBodySize)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		resp, _ := s.handleMessage(ctx, line)
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	return nil
}
