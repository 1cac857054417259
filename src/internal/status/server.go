// FILE: faultline/src/internal/status/server.go
package status

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"faultline/src/internal/aggregate"
	"faultline/src/internal/router"
	"faultline/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Source supplies the data served by the status endpoints.
type Source interface {
	Report() aggregate.Summary
	Stats() router.RouterStats
	Aggregator() *aggregate.Aggregator
}

// Server exposes the aggregator report, sink statistics and metrics over
// HTTP for the host process.
type Server struct {
	source    Source
	addr      string
	server    *fasthttp.Server
	listener  net.Listener
	metrics   fasthttp.RequestHandler
	startTime time.Time
	logger    *log.Logger
	wg        sync.WaitGroup
}

// NewServer creates a status server bound to host:port once started
func NewServer(source Source, host string, port int64, logger *log.Logger) *Server {
	return &Server{
		source:    source,
		addr:      net.JoinHostPort(host, fmt.Sprintf("%d", port)),
		metrics:   fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()),
		startTime: time.Now(),
		logger:    logger,
	}
}

// Start listens and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("status server listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	s.server = &fasthttp.Server{
		Handler:          s.requestHandler,
		DisableKeepalive: false,
		CloseOnShutdown:  true,
		ReadTimeout:      5 * time.Second,
		WriteTimeout:     10 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info("msg", "Status server starting",
			"component", "status",
			"addr", ln.Addr().String())

		if err := s.server.Serve(ln); err != nil {
			s.logger.Error("msg", "Status server failed",
				"component", "status",
				"addr", ln.Addr().String(),
				"error", err)
		}
	}()

	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop shuts the server down and waits for the serve loop to exit.
func (s *Server) Stop() {
	if s.server == nil {
		return
	}
	s.logger.Info("msg", "Stopping status server", "component", "status")
	if err := s.server.Shutdown(); err != nil {
		s.logger.Error("msg", "Error shutting down status server",
			"component", "status",
			"error", err)
	}
	s.wg.Wait()
	s.logger.Info("msg", "Status server stopped", "component", "status")
}

func (s *Server) requestHandler(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() && !ctx.IsHead() {
		ctx.Response.Header.Set("Allow", "GET, HEAD")
		s.writeJSON(ctx, fasthttp.StatusMethodNotAllowed, map[string]string{
			"error": "method not allowed",
		})
		return
	}

	switch string(ctx.Path()) {
	case "/healthz":
		s.writeJSON(ctx, fasthttp.StatusOK, map[string]any{
			"status":         "ok",
			"version":        version.Short(),
			"uptime_seconds": int(time.Since(s.startTime).Seconds()),
		})
	case "/report":
		s.handleReport(ctx)
	case "/sinks":
		s.writeJSON(ctx, fasthttp.StatusOK, s.source.Stats())
	case "/metrics":
		s.metrics(ctx)
	default:
		s.writeJSON(ctx, fasthttp.StatusNotFound, map[string]any{
			"error":     "not found",
			"endpoints": []string{"/healthz", "/report", "/sinks", "/metrics"},
		})
	}
}

// handleReport serves the aggregator summary; ?reset=true also clears it.
func (s *Server) handleReport(ctx *fasthttp.RequestCtx) {
	if ctx.QueryArgs().GetBool("reset") {
		s.writeJSON(ctx, fasthttp.StatusOK, s.source.Aggregator().Drain())
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, s.source.Report())
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, code int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Error("msg", "Failed to encode status response",
			"component", "status",
			"error", err)
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(code)
	ctx.SetBody(data)
}
