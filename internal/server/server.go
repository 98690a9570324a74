// Package server wires the admin HTTP surface, the WebSocket event stream,
// the mDNS advertisement, and the synchronization engine's poll loop into one
// lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/grandcat/zeroconf"

	"lifxbridge/internal/bridge"
	"lifxbridge/internal/config"
	"lifxbridge/internal/events"
	"lifxbridge/internal/http/handlers"
	"lifxbridge/internal/http/mw"
	"lifxbridge/internal/http/routes"
	"lifxbridge/internal/lifx"
	"lifxbridge/internal/logging"
	"lifxbridge/internal/ws"
)

// mDNS service type under which the admin UI is advertised.
const mdnsService = "_lifxbridge._tcp"

// Server manages the lifxbridged daemon's HTTP surface and background work.
type Server struct {
	logger    *slog.Logger
	cfg       *config.Config
	client    *lifx.Client
	engine    *bridge.Engine
	bus       *events.Bus
	logBuffer *logging.Buffer
	version   string

	httpServer *http.Server
	mdns       *zeroconf.Server
	rootCtx    context.Context
	rootCancel context.CancelFunc
	wg         sync.WaitGroup
}

// New creates a new server instance.
func New(logger *slog.Logger, cfg *config.Config, client *lifx.Client, engine *bridge.Engine, bus *events.Bus, logBuffer *logging.Buffer, version string) *Server {
	rootCtx, rootCancel := context.WithCancel(context.Background())
	return &Server{
		logger:     logger,
		cfg:        cfg,
		client:     client,
		engine:     engine,
		bus:        bus,
		logBuffer:  logBuffer,
		version:    version,
		rootCtx:    rootCtx,
		rootCancel: rootCancel,
	}
}

// Start begins serving the admin API and runs the engine's poll loop.
func (s *Server) Start() error {
	listen := s.cfg.Server.Listen
	s.logger.Info("starting admin HTTP server", "address", listen)

	infoHandler := &handlers.InfoHandler{Config: s.cfg, Lights: s.client, Logger: s.logger}
	configHandler := &handlers.ConfigHandler{Config: s.cfg, Lights: s.client, Bus: s.bus, Logger: s.logger}
	lightHandler := &handlers.LightHandler{Config: s.cfg, Lights: s.client, Logger: s.logger}
	logsHandler := &handlers.LogsHandler{Buffer: s.logBuffer}

	router := chi.NewRouter()
	router.Use(mw.RequestLogging(s.logger))
	router.Use(mw.RateLimitByIP(s.cfg.Server.RateLimitPerMinute))

	api := humachi.New(router, routes.NewHumaConfig(s.version, ""))
	routes.Register(api, &routes.Handlers{
		HealthCheck: handlers.HealthCheck,
		Info:        infoHandler,
		Config:      configHandler,
		Light:       lightHandler,
		Logs:        logsHandler,
	})

	// WebSocket event stream for the browser UI.
	wsHub := ws.NewHub(s.logger, s.bus)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		wsHub.Run(s.rootCtx)
	}()
	router.Get("/api/events", ws.Handler(wsHub, s.logger))

	// Poll loop: the engine reconciles remote state for the process lifetime.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.engine.Run(s.rootCtx)
	}()

	s.advertise(listen)

	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server failed", "error", err)
		}
		s.logger.Info("HTTP server stopped")
	}()

	return nil
}

// advertise announces the admin UI over mDNS so the browser can find it.
func (s *Server) advertise(listen string) {
	_, portStr, err := net.SplitHostPort(listen)
	if err != nil {
		s.logger.Warn("not advertising over mDNS, unparseable listen address", "address", listen, "error", err)
		return
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port == 0 {
		s.logger.Warn("not advertising over mDNS, unparseable port", "address", listen)
		return
	}

	instance := fmt.Sprintf("lifxbridge-%s", s.cfg.Snapshot().UniqueID)
	srv, err := zeroconf.Register(instance, mdnsService, "local.", port, []string{"path=/api/info"}, nil)
	if err != nil {
		s.logger.Warn("mDNS registration failed", "error", err)
		return
	}
	s.mdns = srv
	s.logger.Info("advertising admin UI over mDNS", "instance", instance, "port", port)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down lifxbridged server")
	s.rootCancel()

	if s.mdns != nil {
		s.mdns.Shutdown()
	}

	var err error
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if e := s.httpServer.Shutdown(shutdownCtx); e != nil {
			s.logger.Error("HTTP server shutdown failed", "error", e)
			err = e
		}
	}

	s.wg.Wait()
	s.logger.Info("lifxbridged server shut down")
	return err
}
