package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"ensemble/pkg/component"
	"ensemble/pkg/logging"
	"ensemble/pkg/system"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// systemInfo is the slice of the orchestrator the admin endpoints read.
// Satisfied by *system.System; declared locally so the handlers stay
// testable without one.
type systemInfo interface {
	ID() string
	Name() string
	State() system.State
	Order() []string
}

// HTTPServer is an admin endpoint component. It serves liveness and
// readiness probes plus a JSON view of the system it belongs to, and mounts
// the metrics handler of any metrics component it depends on — looked up
// through the system at Start, which is the way components consume their
// dependencies.
type HTTPServer struct {
	component.Base

	name string
	addr string

	listener net.Listener
	server   *http.Server
	done     chan struct{}
}

// NewHTTPServer builds an httpserver component. Recognized args:
//
//	addr: listen address, default ":8080".
func NewHTTPServer(name string, args map[string]interface{}) (*HTTPServer, error) {
	addr, err := stringArg(args, "addr", ":8080")
	if err != nil {
		return nil, err
	}
	return &HTTPServer{name: name, addr: addr}, nil
}

// Start binds the listen address and begins serving. The bind happens
// synchronously so port conflicts fail the start sequence; serving itself
// runs on a background goroutine.
func (h *HTTPServer) Start(ctx context.Context, sys component.Lookup) error {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	info, hasInfo := sys.(systemInfo)
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if hasInfo && info.State() != system.StateStarted {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(string(info.State())))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if hasInfo {
		router.Get("/system", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id":    info.ID(),
				"name":  info.Name(),
				"state": info.State(),
				"order": info.Order(),
			})
		})
	}

	// A metrics dependency, if declared, gets its handler mounted.
	for _, dep := range h.Dependencies() {
		comp, err := sys.Get(dep)
		if err != nil {
			return err
		}
		if metrics, ok := comp.(*Metrics); ok {
			router.Mount("/metrics", metrics.Handler())
			break
		}
	}

	listener, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("listening on %q: %w", h.addr, err)
	}
	h.listener = listener
	h.server = &http.Server{Handler: router}
	h.done = make(chan struct{})

	go func() {
		defer close(h.done)
		if err := h.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Catalog", err, "httpserver %q terminated", h.name)
		}
	}()

	logging.Info("Catalog", "httpserver %q listening on %s", h.name, listener.Addr())
	return nil
}

// Stop shuts the server down gracefully, letting in-flight requests finish
// within the context's deadline.
func (h *HTTPServer) Stop(ctx context.Context) error {
	if h.server == nil {
		return nil
	}
	err := h.server.Shutdown(ctx)
	<-h.done
	h.server = nil
	h.listener = nil
	return err
}

// Addr returns the bound listen address, useful when the configured address
// left the port to the kernel. Empty until Start succeeds.
func (h *HTTPServer) Addr() string {
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}
