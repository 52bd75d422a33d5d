package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const shutdownTimeout = 5 * time.Second

// newRouter exposes server over the SSE or streamable HTTP transport,
// plus a /healthz endpoint returning the server info document.
func newRouter(server *mcp.Server, transport string) (*mux.Router, error) {
	router := mux.NewRouter()
	getServer := func(*http.Request) *mcp.Server { return server }

	switch transport {
	case TransportSSE:
		router.Handle("/sse", mcp.NewSSEHandler(getServer, nil))
	case TransportHTTP:
		router.Handle("/mcp", mcp.NewStreamableHTTPHandler(getServer, nil))
	default:
		return nil, fmt.Errorf("transport %q is not served over HTTP", transport)
	}

	info := newServerInfo(transport)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(info); err != nil {
			log.Printf("ERROR: failed to write health response: %v", err)
		}
	}).Methods(http.MethodGet)

	return router, nil
}

// serveHTTP listens on addr until ctx is cancelled
func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Event streams stay open until the client leaves.
		return srv.Close()
	}
	return nil
}

// run serves server on the configured transport until ctx is done
func run(ctx context.Context, cfg *Config, server *mcp.Server) error {
	if cfg.Transport == TransportStdio {
		return server.Run(ctx, &mcp.StdioTransport{})
	}

	router, err := newRouter(server, cfg.Transport)
	if err != nil {
		return err
	}
	log.Printf("Listening on %s (%s transport)", cfg.Addr(), cfg.Transport)
	return serveHTTP(ctx, cfg.Addr(), router)
}
