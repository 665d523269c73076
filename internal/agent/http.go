package agent

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aerolink-io/aerolink/pkg/log"
	mqttclient "github.com/aerolink-io/aerolink/pkg/mqtt"
	"github.com/aerolink-io/aerolink/pkg/options"
)

// httpServer exposes liveness, readiness and metrics. Readiness tracks the
// broker connection: without it neither the status feed nor the setpoint
// stream works.
type httpServer struct {
	server *http.Server
}

func newHTTPServer(opts *options.HttpOptions, mc mqttclient.Client) *httpServer {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !mc.IsConnected() {
			http.Error(w, "mqtt disconnected", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return &httpServer{
		server: &http.Server{
			Addr:         opts.Addr,
			Handler:      router,
			ReadTimeout:  opts.Timeout,
			WriteTimeout: opts.Timeout,
		},
	}
}

func (s *httpServer) Start(ctx context.Context) error {
	log.Info("Starting HTTP Server", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
