package profile

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/onyxmesh/onyx-ledger/pkg/loggers"
	"github.com/onyxmesh/onyx-ledger/pkg/repo"
)

// Monitor serves the prometheus metrics endpoint.
type Monitor struct {
	config *repo.Config
	logger logrus.FieldLogger
	server *http.Server
}

func NewMonitor(config *repo.Config) (*Monitor, error) {
	return &Monitor{
		config: config,
		logger: loggers.Logger(loggers.App),
	}, nil
}

func (m *Monitor) Start() error {
	if !m.config.Monitor.Enable {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	m.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", m.config.Port.Monitor),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "failed to start monitor server")
	case <-time.After(100 * time.Millisecond):
		m.logger.WithField("port", m.config.Port.Monitor).Info("monitor server started")
	}
	return nil
}

func (m *Monitor) Stop() error {
	if m.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.server.Shutdown(ctx)
}
