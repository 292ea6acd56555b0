package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/onyxmesh/onyx-ledger/internal/asset"
	"github.com/onyxmesh/onyx-ledger/pkg/loggers"
	"github.com/onyxmesh/onyx-ledger/pkg/repo"
)

// Server exposes the asset manager over HTTP. Mutating endpoints take the
// caller identity from the X-Onyx-Caller header; the server performs no
// authentication of its own, that is the deployment's concern (mTLS, a
// gateway, or localhost-only binding).
type Server struct {
	rep     *repo.Repo
	manager *asset.Manager
	logger  logrus.FieldLogger

	httpServer *http.Server
}

func New(rep *repo.Repo, manager *asset.Manager) *Server {
	return &Server{
		rep:     rep,
		manager: manager,
		logger:  loggers.Logger(loggers.API),
	}
}

func (s *Server) Start() error {
	router := mux.NewRouter()
	s.registerRoutes(router)

	handler := cors.New(cors.Options{
		AllowedOrigins: s.rep.Config.API.AllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", callerHeader},
	}).Handler(router)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.rep.Config.Port.API),
		Handler:      handler,
		ReadTimeout:  s.rep.Config.API.ReadTimeout.ToDuration(),
		WriteTimeout: s.rep.Config.API.WriteTimeout.ToDuration(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "failed to start api server")
	case <-time.After(100 * time.Millisecond):
		s.logger.WithField("port", s.rep.Config.Port.API).Info("api server started")
	}
	return nil
}

func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("api server stopped")
	return nil
}

func (s *Server) registerRoutes(router *mux.Router) {
	v1 := router.PathPrefix("/v1").Subrouter()

	// queries
	v1.HandleFunc("/asset", s.handleAssetInfo).Methods(http.MethodGet)
	v1.HandleFunc("/asset/supply", s.handleTotalSupply).Methods(http.MethodGet)
	v1.HandleFunc("/asset/limits", s.handleLimits).Methods(http.MethodGet)
	v1.HandleFunc("/accounts/{address}/balance", s.handleBalance).Methods(http.MethodGet)
	v1.HandleFunc("/accounts/{address}/allowance", s.handleAllowance).Methods(http.MethodGet)
	v1.HandleFunc("/accounts/{address}/status", s.handleAccountStatus).Methods(http.MethodGet)

	// user operations
	v1.HandleFunc("/transfer", s.handleTransfer).Methods(http.MethodPost)
	v1.HandleFunc("/transfer-from", s.handleTransferFrom).Methods(http.MethodPost)
	v1.HandleFunc("/approve", s.handleApprove).Methods(http.MethodPost)
	v1.HandleFunc("/mint", s.handleMint).Methods(http.MethodPost)
	v1.HandleFunc("/burn", s.handleBurn).Methods(http.MethodPost)
	v1.HandleFunc("/burn-from", s.handleBurnFrom).Methods(http.MethodPost)

	// administration
	admin := v1.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/blacklist", s.handleBlacklist).Methods(http.MethodPost)
	admin.HandleFunc("/unblacklist", s.handleUnBlacklist).Methods(http.MethodPost)
	admin.HandleFunc("/minters/add", s.handleAddMinter).Methods(http.MethodPost)
	admin.HandleFunc("/minters/remove", s.handleRemoveMinter).Methods(http.MethodPost)
	admin.HandleFunc("/limits/max-transaction", s.handleSetMaxTransaction).Methods(http.MethodPost)
	admin.HandleFunc("/limits/max-wallet", s.handleSetMaxWallet).Methods(http.MethodPost)
	admin.HandleFunc("/pause", s.handlePause).Methods(http.MethodPost)
	admin.HandleFunc("/unpause", s.handleUnpause).Methods(http.MethodPost)
	admin.HandleFunc("/recover", s.handleRecover).Methods(http.MethodPost)
	admin.HandleFunc("/withdraw-native", s.handleWithdrawNative).Methods(http.MethodPost)
	admin.HandleFunc("/description", s.handleUpdateDescription).Methods(http.MethodPost)
	admin.HandleFunc("/transfer-ownership", s.handleTransferOwnership).Methods(http.MethodPost)
}
