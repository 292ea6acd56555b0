package app

import (
	"context"
	"fmt"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/onyxmesh/onyx-ledger/api/server"
	"github.com/onyxmesh/onyx-ledger/internal/asset"
	"github.com/onyxmesh/onyx-ledger/internal/ledger"
	"github.com/onyxmesh/onyx-ledger/internal/storagemgr"
	"github.com/onyxmesh/onyx-ledger/pkg/loggers"
	"github.com/onyxmesh/onyx-ledger/pkg/profile"
	"github.com/onyxmesh/onyx-ledger/pkg/repo"
)

type OnyxLedger struct {
	Ctx    context.Context
	Cancel context.CancelFunc
	Repo   *repo.Repo
	logger logrus.FieldLogger

	StateLedger  *ledger.Ledger
	AssetManager *asset.Manager
	API          *server.Server
	Monitor      *profile.Monitor
}

func PrepareOnyxLedger(rep *repo.Repo) error {
	if err := storagemgr.Initialize(rep.Config.Storage.KvType, rep.Config.Storage.KvCacheSize, rep.Config.Storage.Sync); err != nil {
		return fmt.Errorf("storagemgr initialize: %w", err)
	}
	if err := raiseUlimit(rep.Config.Ulimit); err != nil {
		return fmt.Errorf("raise ulimit: %w", err)
	}
	return nil
}

func NewOnyxLedger(rep *repo.Repo, ctx context.Context, cancel context.CancelFunc) (*OnyxLedger, error) {
	if err := PrepareOnyxLedger(rep); err != nil {
		return nil, err
	}

	logger := loggers.Logger(loggers.App)

	backend, err := storagemgr.Open(repo.GetStoragePath(rep.RepoRoot, storagemgr.Ledger))
	if err != nil {
		return nil, fmt.Errorf("open ledger storage: %w", err)
	}
	stateLedger := ledger.New(storagemgr.NewCachedStorage(backend, rep.Config.Storage.KvCacheSize))

	manager := asset.New(asset.Config{StateLedger: stateLedger})
	if err := manager.GenesisInit(rep.GenesisConfig); err != nil {
		if !errors.Is(err, asset.ErrAlreadyInitialized) {
			return nil, fmt.Errorf("genesis init: %w", err)
		}
		logger.WithFields(logrus.Fields{
			"owner":  manager.Owner(),
			"supply": manager.TotalSupply(),
		}).Info("loaded existing ledger state")
	}

	monitor, err := profile.NewMonitor(rep.Config)
	if err != nil {
		return nil, err
	}

	return &OnyxLedger{
		Ctx:          ctx,
		Cancel:       cancel,
		Repo:         rep,
		logger:       logger,
		StateLedger:  stateLedger,
		AssetManager: manager,
		API:          server.New(rep, manager),
		Monitor:      monitor,
	}, nil
}

func (onyx *OnyxLedger) Start() error {
	if err := onyx.Monitor.Start(); err != nil {
		return fmt.Errorf("monitor start: %w", err)
	}
	if err := onyx.API.Start(); err != nil {
		return fmt.Errorf("api server start: %w", err)
	}

	onyx.printLogo()
	return nil
}

func (onyx *OnyxLedger) Stop() error {
	if err := onyx.API.Stop(); err != nil {
		return fmt.Errorf("api server stop: %w", err)
	}
	if err := onyx.Monitor.Stop(); err != nil {
		return fmt.Errorf("monitor stop: %w", err)
	}
	onyx.Cancel()

	onyx.logger.Infof("%s stopped", repo.AppName)
	return nil
}

func (onyx *OnyxLedger) printLogo() {
	fig := figure.NewFigure(repo.AppName, "slant", true)
	onyx.logger.Infof(`
=========================================================================================
%s
=========================================================================================
`, fig.String())
}

func raiseUlimit(limitNew uint64) error {
	_, err := fdlimit.Raise(limitNew)
	if err != nil {
		return fmt.Errorf("set limit failed: %w", err)
	}

	var limit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &limit); err != nil {
		return fmt.Errorf("getrlimit error: %w", err)
	}

	if limit.Cur != limitNew && limit.Cur != limit.Max {
		return errors.New("failed to raise ulimit")
	}

	return nil
}
