package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/onyxmesh/onyx-ledger/internal/app"
	"github.com/onyxmesh/onyx-ledger/pkg/loggers"
	"github.com/onyxmesh/onyx-ledger/pkg/repo"
)

func start(ctx *cli.Context) error {
	p, err := getRootPath(ctx)
	if err != nil {
		return err
	}

	if !repo.FileExist(filepath.Join(p, repo.CfgFileName)) {
		fmt.Println("onyx-ledger is not initialized, please execute 'config generate' first")
		return nil
	}

	r, err := repo.Load(p)
	if err != nil {
		return err
	}

	appCtx, cancel := context.WithCancel(ctx.Context)
	defer cancel()
	if err := loggers.Initialize(r); err != nil {
		return err
	}

	log := loggers.Logger(loggers.App)

	var wg sync.WaitGroup
	err = func() error {
		if err := repo.WritePid(r.RepoRoot); err != nil {
			return fmt.Errorf("write pid error: %s", err)
		}

		onyx, err := app.NewOnyxLedger(r, appCtx, cancel)
		if err != nil {
			return fmt.Errorf("init onyx-ledger failed: %w", err)
		}

		wg.Add(1)
		handleShutdown(onyx, &wg)

		if err := onyx.Start(); err != nil {
			return fmt.Errorf("start onyx-ledger failed: %w", err)
		}

		return nil
	}()
	if err != nil {
		log.WithField("err", err).Error("Startup failed")
		return err
	}

	wg.Wait()

	if err := repo.RemovePID(r.RepoRoot); err != nil {
		log.WithField("err", err).Error("Remove pid failed")
		return fmt.Errorf("remove pid file error: %s", err)
	}

	return nil
}

func handleShutdown(node *app.OnyxLedger, wg *sync.WaitGroup) {
	var stop = make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGTERM)
	signal.Notify(stop, syscall.SIGINT)

	go func() {
		<-stop
		fmt.Println("received interrupt signal, shutting down...")
		if err := node.Stop(); err != nil {
			panic(err)
		}
		wg.Done()
		os.Exit(0)
	}()
}
