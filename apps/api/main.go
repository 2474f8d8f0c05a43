package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	dig_container "github.com/trezcool/tadika/apps/api/di/dig"
	echoapi "github.com/trezcool/tadika/apps/api/echo"
	"github.com/trezcool/tadika/core"
)

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		db *sqlx.DB,
		shutdown dig_container.Shutdown,
		server echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

		core.ParseEmailTemplates(conf, apiLogger)

		dbLogger := dbLoggerParam.Logger
		defer func() {
			if err := db.Close(); err != nil {
				dbLogger.Error(fmt.Sprintf("closing database: %v", err), err)
			}
		}()
		defer apiLogger.Info("Application stopped")

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				apiLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()

		// =========================================================================
		// Start API Service

		serverErrors := make(chan error, 1)
		go func() {
			apiLogger.Info(fmt.Sprintf("API listening on %s", conf.Server.Address))
			if err := server.Start(); err != nil && err != http.ErrServerClosed {
				serverErrors <- err
			}
		}()

		// =========================================================================
		// Shutdown

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			apiLogger.Error(fmt.Sprintf("server error: %v", err), err)
			return

		case sig := <-signals:
			apiLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		case <-shutdown:
			apiLogger.Info("integrity issue: Start shutdown...")
		}

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
