package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/signadot/docsync/parse"
	"github.com/signadot/docsync/schema"
	"github.com/signadot/docsync/system/syncd/server"
	"github.com/signadot/docsync/system/syncd/storage"

	"github.com/google/gops/agent"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/scott-cotton/cli"
)

func serve(cfg *ServeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: serve takes at most 1 document argument, got %v", cli.ErrUsage, args)
	}

	// Start gops agent for debugging
	if err := agent.Listen(agent.Options{}); err != nil {
		fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
	}
	defer agent.Close()

	serverConfig := server.DefaultConfig()
	if cfg.ConfigFile != "" {
		serverConfig, err = server.LoadConfig(cfg.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cfg.Listen != "" {
		serverConfig.Listen = cfg.Listen
	}
	if cfg.Metrics != "" {
		serverConfig.MetricsListen = cfg.Metrics
	}
	if cfg.StateFile != "" {
		serverConfig.StateFile = cfg.StateFile
	}
	if cfg.Schema != "" {
		serverConfig.Schema = cfg.Schema
	}
	if len(args) == 1 {
		serverConfig.Initial = args[0]
	}
	if err := serverConfig.Validate(); err != nil {
		return err
	}
	if cfg.Watch && serverConfig.Initial == "" {
		return fmt.Errorf("%w: -watch requires an initial document", cli.ErrUsage)
	}

	log, closeLog, err := newLogger(cc.Out, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	spec := &server.Spec{
		Config:   serverConfig,
		Log:      log,
		Registry: prometheus.DefaultRegisterer,
	}
	if len(serverConfig.Schemas) != 0 {
		names, err := schema.LoadShared(serverConfig.Schemas...)
		if err != nil {
			return err
		}
		log.Info("registered shared schemas", "names", names)
	}
	if serverConfig.Schema != "" {
		s, err := schema.Load(serverConfig.Schema)
		if err != nil {
			return err
		}
		spec.Validator = s
	}
	if serverConfig.Initial != "" {
		spec.Initial, err = parse.File(serverConfig.Initial, cfg.parseOpts(serverConfig.Initial)...)
		if err != nil {
			return err
		}
	}
	if serverConfig.StateFile != "" {
		spec.Store = storage.New(serverConfig.StateFile)
	}

	srv, err := server.New(spec)
	if err != nil {
		return err
	}
	if err := srv.StartTCP(serverConfig.Listen); err != nil {
		return fmt.Errorf("failed to start TCP listener: %w", err)
	}
	defer srv.StopTCP()

	if serverConfig.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		hs := &http.Server{Addr: serverConfig.MetricsListen, Handler: mux}
		go func() {
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server error", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			hs.Shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.Info("serving", "addr", srv.TCPAddr(), "seq", srv.Snapshot().Seq)

	if !cfg.Watch {
		<-ctx.Done()
		return nil
	}
	for doc, err := range fileSource(ctx, serverConfig.Initial, cfg.parseOpts(serverConfig.Initial)) {
		if err == nil {
			_, _, err = srv.Replace(doc)
		}
		if err != nil {
			log.Warn("not publishing", "path", serverConfig.Initial, "error", err)
		}
	}
	return nil
}
