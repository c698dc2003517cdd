// Command cqlmapper generates data-access code from a declaration file.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/vellumdb/cqlmapper/compiler/gen"
	gencql "github.com/vellumdb/cqlmapper/compiler/gen/cql"
	"github.com/vellumdb/cqlmapper/compiler/load"
)

func main() {
	var (
		schemaPath = flag.String("schema", "mapper.yaml", "path to the declaration file")
		target     = flag.String("target", "./mapper", "output directory for generated code")
		pkg        = flag.String("pkg", "mapper", "package name of the generated code")
		workers    = flag.Int("workers", 0, "number of parallel workers (0 = GOMAXPROCS)")
		watch      = flag.Bool("watch", false, "regenerate whenever the declaration file changes")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *schemaPath, *target, *pkg, *workers); err != nil {
		logger.Error("generation failed", "schema", *schemaPath, "err", err)
		if !*watch {
			os.Exit(1)
		}
	}
	if !*watch {
		return
	}
	if err := watchLoop(ctx, logger, *schemaPath, *target, *pkg, *workers); err != nil {
		logger.Error("watch failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, schemaPath, target, pkg string, workers int) error {
	schema, err := load.FromFile(schemaPath)
	if err != nil {
		return err
	}
	g := gen.NewGenerator(&gen.Config{Package: pkg, Target: target}, schema).
		WithEmitter(gencql.New(pkg)).
		WithWorkers(workers)
	err = g.Generate(ctx)
	for _, rec := range g.Diagnostics().Records() {
		switch rec.Severity {
		case gen.SeverityWarning:
			logger.Warn(rec.Message, "site", rec.Site)
		default:
			logger.Error(rec.Message, "site", rec.Site)
		}
	}
	if err == nil {
		logger.Info("generation complete", "target", target,
			"entities", len(schema.Entities), "daos", len(schema.DAOs))
	}
	return err
}

func watchLoop(ctx context.Context, logger *slog.Logger, schemaPath, target, pkg string, workers int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(schemaPath); err != nil {
		return err
	}
	logger.Info("watching declaration file", "schema", schemaPath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Info("declaration changed, regenerating", "schema", schemaPath)
			if err := run(ctx, logger, schemaPath, target, pkg, workers); err != nil {
				logger.Error("generation failed", "err", err)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "err", werr)
		}
	}
}
