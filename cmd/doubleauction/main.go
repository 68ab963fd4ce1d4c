package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/efreitasn/doubleauction/internal/config"
	"github.com/efreitasn/doubleauction/internal/domain"
	"github.com/efreitasn/doubleauction/internal/engine"
	"github.com/efreitasn/doubleauction/internal/logging"
	"github.com/efreitasn/doubleauction/internal/report"
	"github.com/efreitasn/doubleauction/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// outputPath derives the report path by replacing the first "input" in
// the input path with "output". Paths without "input" get an ".output"
// suffix so the input file is never overwritten.
func outputPath(inputPath string) string {
	if !strings.Contains(inputPath, "input") {
		return inputPath + ".output"
	}
	return strings.Replace(inputPath, "input", "output", 1)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("doubleauction", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s <input file>\n", fs.Name())
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck
	logger, _ = logging.WithRunID(logger)

	inPath := fs.Arg(0)
	outPath := outputPath(inPath)

	in, err := os.Open(inPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening file: %s\n", inPath)
		logger.Error("failed to open input", zap.String("path", inPath), zap.Error(err))
		return 1
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening file: %s\n", outPath)
		logger.Error("failed to create output", zap.String("path", outPath), zap.Error(err))
		return 1
	}

	text := report.NewTextReporter(out)
	sinks := []engine.Sink{text}
	if cfg.EchoTrades {
		sinks = append(sinks, report.NewConsoleReporter(stdout))
	}
	opts := session.Options{
		Logger:     logger,
		BookDegree: cfg.BookDegree,
	}
	if cfg.ShowBook {
		opts.Console = stdout
	}

	_, err = session.Run(ctx, in, report.Multi(sinks...), opts)
	if err == nil {
		err = text.Flush()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// A partial report is worse than none.
		_ = os.Remove(outPath)
		var verr *domain.ValidationError
		if errors.As(err, &verr) || errors.Is(err, domain.ErrMissingSeed) {
			fmt.Fprintf(stderr, "Invalid input in %s: %v\n", inPath, err)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		logger.Error("session failed", zap.String("input", inPath), zap.Error(err))
		return 1
	}

	logger.Info("report written", zap.String("output", outPath))
	return 0
}
