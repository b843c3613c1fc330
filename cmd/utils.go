package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EnvFileVar names an env file to load when no -env flag is given.
const EnvFileVar = "WAYNE_ENV_FILE"

// LoadEnvFile loads variables from the file named by the -env flag in args,
// or by $WAYNE_ENV_FILE. Variables already set in the process win over the
// file. With neither set it is a no-op.
func LoadEnvFile(name string, args []string) error {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	envFile := flags.String("env", os.Getenv(EnvFileVar), "path of an env file to load")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *envFile == "" {
		slog.Info("no env file given, using process environment only")
		return nil
	}

	if err := godotenv.Load(*envFile); err != nil {
		return fmt.Errorf("error loading env file %q: %w", *envFile, err)
	}
	slog.Info("loaded env file", "path", *envFile)
	return nil
}

// SetupLogFile sends log output to dir/name and to stderr when stderr is
// set. The returned file must be closed by the caller.
func SetupLogFile(dir, name string, stderr bool) *os.File {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		log.Fatalf("error creating directory for log file: %v", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, name), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}

	if stderr {
		log.SetOutput(io.MultiWriter(f, os.Stderr))
	} else {
		log.SetOutput(f)
	}
	return f
}

// ServeMetrics exposes the prometheus registry on addr in the background.
// An empty addr disables it.
func ServeMetrics(addr string) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		slog.Info("serving metrics", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	return server
}
