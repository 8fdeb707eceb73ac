// Package main is the entry point for the pea engine.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/peagarden/peaengine/internal/config"
	"github.com/peagarden/peaengine/internal/ipc"
	"github.com/peagarden/peaengine/internal/lifecycle"
	"github.com/peagarden/peaengine/internal/store"
	"github.com/peagarden/peaengine/internal/store/boltstore"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	_ lifecycle.Gateway = (*store.Gateway)(nil)
	_ lifecycle.Gateway = (*boltstore.Store)(nil)
	_ lifecycle.Journal = (*store.Journal)(nil)
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to configuration JSON or YAML file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("peaengine %s (commit=%s, built=%s)\n", version, commit, date)
		os.Exit(0)
	}

	// Resolve config: --config flag > PEA_CONFIG env > next to exe > env only.
	path := *configPath
	if path == "" {
		path = os.Getenv("PEA_CONFIG")
	}
	if path == "" {
		path = discoverConfig()
	}

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadEnv()
	}
	if err != nil {
		fatal(fmt.Sprintf("load config: %v", err))
	}

	gw, journal, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closeStore()

	lcfg := lifecycle.Config{
		DecayInterval:     cfg.DecayInterval(),
		CountdownInterval: cfg.CountdownInterval(),
		SaveTimeout:       cfg.SaveTimeout(),
	}
	if journal != nil {
		lcfg.Journal = journal
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), cfg.SaveTimeout())
	engine, err := lifecycle.Open(startCtx, gw, lcfg)
	cancelStart()
	if err != nil {
		log.Fatalf("start engine: %v", err)
	}

	handler := &ipc.Handler{Engine: engine, Journal: journal}
	srv := ipc.NewServer(handler, cfg.ListenAddr)

	// Graceful shutdown on interrupt.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Println("shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("pea engine listening on %s (store=%s)", ipc.FormatListenURL(cfg.ListenAddr), cfg.Store)

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		log.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := engine.Close(ctx); err != nil {
		log.Printf("close engine: %v", err)
	}
}

// openStore opens the configured backend. Only SQLite keeps a journal.
func openStore(cfg *config.Config) (lifecycle.Gateway, *store.Journal, func(), error) {
	switch cfg.Store {
	case config.StoreBolt:
		bs, err := boltstore.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return bs, nil, func() { bs.Close() }, nil
	default:
		db, err := store.NewDB(cfg.DBPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.NewGateway(db), store.NewJournal(db), func() { closeDB(db) }, nil
	}
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Printf("close database: %v", err)
	}
}

// discoverConfig looks for config.json or config.yaml next to the executable,
// then in the cwd.
func discoverConfig() string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	dirs = append(dirs, ".")
	for _, dir := range dirs {
		for _, name := range []string{"config.json", "config.yaml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}

// fatal prints an error and, on Windows, waits for a keypress so the user can
// read the message when the exe is launched by double-click.
func fatal(msg string) {
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", msg)
	if runtime.GOOS == "windows" {
		fmt.Fprintln(os.Stderr, "\nPress Enter to exit...")
		bufio.NewReader(os.Stdin).ReadBytes('\n')
	}
	os.Exit(1)
}
