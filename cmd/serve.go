package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Bitlatte/labsite/internal/config"
	"github.com/Bitlatte/labsite/internal/logger"
	"github.com/Bitlatte/labsite/internal/server"
)

const debounceDuration = 500 * time.Millisecond

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and rebuilds it on changes",
	Long: `The serve command builds the site, serves the output directory over HTTP
with caching disabled, and rebuilds whenever the content, layouts or static
directories change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServe(ctx, cmd.OutOrStdout(), appConfig)
	},
}

func runServe(ctx context.Context, w io.Writer, cfg config.Config) error {
	log := logger.FromContext(ctx)

	log.Info("performing initial build")
	if err := runBuild(ctx, w, cfg); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range []string{cfg.ContentDir, cfg.LayoutsDir, cfg.StaticDir} {
		watchTree(watcher, root, log)
	}

	// watchCtx ends before shutdown so a rebuild timer that fires late does
	// nothing.
	watchCtx, stopWatching := context.WithCancel(ctx)
	defer stopWatching()

	var buildMu sync.Mutex
	rebuild := serialRebuild(watchCtx, &buildMu, log, func(ctx context.Context) error {
		return runBuild(ctx, w, cfg)
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		watch(watchCtx, watcher, log, rebuild)
	}()

	srv := server.NewServer(cfg.OutputDir, cfg.Serve.Port, cfg.Serve.RateLimit, log)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	log.Info("serving site", "dir", cfg.OutputDir, "url", "http://localhost"+srv.Addr())

	select {
	case err = <-errCh:
	case <-ctx.Done():
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
	}

	stopWatching()
	_ = watcher.Close()
	wg.Wait()

	// wait for a rebuild that was already running
	buildMu.Lock()
	defer buildMu.Unlock()
	return err
}

// serialRebuild returns a rebuild callback that runs build one at a time and
// does nothing once ctx is done. Debounce timers can fire concurrently with a
// running build and after the watcher has stopped.
func serialRebuild(ctx context.Context, mu *sync.Mutex, log *logger.Logger, build func(context.Context) error) func() {
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}

		log.Info("rebuilding site due to changes")
		if err := build(ctx); err != nil {
			log.Error("rebuild failed", "error", err)
			return
		}
		log.Info("site rebuilt")
	}
}

// watchTree adds root and every directory below it. fsnotify does not watch
// recursively.
func watchTree(watcher *fsnotify.Watcher, root string, log *logger.Logger) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		log.Debug("directory not found, not watching", "dir", root)
		return
	}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn("error walking directory", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				log.Warn("failed to watch directory", "path", path, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Warn("error setting up watches", "dir", root, "error", err)
	}
}

// watch calls rebuild once changes have settled for debounceDuration. It
// returns when ctx ends or the watcher is closed.
func watch(ctx context.Context, watcher *fsnotify.Watcher, log *logger.Logger, rebuild func()) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("change detected", "path", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				watchTree(watcher, event.Name, log)
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDuration, rebuild)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", "error", err)
		}
	}
}

// isDir reports whether path is an existing directory.
func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func init() {
	serveCmd.Flags().IntP("port", "p", 1313, "port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
