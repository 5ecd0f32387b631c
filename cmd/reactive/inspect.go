package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vango-dev/reactive/internal/config"
	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/inspect"
	"github.com/vango-dev/reactive/pkg/reactive"
)

func inspectCmd() *cobra.Command {
	var (
		port    int
		host    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve a live dependency-graph inspector",
		Long: `Start the inspector server with a demo engine that mutates
its state once a second, so the dashboard has something to show.

The inspector serves:
  • /           Dashboard with live stats and event tail
  • /api/graph  Dependency graph snapshot as JSON
  • /api/stats  Engine counters
  • /api/events Recent track/trigger/run events
  • /ws         Event stream over WebSocket

Embed the inspect package in your own process to watch a real
engine instead of the demo.

Examples:
  reactive inspect
  reactive inspect --port=7000
  reactive inspect --host=0.0.0.0 -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(port, host, verbose)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from reactive.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from reactive.json)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func runInspect(port int, host string, verbose bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		re, ok := err.(*errors.ReactiveError)
		if !ok || re.Code != "E101" {
			return err
		}
		cfg = config.New()
	}
	if port > 0 {
		cfg.Inspect.Port = port
	}
	if host != "" {
		cfg.Inspect.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	eng := reactive.New(reactive.WithLogger(log))
	srv := inspect.NewServer(eng,
		inspect.WithLogger(log),
		inspect.WithEventBuffer(cfg.Inspect.EventBuffer))

	// Handle signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
	}()

	startDemo(ctx, eng, srv)

	httpSrv := &http.Server{
		Addr:    cfg.InspectAddress(),
		Handler: srv.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer shutCancel()
		httpSrv.Shutdown(shutCtx)
		srv.Close()
	}()

	printBanner()
	fmt.Println("  inspect")
	fmt.Println()
	success("Inspector listening on %s", cfg.InspectURL())
	info("Press Ctrl+C to stop")
	fmt.Println()

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errorMsg("Inspector stopped: %s", err)
		return errors.New("E401").
			WithDetail("Could not serve on " + cfg.InspectAddress()).
			WithSuggestion("Is another inspector already running on this port?").
			Wrap(err)
	}

	return nil
}

// startDemo seeds the engine with a small scene and mutates it once a
// second until ctx is done. All engine access happens on the ticker
// goroutine once setup returns, so cached snapshots stay consistent.
func startDemo(ctx context.Context, eng *reactive.Engine, srv *inspect.Server) {
	state := eng.Mutable(map[string]any{
		"ticks":  0,
		"status": "idle",
	}).(*reactive.Object)
	feed := eng.Mutable(&[]any{}).(*reactive.List)
	sessions := eng.Mutable(map[any]any{}).(*reactive.Dict)
	cursor := eng.NewRef(0)

	doubled := reactive.NewMemo(eng, func() int {
		v, _ := state.Get("ticks")
		n, _ := v.(int)
		return n * 2
	})

	eng.CreateEffect(func() { doubled.Get() })
	eng.CreateEffect(func() { feed.Len() })
	eng.CreateEffect(func() { sessions.Len() })
	eng.CreateEffect(func() { cursor.Get() })

	srv.Refresh()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		tick := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tick++
				state.Set("ticks", tick)
				state.Set("status", "tick "+strconv.Itoa(tick))
				feed.Append("tick " + strconv.Itoa(tick))
				if feed.Len() > 10 {
					feed.RemoveAt(0)
				}
				sessions.Set(tick%4, time.Now().UnixNano())
				cursor.Set(tick)
				srv.Refresh()
			}
		}
	}()
}
