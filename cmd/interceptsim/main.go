package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	logic "github.com/skovsen/D2D_InterceptLogic"
	"github.com/skovsen/D2D_InterceptLogic/internal/infra"
	"github.com/skovsen/D2D_InterceptLogic/internal/telemetry"
	"github.com/skovsen/D2D_InterceptLogic/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "interceptsim: %v\n", err)
		os.Exit(1)
	}
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("interceptsim", pflag.ContinueOnError)
	fs.String("config", "", "path to a yaml config file")
	fs.Int("threats", 1, "number of threats to spawn")
	fs.Int64("seed", 0, "random seed for spawn headings")
	fs.Float64("max-time", logic.DefaultMaxTime, "maximum simulated seconds")
	fs.Bool("redundant", false, "assign interceptors until the cumulative intercept probability is reached")
	fs.Float64("target-probability", logic.DefaultTargetProbability, "cumulative probability sought by redundant auctions")
	fs.Bool("realtime", false, "play ticks at wall clock speed")
	fs.Float64("speedup", 1, "realtime playback multiplier")
	fs.String("zone", "", "GeoJSON polygon of the defended zone")
	fs.String("log-level", "info", "debug, info, warn or error")
	fs.String("log-format", "console", "console or json")
	fs.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	fs.Bool("view", false, "draw the engagement in the terminal")
	fs.String("tracks", "", "write agent tracks and events as GeoJSON to this file")
	return fs
}

func run(args []string) error {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := infra.LoadConfig(fs)
	if err != nil {
		return err
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sc, err := cfg.Scenario()
	if err != nil {
		return err
	}
	if cfg.Simulation.Threats < 0 {
		return fmt.Errorf("%w: threat count must not be negative, got %d", logic.ErrInvalidScenario, cfg.Simulation.Threats)
	}
	session, err := logic.NewSession(sc, cfg.Simulation.Seed)
	if err != nil {
		return err
	}
	logger = logger.With(zap.String("session", session.ID.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	world := session.Setup(cfg.Simulation.Threats)
	runner := logic.NewRunner(world, sc, logger)
	runner.MaxTime = cfg.Simulation.MaxTime
	runner.Redundant = cfg.Simulation.Redundant
	runner.TargetProbability = cfg.Simulation.TargetProbability

	reg := prometheus.NewRegistry()
	runner.Observers = append(runner.Observers, telemetry.NewMetrics(reg))
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           telemetry.NewRouter(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("metrics listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	var tracks *logic.TrackRecorder
	if cfg.Output.TracksPath != "" {
		tracks = logic.NewTrackRecorder(cfg.Output.SampleEvery)
		tracks.Sample(world)
		runner.Observers = append(runner.Observers, tracks)
	}

	if cfg.Simulation.Realtime || cfg.View.Enabled {
		runner.Pace = pacer(sc.World.Dt, cfg.Simulation.Speedup)
	}

	if cfg.View.Enabled {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		viewer := tui.New(screen, cancel)
		if err := viewer.Start(); err != nil {
			return err
		}
		defer viewer.Stop()
		runner.Observers = append(runner.Observers, viewer)
	}

	score, runErr := runner.Run(ctx)

	if tracks != nil {
		mission, err := cfg.Mission()
		if err != nil {
			return err
		}
		if err := writeTracks(cfg.Output.TracksPath, tracks, session, mission); err != nil {
			return err
		}
		logger.Info("tracks written", zap.String("path", cfg.Output.TracksPath))
	}

	if !cfg.View.Enabled {
		grade, comment := score.Grade()
		fmt.Println()
		fmt.Println(score.Report())
		fmt.Println()
		fmt.Printf("Grade: %s - %s\n", grade, comment)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// pacer limits the loop to one tick per dt/speedup of wall clock time
func pacer(dt, speedup float64) func(context.Context) error {
	if speedup <= 0 {
		speedup = 1
	}
	limiter := rate.NewLimiter(rate.Limit(speedup/dt), 1)
	return limiter.Wait
}

func writeTracks(path string, tracks *logic.TrackRecorder, session *logic.Session, mission *logic.Mission) error {
	raw, err := tracks.FeatureCollection(session.ID.String(), mission).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode tracks: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write tracks: %w", err)
	}
	return nil
}
