package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/urfave/cli/v2"

	"pokequiz/internal/assets"
	"pokequiz/internal/config"
	"pokequiz/internal/gamemode"
	"pokequiz/internal/highscore"
	"pokequiz/internal/metrics"
)

// Screen Constants (4:3, drawn at 2x on desktop)
const (
	ScreenWidth  = 512
	ScreenHeight = 384
	WindowScale  = 2
	WindowTitle  = "Pokemon Who?"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "pokequiz",
		Usage: "name as many pokemon as you can in a minute",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the YAML config file",
				EnvVars: []string{config.EnvPrefix + "CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "hard",
				Usage: "start with hard mode on",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "random seed for the pokemon order (0 picks one)",
			},
		},
		Action: play,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "open the game window (default)",
				Action: play,
			},
			newScoresCommand(),
		},
	}
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("hard") {
		cfg.HardMode = c.Bool("hard")
	}
	if c.IsSet("seed") {
		cfg.Round.Seed = c.Int64("seed")
	}
	return cfg, nil
}

func play(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// 1. Assets
	catalog, err := assets.LoadCatalog(os.DirFS(cfg.Assets.Root), cfg.Assets.ImageDir, cfg.Assets.NamesFile, logger)
	if err != nil {
		return fmt.Errorf("load pokemon: %w", err)
	}

	// 2. High scores
	store, err := highscore.OpenStore(cfg.Storage.Backend, cfg.Storage.Path, logger)
	if err != nil {
		return fmt.Errorf("open high scores: %w", err)
	}
	if closer, ok := store.(highscore.Closer); ok {
		defer closer.Close()
	}

	// 3. Metrics
	m := metrics.New()
	if cfg.Metrics.Address != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Address, logger); err != nil {
				logger.Error("metrics listener stopped", slog.Any("error", err))
			}
		}()
	}

	// 4. Randomness
	rng, seed, err := gamemode.NewRand(cfg.Round.Seed)
	if err != nil {
		return err
	}
	logger.Info("starting game",
		slog.Int("pokemon", catalog.Len()),
		slog.Int64("seed", seed),
		slog.String("storage", cfg.Storage.Backend),
		slog.Bool("hard_mode", cfg.HardMode),
	)

	// 5. Controller
	ctrl := gamemode.NewController(ctx, gamemode.ControllerConfig{
		Catalog:  catalog,
		Store:    store,
		Clock:    gamemode.SystemClock{},
		Rand:     rng,
		Duration: cfg.Round.Duration,
		HardMode: cfg.HardMode,
		Logger:   logger,
		Observer: m,
	})

	// 6. Window Setup
	ebiten.SetWindowSize(ScreenWidth*WindowScale, ScreenHeight*WindowScale)
	ebiten.SetWindowTitle(WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	// 7. Run Loop
	runErr := ebiten.RunGame(NewGame(ctx, ctrl))

	if err := ctrl.Close(ctx); err != nil {
		logger.Error("failed to save high scores on exit", slog.Any("error", err))
	}
	return runErr
}
