package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"pokequiz/internal/highscore"
)

func newScoresCommand() *cli.Command {
	return &cli.Command{
		Name:  "scores",
		Usage: "inspect the high score ledger",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print the top score and recent rounds",
				Action: func(c *cli.Context) error {
					return withStore(c, func(ctx context.Context, store highscore.Store) error {
						l := store.Load(ctx)
						fmt.Fprintf(c.App.Writer, "Top score: %d\n", l.TopScore)
						if len(l.RecentScores) == 0 {
							fmt.Fprintln(c.App.Writer, "No rounds played yet")
							return nil
						}
						fmt.Fprintln(c.App.Writer, "Recent rounds:")
						for i := len(l.RecentScores) - 1; i >= 0; i-- {
							s := l.RecentScores[i]
							fmt.Fprintf(c.App.Writer, "  %3d  %s\n", s.Score, s.Date)
						}
						return nil
					})
				},
			},
			{
				Name:  "reset",
				Usage: "clear the top score and recent rounds",
				Action: func(c *cli.Context) error {
					return withStore(c, func(ctx context.Context, store highscore.Store) error {
						if err := store.Save(ctx, highscore.Empty()); err != nil {
							return fmt.Errorf("reset high scores: %w", err)
						}
						fmt.Fprintln(c.App.Writer, "High scores cleared")
						return nil
					})
				},
			},
			{
				Name:  "chart",
				Usage: "render recent scores to a PNG",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "output PNG file",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					return withStore(c, func(ctx context.Context, store highscore.Store) error {
						data, err := highscore.RenderChart(store.Load(ctx))
						if err != nil {
							return err
						}
						out := c.String("out")
						if err := os.WriteFile(out, data, 0644); err != nil {
							return fmt.Errorf("write chart: %w", err)
						}
						fmt.Fprintf(c.App.Writer, "Chart written to %s\n", out)
						return nil
					})
				},
			},
		},
	}
}

// withStore opens the configured store for one command and closes it afterwards.
func withStore(c *cli.Context, fn func(ctx context.Context, store highscore.Store) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()

	store, err := highscore.OpenStore(cfg.Storage.Backend, cfg.Storage.Path, logger)
	if err != nil {
		return fmt.Errorf("open high scores: %w", err)
	}
	if closer, ok := store.(highscore.Closer); ok {
		defer closer.Close()
	}

	return fn(c.Context, store)
}
