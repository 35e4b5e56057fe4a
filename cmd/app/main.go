package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/roamshare/internal"
	"github.com/starford/roamshare/internal/exporter"
	pkgconfig "github.com/starford/roamshare/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cmd.IsSet("input-dir") {
		cfg.Export.InputDir = cmd.String("input-dir")
	}
	return cfg, nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ec := &cfg.Export
	if cmd.IsSet("file") {
		ec.Seed = cmd.String("file")
	}
	if cmd.IsSet("depth") {
		depth := int(cmd.Int("depth"))
		ec.Depth = &depth
	}
	if cmd.IsSet("output-dir") {
		ec.OutputDir = cmd.String("output-dir")
	}
	if cmd.IsSet("exclude") {
		ec.Exclude = cmd.StringSlice("exclude")
	}
	if cmd.IsSet("drop-empty") {
		ec.DropEmpty = cmd.Bool("drop-empty")
	}
	if cmd.IsSet("web") {
		prefix := cmd.String("web")
		ec.WebPrefix = &prefix
	}
	if cmd.IsSet("manifest") {
		ec.Manifest = cmd.String("manifest")
	}
	if cmd.IsSet("yes") {
		ec.AssumeYes = cmd.Bool("yes")
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}
	if ec.AssumeYes {
		opts = append(opts, internal.WithConfirmer(exporter.AutoConfirm(true)))
	}

	if err := internal.RunExport(ctx, opts...); err != nil {
		return fmt.Errorf("export error: %w", err)
	}
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("port") {
		cfg.App.HTTP.Port = int(cmd.Int("port"))
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := internal.RunServe(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to an optional YAML config file",
		Value:   "config/config.yaml",
		Sources: cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func inputDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "input-dir",
		Aliases: []string{"i"},
		Usage:   "Path to input directory with your notes",
		Value:   ".",
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "roamshare",
		Usage:   "Share your markdown notes in context",
		Version: version,
		Action:  runExport,
		Flags: []cli.Flag{
			configFlag(),
			inputDirFlag(),
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Seed note name",
			},
			&cli.IntFlag{
				Name:    "depth",
				Aliases: []string{"d"},
				Usage:   "Depth of recursion",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Path to output directory",
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Aliases: []string{"x"},
				Usage:   "Note names to exclude (repeatable)",
			},
			&cli.BoolFlag{
				Name:    "drop-empty",
				Aliases: []string{"e"},
				Usage:   "Do not follow links to empty notes",
			},
			&cli.StringFlag{
				Name:    "web",
				Aliases: []string{"w"},
				Usage:   "Rewrite the copies for the web, linking notes under this path prefix",
			},
			&cli.StringFlag{
				Name:  "manifest",
				Usage: "Record the export in this SQLite file",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Replace an existing output directory without asking",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the discover and rewrite preview API over HTTP",
				Action: runServe,
				Flags: []cli.Flag{
					configFlag(),
					inputDirFlag(),
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "HTTP port",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve discovery and rewriting as MCP tools on stdio",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag(), inputDirFlag()},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
