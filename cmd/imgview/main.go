package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/signal"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"imgview/config"
	"imgview/gui"
	"imgview/ods"
)

func main() {
	var (
		configPath string
		logLevel   string
		logFile    string
	)

	app := &cli.App{
		Name:                 "imgview",
		Usage:                "Zoom and scroll through images in the terminal",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Configuration file",
				Value:       config.GetConfigPath(),
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Override the configured log level",
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "Write the log to this file",
				Destination: &logFile,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "view",
				Aliases:   []string{"v"},
				Usage:     "Show an image",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "Reload the image when the file changes",
					},
				},
				Action: func(cCtx *cli.Context) error {
					path, err := fileArg(cCtx)
					if err != nil {
						return err
					}
					cfg, closeLog, err := setup(configPath, logLevel, logFile, io.Discard)
					if err != nil {
						return err
					}
					defer closeLog()
					return gui.Run(path, cfg, cCtx.Bool("watch"))
				},
			},
			{
				Name:      "render",
				Aliases:   []string{"r"},
				Usage:     "Render the view of an image to a PNG file",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Output PNG file",
						Required: true,
					},
					&cli.IntFlag{Name: "width", Value: 800, Usage: "Viewport width"},
					&cli.IntFlag{Name: "height", Value: 600, Usage: "Viewport height"},
					&cli.Float64Flag{Name: "zoom", Usage: "Zoom factor, 0 for the configured start mode"},
					&cli.IntFlag{Name: "x", Usage: "Horizontal scroll position"},
					&cli.IntFlag{Name: "y", Usage: "Vertical scroll position"},
				},
				Action: func(cCtx *cli.Context) error {
					path, err := fileArg(cCtx)
					if err != nil {
						return err
					}
					cfg, closeLog, err := setup(configPath, logLevel, logFile, os.Stderr)
					if err != nil {
						return err
					}
					defer closeLog()

					ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt)
					defer stop()
					m, err := gui.RenderFile(ctx, path, cfg, gui.RenderOptions{
						Size:     image.Pt(cCtx.Int("width"), cCtx.Int("height")),
						Zoom:     cCtx.Float64("zoom"),
						Position: image.Pt(cCtx.Int("x"), cCtx.Int("y")),
					})
					if err != nil {
						return err
					}
					return writePNG(cCtx.String("out"), m)
				},
			},
			{
				Name:  "config",
				Usage: "Print the effective configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "init",
						Usage: "Write the default configuration to the config path",
					},
				},
				Action: func(cCtx *cli.Context) error {
					if cCtx.Bool("init") {
						if err := config.SaveConfig(configPath, config.DefaultConfig()); err != nil {
							return err
						}
						fmt.Fprintf(cCtx.App.Writer, "wrote %s\n", configPath)
						return nil
					}
					cfg, err := config.LoadConfig(configPath)
					if err != nil {
						return err
					}
					fmt.Fprintf(cCtx.App.Writer, "# %s\n", configPath)
					return toml.NewEncoder(cCtx.App.Writer).Encode(cfg)
				},
			},
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func fileArg(cCtx *cli.Context) (string, error) {
	if cCtx.NArg() != 1 {
		return "", cli.Exit("expected exactly one FILE argument", 2)
	}
	return cCtx.Args().First(), nil
}

// setup loads the configuration and points the log at logFile, or at
// defaultOut when none is given. The returned function closes the log file.
func setup(configPath, logLevel, logFile string, defaultOut io.Writer) (config.Config, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return cfg, nil, err
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	if err := ods.SetLevel(logLevel); err != nil {
		return cfg, nil, err
	}

	closeLog := func() {}
	if logFile == "" {
		ods.SetOutput(defaultOut)
		return cfg, closeLog, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return cfg, nil, errors.Wrap(err, "cannot open log file")
	}
	ods.SetOutput(f)
	return cfg, func() { f.Close() }, nil
}

func writePNG(path string, m image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "cannot create output")
	}
	if err := png.Encode(f, m); err != nil {
		f.Close()
		return errors.Wrap(err, "cannot encode PNG")
	}
	return errors.Wrap(f.Close(), "cannot close output")
}
