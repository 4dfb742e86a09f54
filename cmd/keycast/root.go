package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/phanxgames/keycast"
)

const (
	appName      = "keycast"
	shortAppDesc = "Render animated keyboard reveal clips."
	longAppDesc  = "keycast lays out a virtual keyboard from a configuration file, presses the keys of a topic and reveals an info card, either in a window or as a PNG frame sequence."

	defaultLogLevel = "info"
)

var (
	version = "dev"

	flags = &globalFlags{}

	rootCmd = &cobra.Command{
		Use:           appName,
		Short:         shortAppDesc,
		Long:          longAppDesc,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(flags.logLevel)
		},
	}

	out = colorable.NewColorableStdout()
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	config   string
	width    int
	height   int
	seed     uint64
	logLevel string
	debug    bool
}

type flagError struct{ err error }

func (e flagError) Error() string { return e.err.Error() }

func init() {
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return flagError{err: err}
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", keycast.DefaultConfigFile, "Configuration file (.json, .yaml or .yml)")
	pf.IntVar(&flags.width, "width", keycast.DefaultScreenWidth, "Output width in pixels")
	pf.IntVar(&flags.height, "height", keycast.DefaultScreenHeight, "Output height in pixels")
	pf.Uint64Var(&flags.seed, "seed", 0, "Seed for key order and press delays (random when unset)")
	pf.StringVarP(&flags.logLevel, "log-level", "l", defaultLogLevel, "Log level (error, warn, info, debug)")
	pf.BoolVar(&flags.debug, "debug", false, "Log timeline steps and draw stats")

	rootCmd.AddCommand(renderCmd(), previewCmd(), validateCmd())
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.As(err, &flagError{}) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, rootCmd.UsageString())
			os.Exit(2)
		}
		slog.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	slog.SetDefault(slog.New(tint.NewHandler(colorable.NewColorableStderr(), &tint.Options{
		Level:      parseLevel(level),
		TimeFormat: time.Kitchen,
	})))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newRand returns a seeded source when --seed was given, nil otherwise.
func newRand(cmd *cobra.Command) *rand.Rand {
	if !cmd.Flags().Changed("seed") {
		return nil
	}
	return rand.New(rand.NewPCG(flags.seed, flags.seed))
}

// buildClip loads the configuration and assembles the clip.
func buildClip(cmd *cobra.Command, fonts *keycast.Fonts) (*keycast.Clip, error) {
	cfg, err := keycast.LoadConfig(flags.config)
	if err != nil {
		return nil, err
	}
	return keycast.BuildClip(cfg, keycast.ClipOptions{
		Width:  flags.width,
		Height: flags.height,
		Fonts:  fonts,
		Rand:   newRand(cmd),
		Debug:  flags.debug,
	})
}
