package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phanxgames/keycast"
)

func previewCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Play the clip in a window",
		Long:  "preview plays the clip in a window and replays it when it ends. With --watch the clip is rebuilt whenever the configuration file is saved.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fonts, err := keycast.LoadFonts()
			if err != nil {
				return err
			}
			build := func() (*keycast.Scene, error) {
				clip, err := buildClip(cmd, fonts)
				if err != nil {
					slog.Error("Configuration failed", "config", flags.config, "error", err)
					return keycast.NewErrorScene(err, fonts, flags.width, flags.height), nil
				}
				return clip.Scene, nil
			}
			scene, _ := build()

			rc := keycast.RunConfig{
				Title:   appName + " - " + flags.config,
				Width:   flags.width,
				Height:  flags.height,
				Rebuild: build,
				Loop:    true,
			}
			if watch {
				w, err := keycast.WatchConfig(flags.config)
				if err != nil {
					return err
				}
				defer w.Close()
				rc.Changed = w.Changed()
				rc.WatchErrors = w.Errors()
				slog.Info("Watching configuration", "config", flags.config)
			}
			return keycast.Run(scene, rc)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rebuild the clip when the configuration file changes")
	return cmd
}
