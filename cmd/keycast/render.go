package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/phanxgames/keycast"
)

func renderCmd() *cobra.Command {
	var (
		outDir string
		fps    int
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the clip as a PNG frame sequence",
		Long:  "render plays the clip at a fixed frame rate and writes every frame to --out as frame_00001.png, frame_00002.png and so on.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outDir == "" {
				outDir = filepath.Join("frames", uuid.NewString())
			}
			fonts, err := keycast.LoadFonts()
			if err != nil {
				return err
			}
			rec := keycast.NewRecorder(outDir)
			rc := keycast.RunConfig{
				Title:    appName,
				Width:    flags.width,
				Height:   flags.height,
				Recorder: rec,
				FPS:      fps,
			}

			clip, err := buildClip(cmd, fonts)
			if err != nil {
				scene := keycast.NewErrorScene(err, fonts, flags.width, flags.height)
				if runErr := keycast.Run(scene, rc); runErr != nil {
					slog.Error("Error scene capture failed", "error", runErr)
				}
				return err
			}

			start := time.Now()
			slog.Info("Rendering clip", "out", outDir, "fps", rc.FPS, "duration", clip.Timeline.Duration())
			if err := keycast.Run(clip.Scene, rc); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			slog.Info("Clip rendered", "frames", rec.Frames(), "elapsed", time.Since(start).Round(time.Millisecond))
			fmt.Fprintf(out, "%d frames written to %s\n", rec.Frames(), outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Frame output directory (default frames/<run id>)")
	cmd.Flags().IntVar(&fps, "fps", keycast.DefaultFPS, "Frames per second")
	return cmd
}
