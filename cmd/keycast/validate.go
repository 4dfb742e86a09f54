package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/keycast"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file",
		Long:  "validate loads the configuration, checks it against the schema and reports which topic keys the selected layout can press.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := keycast.LoadConfig(flags.config)
			if err != nil {
				return err
			}
			if _, err := cfg.AnimationSettings(); err != nil {
				return err
			}
			layout := cfg.Layout()
			_, ix := keycast.BuildKeyboard(layout.Rows, cfg.Categories, nil)

			var missing []string
			for _, label := range cfg.VideoTopic.Keys {
				if _, ok := ix.First(label); !ok {
					missing = append(missing, label)
				}
			}

			fmt.Fprintf(out, "%s: ok\n", flags.config)
			fmt.Fprintf(out, "  layout:  %s (%d rows)\n", layout.Name, len(layout.Rows))
			fmt.Fprintf(out, "  title:   %s\n", cfg.VideoTopic.Title)
			fmt.Fprintf(out, "  keys:    %d\n", len(cfg.VideoTopic.Keys))
			if len(missing) > 0 {
				fmt.Fprintf(out, "  skipped: %v (not in layout)\n", missing)
			}
			return nil
		},
	}
}
