package main

import (
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/storage"
	"github.com/Veraticus/finsense/internal/tui"
	"github.com/Veraticus/finsense/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review transactions interactively",
		Long: `Open the interactive review screen. Move with j/k, approve with a,
change category with c, reset with r and press ? for every key.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")

			return withLedger(cmd.Context(), func(store *storage.SQLiteStorage, eng *engine.Engine) error {
				return tui.Run(cmd.Context(), tui.Config{
					Reviewer:        eng,
					Categories:      store,
					Theme:           themes.ByName(viper.GetString("tui.theme")),
					NeedsReviewOnly: !all,
				})
			})
		},
	}

	cmd.Flags().Bool("all", false, "Start with every transaction instead of those needing review")
	cmd.Flags().String("theme", "default", "Color theme (default, catppuccin)")
	_ = viper.BindPFlag("tui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}
