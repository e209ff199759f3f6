package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/finsense/internal/cli"
	"github.com/Veraticus/finsense/internal/common"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/Veraticus/finsense/internal/session"
	"github.com/Veraticus/finsense/internal/storage"
	"github.com/spf13/cobra"
)

func flagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Show or change the review session flags",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the session flags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(m *session.Manager) error {
				flags, err := m.Get(cmd.Context())
				if err != nil {
					return err
				}
				printFlags(cmd, flags)
				return nil
			})
		},
	})

	var reviewCompleted, bannerShown bool
	set := &cobra.Command{
		Use:   "set",
		Short: "Change the session flags",
		Example: `  finsense flags set --banner-shown
  finsense flags set --review-completed=false`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(m *session.Manager) error {
				flags, err := m.Get(cmd.Context())
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("review-completed") {
					flags.ReviewCompleted = reviewCompleted
				}
				if cmd.Flags().Changed("banner-shown") {
					flags.BannerShown = bannerShown
				}
				if err := m.Update(cmd.Context(), flags); err != nil {
					return reviewError(err)
				}
				printFlags(cmd, flags)
				return nil
			})
		},
	}
	set.Flags().BoolVar(&reviewCompleted, "review-completed", false, "Mark the review complete")
	set.Flags().BoolVar(&bannerShown, "banner-shown", false, "Record that the completion banner was shown")
	cmd.AddCommand(set)

	return cmd
}

func completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete",
		Short: "Mark the review complete once nothing needs review",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(m *session.Manager) error {
				if _, err := m.Complete(cmd.Context()); err != nil {
					return reviewError(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("All set! Review marked complete."))
				return nil
			})
		},
	}
}

func withSession(cmd *cobra.Command, fn func(m *session.Manager) error) error {
	return withLedger(cmd.Context(), func(store *storage.SQLiteStorage, eng *engine.Engine) error {
		return fn(session.NewManager(store, eng))
	})
}

func reviewError(err error) error {
	if errors.Is(err, common.ErrReviewIncomplete) {
		return common.NewUserError("Some transactions still need review. Approve or recategorize them first.", err)
	}
	return err
}

func printFlags(cmd *cobra.Command, flags model.SessionFlags) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "review_completed: %t\n", flags.ReviewCompleted)
	fmt.Fprintf(out, "banner_shown:     %t\n", flags.BannerShown)
}
