package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the review screen until the user quits or ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Reviewer == nil {
		return errors.New("reviewer is required")
	}

	p := tea.NewProgram(New(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("review screen failed: %w", err)
	}
	return nil
}
