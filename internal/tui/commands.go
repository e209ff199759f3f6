package tui

import (
	"context"

	"github.com/Veraticus/finsense/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) loadLedger() tea.Cmd {
	filter := m.filter()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, m.cfg.Timeout)
		defer cancel()

		return ledgerLoadedMsg{
			transactions: m.cfg.Reviewer.List(ctx, filter),
			counts:       m.cfg.Reviewer.CountByStatus(ctx),
		}
	}
}

func (m Model) loadCategories() tea.Cmd {
	return func() tea.Msg {
		if m.cfg.Categories == nil {
			return categoriesLoadedMsg{}
		}

		ctx, cancel := context.WithTimeout(m.ctx, m.cfg.Timeout)
		defer cancel()

		categories, err := m.cfg.Categories.GetCategories(ctx)
		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

func (m Model) act(action model.Action, fn func(ctx context.Context) (model.Transaction, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, m.cfg.Timeout)
		defer cancel()

		txn, err := fn(ctx)
		return actionDoneMsg{action: action, txn: txn, err: err}
	}
}

func (m Model) approve(id string) tea.Cmd {
	return m.act(model.ActionApprove, func(ctx context.Context) (model.Transaction, error) {
		return m.cfg.Reviewer.Approve(ctx, id)
	})
}

func (m Model) recategorize(id, category string) tea.Cmd {
	return m.act(model.ActionRecategorize, func(ctx context.Context) (model.Transaction, error) {
		return m.cfg.Reviewer.Recategorize(ctx, id, category)
	})
}

func (m Model) reset(id string) tea.Cmd {
	return m.act(model.ActionReset, func(ctx context.Context) (model.Transaction, error) {
		return m.cfg.Reviewer.Reset(ctx, id)
	})
}
