// Package tui is the interactive review screen: browse the ledger, approve
// transactions that need review, change categories and reset decisions.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/Veraticus/finsense/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Reviewer is the workflow surface the screen drives.
type Reviewer interface {
	List(ctx context.Context, filter model.Filter) []model.Transaction
	CountByStatus(ctx context.Context) model.StatusCounts
	Approve(ctx context.Context, id string) (model.Transaction, error)
	Recategorize(ctx context.Context, id, category string) (model.Transaction, error)
	Reset(ctx context.Context, id string) (model.Transaction, error)
	Policy() engine.Policy
}

// CategoryLister supplies the recategorize picker.
type CategoryLister interface {
	GetCategories(ctx context.Context) ([]model.Category, error)
}

// Config configures the review screen.
type Config struct {
	Reviewer        Reviewer
	Categories      CategoryLister
	Theme           themes.Theme
	Timeout         time.Duration
	NeedsReviewOnly bool
}

// State represents the current state of the TUI.
type State int

// States.
const (
	StateList State = iota
	StatePicking
)

// Model holds the review screen state.
type Model struct {
	ctx          context.Context
	lastErr      error
	cfg          Config
	theme        themes.Theme
	help         help.Model
	status       string
	transactions []model.Transaction
	categories   []model.Category
	keymap       KeyMap
	counts       model.StatusCounts
	cursor       int
	pickCursor   int
	width        int
	height       int
	state        State
	pendingOnly  bool
	ready        bool
	quitting     bool
}

// New creates the review model. ctx bounds every call into the reviewer.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return Model{
		ctx:         ctx,
		cfg:         cfg,
		theme:       cfg.Theme,
		keymap:      DefaultKeyMap(),
		help:        help.New(),
		pendingOnly: cfg.NeedsReviewOnly,
		width:       100,
		height:      30,
	}
}

// Init loads the ledger and the categories.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadLedger(), m.loadCategories())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ledgerLoadedMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			return m, nil
		}
		m.transactions = msg.transactions
		m.counts = msg.counts
		m.ready = true
		m.clampCursor()
		return m, nil

	case categoriesLoadedMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			return m, nil
		}
		m.categories = msg.categories
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			m.status = ""
			return m, nil
		}
		m.lastErr = nil
		m.status = fmt.Sprintf("%s %s: %s → %s", msg.action, msg.txn.Vendor, msg.txn.Category, msg.txn.Status)
		return m, m.loadLedger()

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.state == StatePicking {
			return m.updatePicker(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.transactions)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0
	case key.Matches(msg, m.keymap.End):
		m.cursor = max(len(m.transactions)-1, 0)
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keymap.ToggleFilter):
		m.pendingOnly = !m.pendingOnly
		m.cursor = 0
		return m, m.loadLedger()
	case key.Matches(msg, m.keymap.Refresh):
		return m, tea.Batch(m.loadLedger(), m.loadCategories())
	case key.Matches(msg, m.keymap.Approve):
		if txn, ok := m.selected(); ok {
			return m, m.approve(txn.ID)
		}
	case key.Matches(msg, m.keymap.Reset):
		if txn, ok := m.selected(); ok {
			return m, m.reset(txn.ID)
		}
	case key.Matches(msg, m.keymap.Recategorize):
		if txn, ok := m.selected(); ok && len(m.categories) > 0 {
			m.state = StatePicking
			m.pickCursor = 0
			for i, cat := range m.categories {
				if cat.Name == txn.Category {
					m.pickCursor = i
				}
			}
		}
	}
	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Back), key.Matches(msg, m.keymap.Quit):
		m.state = StateList
	case key.Matches(msg, m.keymap.Up):
		if m.pickCursor > 0 {
			m.pickCursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.pickCursor < len(m.categories)-1 {
			m.pickCursor++
		}
	case key.Matches(msg, m.keymap.Select):
		m.state = StateList
		if txn, ok := m.selected(); ok {
			return m, m.recategorize(txn.ID, m.categories[m.pickCursor].Name)
		}
	}
	return m, nil
}

func (m Model) selected() (model.Transaction, bool) {
	if m.cursor < 0 || m.cursor >= len(m.transactions) {
		return model.Transaction{}, false
	}
	return m.transactions[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.transactions) {
		m.cursor = len(m.transactions) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) filter() model.Filter {
	if m.pendingOnly {
		return model.Filter{Status: model.StatusNeedsReview}
	}
	return model.Filter{}
}
