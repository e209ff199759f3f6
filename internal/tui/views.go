package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		if m.lastErr != nil {
			return m.theme.StatusError.Render("Error: " + m.lastErr.Error())
		}
		return m.theme.Subtitle.Render("Loading ledger...")
	}

	sections := []string{m.renderHeader(), m.renderList(), m.renderDetail()}
	if m.state == StatePicking {
		sections = append(sections, m.renderPicker())
	}
	sections = append(sections, m.renderStatus(), m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) statusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusAutoApproved:
		return m.theme.StatusSuccess
	case model.StatusNeedsReview:
		return m.theme.StatusWarning
	case model.StatusManual:
		return m.theme.StatusManual
	}
	return m.theme.Normal
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("FinSense review")
	counts := fmt.Sprintf("%s %d   %s %d   %s %d",
		m.statusStyle(model.StatusAutoApproved).Render("auto-approved"), m.counts.AutoApproved,
		m.statusStyle(model.StatusNeedsReview).Render("needs-review"), m.counts.NeedsReview,
		m.statusStyle(model.StatusManual).Render("manual"), m.counts.Manual)

	if m.pendingOnly {
		counts += m.theme.Subtitle.Render("   (showing needs-review only)")
	}
	if m.counts.Total() > 0 && m.counts.NeedsReview == 0 {
		counts += "\n" + m.theme.StatusSuccess.Render("All set! Nothing left to review.")
	}
	return title + "\n" + counts
}

// listHeight is the number of rows available to the transaction list.
func (m Model) listHeight() int {
	return max(m.height-16, 3)
}

func (m Model) renderList() string {
	if len(m.transactions) == 0 {
		return m.theme.Subtitle.Render("No transactions.")
	}

	height := m.listHeight()
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(m.transactions))

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		txn := m.transactions[i]
		line := fmt.Sprintf("%-10s  %-24s %10s  %-28s %4.0f%%  ",
			txn.Date.Format(model.DateLayout),
			clip(txn.Vendor, 24),
			"$"+txn.Amount.StringFixed(2),
			clip(txn.Category, 28),
			txn.Confidence*100)

		if i == m.cursor {
			rows = append(rows, m.theme.Selected.Render(line+string(txn.Status)))
			continue
		}
		rows = append(rows, m.theme.Normal.Render(line)+m.statusStyle(txn.Status).Render(string(txn.Status)))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderDetail() string {
	txn, ok := m.selected()
	if !ok {
		return ""
	}

	lines := []string{
		m.theme.Bold.Render(txn.Vendor) + m.theme.Subtitle.Render("  "+string(txn.DecisionSource)),
		m.theme.Subtitle.Render(m.cfg.Reviewer.Policy().Describe(txn.Confidence)),
	}
	if txn.Explanation != "" {
		lines = append(lines, m.theme.Normal.Render(txn.Explanation))
	}
	if txn.Original.Category != txn.Category {
		lines = append(lines, m.theme.Subtitle.Render("originally "+txn.Original.Category))
	}
	return m.theme.RoundedBox.Width(max(m.width-4, 20)).Render(strings.Join(lines, "\n"))
}

func (m Model) renderPicker() string {
	rows := make([]string, 0, len(m.categories)+1)
	rows = append(rows, m.theme.Bold.Render("Move to category"))
	for i, cat := range m.categories {
		label := cat.Name
		if cat.HighImpact {
			label += " (high impact)"
		}
		if i == m.pickCursor {
			rows = append(rows, m.theme.Selected.Render("› "+label))
			continue
		}
		rows = append(rows, m.theme.Normal.Render("  "+label))
	}
	return m.theme.RoundedBox.Render(strings.Join(rows, "\n"))
}

func (m Model) renderStatus() string {
	if m.lastErr != nil {
		return m.theme.StatusError.Render(m.lastErr.Error())
	}
	if m.status != "" {
		return m.theme.StatusInfo.Render(m.status)
	}
	return ""
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
