package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ConfidenceLabeler describes a confidence value, e.g. its threshold band.
type ConfidenceLabeler interface {
	Describe(confidence float64) string
}

// RenderTransactions renders transactions as a bordered table.
func RenderTransactions(txns []model.Transaction) string {
	rows := make([][]string, 0, len(txns))
	for _, txn := range txns {
		rows = append(rows, []string{
			txn.ID,
			txn.Date.Format(model.DateLayout),
			truncate(txn.Vendor, 28),
			"$" + txn.Amount.StringFixed(2),
			truncate(txn.Category, 28),
			fmt.Sprintf("%.0f%%", txn.Confidence*100),
			string(txn.Status),
		})
	}

	const statusCol = 6
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		Headers("ID", "DATE", "VENDOR", "AMOUNT", "CATEGORY", "CONF", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true).Foreground(PrimaryColor)
			}
			if col == statusCol && row >= 0 && row < len(txns) {
				return style.Inherit(StatusStyle(txns[row].Status))
			}
			if col == 3 || col == 5 {
				return style.Align(lipgloss.Right)
			}
			return style
		})

	return t.Render()
}

// RenderSummary renders the status partition.
func RenderSummary(counts model.StatusCounts) string {
	lines := make([]string, 0, 4)
	for _, s := range []model.Status{model.StatusAutoApproved, model.StatusNeedsReview, model.StatusManual} {
		lines = append(lines, fmt.Sprintf("%-24s %d", FormatStatus(s), counts.Get(s)))
	}
	lines = append(lines, BoldStyle.Render(fmt.Sprintf("%-24s %d", "total", counts.Total())))
	return RenderBox("Review summary", strings.Join(lines, "\n"))
}

// RenderTransaction renders the detail view of one transaction.
func RenderTransaction(txn model.Transaction, labeler ConfidenceLabeler) string {
	var b strings.Builder
	field := func(name, value string) {
		fmt.Fprintf(&b, "%s %s\n", SubtleStyle.Render(fmt.Sprintf("%-12s", name)), value)
	}

	field("ID", txn.ID)
	field("Date", txn.Date.Format(model.DateLayout))
	field("Vendor", txn.Vendor)
	field("Amount", "$"+txn.Amount.StringFixed(2))
	field("Category", txn.Category)
	field("Confidence", fmt.Sprintf("%.0f%% (%s)", txn.Confidence*100, labeler.Describe(txn.Confidence)))
	field("Status", FormatStatus(txn.Status))
	field("Source", string(txn.DecisionSource))
	if txn.PaymentMethod != "" {
		field("Payment", txn.PaymentMethod)
	}
	if txn.Original.Category != txn.Category || txn.Original.Confidence != txn.Confidence {
		field("Original", fmt.Sprintf("%s at %.0f%%", txn.Original.Category, txn.Original.Confidence*100))
	}
	if txn.Explanation != "" {
		field("Why", txn.Explanation)
	}

	return RenderBox(txn.Vendor, strings.TrimRight(b.String(), "\n"))
}

// RenderHistory renders a decision trail.
func RenderHistory(events []model.DecisionEvent) string {
	if len(events) == 0 {
		return SubtleStyle.Render("no decisions recorded")
	}

	var b strings.Builder
	for _, ev := range events {
		from := ""
		if ev.FromStatus != "" {
			from = fmt.Sprintf("%s/%s → ", ev.FromCategory, ev.FromStatus)
		}
		fmt.Fprintf(&b, "%s  %-13s %s%s/%s  %s\n",
			SubtleStyle.Render(ev.At.Format("2006-01-02 15:04:05")),
			BoldStyle.Render(string(ev.Action)),
			from, ev.ToCategory, ev.ToStatus,
			SubtleStyle.Render(string(ev.Source)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
