package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"todoBoard/internal/board"

	"github.com/charmbracelet/lipgloss"
)

const clearScreen = "\033[H\033[2J"

var (
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true)
	dueSoonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd75f"))
	normalStyle  = lipgloss.NewStyle()
	editingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff"))
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	idStyle      = lipgloss.NewStyle().Faint(true)
	alertStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true)
)

// terminal draws board views as plain lines; watch mode clears the screen
// before every frame.
type terminal struct {
	out   io.Writer
	clear bool
}

func (t *terminal) Render(v board.View) {
	var b strings.Builder
	if t.clear {
		b.WriteString(clearScreen)
		fmt.Fprintf(&b, "Todo Board  %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	}
	if len(v.Rows) == 0 {
		b.WriteString("No tasks.\n")
	}
	for _, row := range v.Rows {
		b.WriteString(formatRow(row))
		b.WriteByte('\n')
	}
	_, _ = io.WriteString(t.out, b.String())
}

func formatRow(row board.Row) string {
	check := "[ ]"
	if row.Todo.Done {
		check = "[x]"
	}

	text := row.Todo.Text
	due := "no deadline"
	if row.Todo.Deadline != nil {
		due = "due " + row.Todo.Deadline.Local().Format("2006-01-02 15:04")
	}

	style := urgencyStyle(row.Urgency)
	if row.State == board.StateEditing {
		style = editingStyle
		text = row.Draft.Text
		due = "due " + row.Draft.Deadline
	}

	if row.Todo.Done {
		text = doneStyle.Render(text)
	}

	return fmt.Sprintf("%s %s  %s  %s", check, style.Render(text), style.Render(due), idStyle.Render(row.Todo.ID))
}

func urgencyStyle(u board.Urgency) lipgloss.Style {
	switch u {
	case board.UrgencyOverdue:
		return overdueStyle
	case board.UrgencyDueSoon:
		return dueSoonStyle
	default:
		return normalStyle
	}
}

type alerts struct {
	out io.Writer
}

func (a alerts) Error(message string) {
	fmt.Fprintln(a.out, alertStyle.Render("! "+message))
}
