package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#00ff88")
	colorMuted   = lipgloss.Color("#737373")
	colorError   = lipgloss.Color("#ff4444")
)

// theme holds the composed terminal styles used by the commands.
var theme = struct {
	Title  lipgloss.Style
	Item   lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
	Bullet lipgloss.Style
}{
	Title:  lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
	Item:   lipgloss.NewStyle().Bold(true),
	Muted:  lipgloss.NewStyle().Foreground(colorMuted),
	Error:  lipgloss.NewStyle().Foreground(colorError),
	Bullet: lipgloss.NewStyle().Foreground(colorPrimary),
}

func writeLine(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, msg)
	return err
}

func renderListItem(item string) string {
	return theme.Bullet.Render("•") + " " + theme.Item.Render(item)
}
