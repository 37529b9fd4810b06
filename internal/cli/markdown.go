package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderTerminalMarkdown renders md for a terminal. NO_COLOR and the
// configured TUI theme pick the glamour style.
func renderTerminalMarkdown(app *App, md string) (string, error) {
	style := "dark"
	switch {
	case strings.TrimSpace(os.Getenv("NO_COLOR")) != "":
		style = "notty"
	case strings.EqualFold(strings.TrimSpace(app.settings.TUITheme), "light"):
		style = "light"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
