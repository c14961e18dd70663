package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/holdem/poker"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	handInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	redCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	blackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// renderCards colors each card by suit
func renderCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return infoStyle.Render("--")
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		style := blackCardStyle
		if c.Suit.IsRed() {
			style = redCardStyle
		}
		out[i] = style.Render(c.Pretty())
	}
	return strings.Join(out, " ")
}

// signed renders a result green when positive and red when negative
func signed(format string, v float64) string {
	s := lipgloss.NewStyle()
	switch {
	case v > 0:
		s = successStyle
		format = "+" + format
	case v < 0:
		s = errorStyle
	}
	return s.Render(fmt.Sprintf(format, v))
}
