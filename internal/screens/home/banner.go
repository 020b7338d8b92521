package home

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sportsmind/internal/store"
	"github.com/abhisek/sportsmind/internal/ui/theme"
)

const bannerFull = ` ___ ___  ___  ___ _____ ___ __  __ ___ _  _ ___
/ __| _ \/ _ \| _ \_   _/ __|  \/  |_ _| \| |   \
\__ \  _/ (_) |   / | | \__ \ |\/| || || .' | |) |
|___/_|  \___/|_|_\ |_| |___/_|  |_|___|_|\_|___/`

const bannerCompact = "S P O R T S M I N D"

func renderBanner(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	art := bannerFull
	if compact {
		art = bannerCompact
	}
	tagline := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
		Render("sportsmanship · athlete mind · self esteem")
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art) + "\n\n" + tagline)
}

// draftDetail summarizes the newest draft for the resume menu entry.
func draftDetail(d store.DraftSummary, now time.Time) string {
	return fmt.Sprintf("%s · %d answered · %s", d.Role.DisplayName(), d.AnswerCount, ago(now.Sub(d.SavedAt)))
}

func ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func renderMenuBox(menu string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Padding(1, 2).
		Render(strings.TrimRight(menu, "\n"))
}
