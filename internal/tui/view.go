package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pacwatch/pacwatch/internal/checker"
	"github.com/pacwatch/pacwatch/internal/state"
)

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder
	if m.helpVisible {
		b.WriteString(renderHelp())
		b.WriteString("\n\n")
	}
	b.WriteString(renderHeader())
	b.WriteString("\n")
	b.WriteString(renderStatusLine(m))
	b.WriteString("\n")
	b.WriteString(renderCounts(m))
	b.WriteString("\n")
	b.WriteString(renderLastChecked(m))
	b.WriteString("\n")
	if m.current.Status == state.StatusError && m.current.LastError != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("  " + truncateLine(m.current.LastError, errorDisplayMax)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderUpdates(m))
	if m.flash != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Render(m.flash))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderFooter(m))
	return b.String()
}

func renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")).Render("pacwatch")
	subtitle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("Arch Linux update monitor")
	return title + "  " + subtitle + "\n"
}

func renderStatusLine(m Model) string {
	return "Status: " + statusBadge(m)
}

func statusBadge(m Model) string {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch m.current.Status {
	case state.StatusChecking:
		return style.Foreground(lipgloss.Color("69")).Render(m.spin.View() + "CHECKING")
	case state.StatusUpToDate:
		return style.Foreground(lipgloss.Color("46")).Render("✅ UP TO DATE")
	case state.StatusUpdatesAvailable:
		return style.Foreground(lipgloss.Color("208")).Render(fmt.Sprintf("📦 %d UPDATES PENDING", m.current.TotalCount))
	case state.StatusError:
		return style.Foreground(lipgloss.Color("196")).Render("❌ CHECK FAILED")
	default:
		return ""
	}
}

func renderCounts(m Model) string {
	helper := "none"
	if m.helper != checker.HelperNone {
		helper = m.helper.Binary()
	}
	return fmt.Sprintf(
		"Official: %d   AUR: %d   Total: %d   Helper: %s",
		m.current.OfficialCount,
		m.current.AURCount,
		m.current.TotalCount,
		helper,
	)
}

func renderLastChecked(m Model) string {
	if m.current.LastChecked.IsZero() {
		return "Last checked: never"
	}
	ago := m.now.Sub(m.current.LastChecked)
	if ago < 0 {
		ago = 0
	}
	return fmt.Sprintf("Last checked: %s ago", ago.Truncate(time.Second).String())
}

func renderUpdates(m Model) string {
	if m.current.Status == state.StatusUpToDate {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(" there is nothing to do") + "\n"
	}

	var b strings.Builder
	writePackageSection(&b, "Official", m.official)
	writePackageSection(&b, "AUR", m.aur)
	return b.String()
}

func writePackageSection(b *strings.Builder, title string, updates []state.PackageUpdate) {
	if len(updates) == 0 {
		return
	}
	head := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s (%d)", title, len(updates)))
	b.WriteString(head)
	b.WriteString("\n")
	shown := updates
	if len(shown) > maxSectionRows {
		shown = shown[:maxSectionRows]
	}
	for _, update := range shown {
		b.WriteString(fmt.Sprintf("  %s %s -> %s\n", update.Name, update.Current, update.Latest))
	}
	if hidden := len(updates) - len(shown); hidden > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(fmt.Sprintf("  ... and %d more", hidden)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// truncateLine cuts s to at most max runes. Check failures embed the full
// command line and stderr, which would otherwise wrap across the whole screen.
func truncateLine(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func renderFooter(m Model) string {
	keys := "q: quit • r: refresh • u: upgrade all • o: official only"
	if m.cfg.EnableAUR && m.helper != checker.HelperNone {
		keys += " • a: aur only"
	}
	keys += " • d: details • h/?: help"
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(keys)
}

func renderHelp() string {
	border := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Foreground(lipgloss.Color("69"))
	content := []string{
		"Help",
		"",
		"h/?: toggle this help",
		"q/ctrl+c: quit",
		"r: run an update check now",
		"u: upgrade everything in a terminal",
		"o: upgrade official packages only",
		"a: upgrade AUR packages only",
		"d: open pending update details",
	}
	return border.Render(strings.Join(content, "\n"))
}
