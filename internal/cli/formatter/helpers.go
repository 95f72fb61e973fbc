package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/holdings/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// KeyValues renders label/value pairs with the labels padded to one width.
func KeyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if w := lipgloss.Width(p[0]); w > width {
			width = w
		}
	}
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		pad := strings.Repeat(" ", width-lipgloss.Width(p[0]))
		lines = append(lines, Dim(p[0]+":")+pad+"  "+p[1])
	}
	return strings.Join(lines, "\n")
}

// Day renders the calendar day of t.
func Day(t time.Time) string {
	return domain.DayOf(t).Format(domain.DayLayout)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// CategoryFlags lists the cash, liability and tag markers of a category.
func CategoryFlags(isCash, isLiability bool, tag string) string {
	var parts []string
	if isCash {
		parts = append(parts, StyleBlue.Render("cash"))
	}
	if isLiability {
		parts = append(parts, StyleRed.Render("liability"))
	}
	if tag != "" {
		parts = append(parts, StylePurple.Render("#"+tag))
	}
	return strings.Join(parts, " ")
}
