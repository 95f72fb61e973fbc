package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Title string
	Level int
	// Open lists, for each ancestor level below this item, whether that
	// ancestor still has siblings to draw after it.
	Open   []bool
	IsLast bool
	Muted  bool
	Badges []string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree renders TreeItems as an indented tree using box-drawing
// connectors. Badges line up in columns to the right of the widest title.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	maxContent := 0
	badgeWidths := []int{}

	for idx, item := range items {
		var prefix strings.Builder
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				if i-1 < len(item.Open) && !item.Open[i-1] {
					prefix.WriteString(treeBlank)
				} else {
					prefix.WriteString(treePipe)
				}
			}
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}

		title := item.Title
		if item.Muted {
			title = Dim(title)
		}
		contents[idx] = StyleDim.Render(prefix.String()) + title
		if w := lipgloss.Width(contents[idx]); w > maxContent {
			maxContent = w
		}
		for i, badge := range item.Badges {
			if i >= len(badgeWidths) {
				badgeWidths = append(badgeWidths, 0)
			}
			if w := lipgloss.Width(badge); w > badgeWidths[i] {
				badgeWidths[i] = w
			}
		}
	}

	var b strings.Builder
	for idx, item := range items {
		line := contents[idx]
		if len(item.Badges) > 0 {
			line += strings.Repeat(" ", maxContent-lipgloss.Width(line))
			for i, badge := range item.Badges {
				line += "  " + strings.Repeat(" ", badgeWidths[i]-lipgloss.Width(badge)) + badge
			}
		}
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	return b.String()
}
