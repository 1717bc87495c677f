package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one task row in a tree display.
type TreeItem struct {
	Title  string
	Seq    int // chart row number; 0 hides it
	Level  int
	IsLast bool
	Status string // a domain.TaskStatus value
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders a list of TreeItems as an indented tree using
// box-drawing characters for connectors. Done tasks get a green ✔ prefix,
// in-progress tasks an amber ▶, blocked tasks a red ■. Detail badges are
// right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string // prefix + statusPrefix + title (styled)
		badge   string // styled badge or ""
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	// Pass 1: build each line's content and track max visible width.
	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				prefix += treePipe
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		if item.Seq > 0 {
			title = StyleDim.Render(fmt.Sprintf("#%d ", item.Seq)) + title
		}
		statusPrefix := ""

		switch domain.TaskStatus(item.Status) {
		case domain.TaskDone:
			statusPrefix = StyleGreen.Render("✔ ")
			title = Dim(title)
		case domain.TaskInProgress:
			statusPrefix = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		case domain.TaskBlocked:
			statusPrefix = StyleRed.Render("■ ")
		}

		content := prefix + statusPrefix + title
		lines[idx].content = content

		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	// Pass 2: render with right-aligned badges.
	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}
