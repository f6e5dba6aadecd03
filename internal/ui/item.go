package ui

import (
	"fmt"
	"strings"

	"github.com/golink-dev/golink/internal/classify"
	"github.com/golink-dev/golink/internal/uitext"
)

// maxTitleLen keeps a single list row from wrapping in a narrow terminal.
const maxTitleLen = 72

// FindingItem wraps a classify.Finding to implement list.Item /
// list.DefaultItem.
type FindingItem struct {
	Finding classify.Finding
}

// FilterValue returns the string used for list filtering.
func (i FindingItem) FilterValue() string {
	return i.Finding.Target
}

// Title returns the main display text for the item: the broken target,
// truncated so a long path can't wrap the list row.
func (i FindingItem) Title() string {
	return uitext.Truncate(i.Finding.Target, maxTitleLen)
}

// Description returns secondary text: the finding kind, required anchor (if
// any), and the referencing document.
func (i FindingItem) Description() string {
	f := i.Finding
	if f.Kind == classify.BrokenAnchor {
		return fmt.Sprintf("missing anchor #%s | referenced from %s", f.Anchor, f.Source)
	}
	return fmt.Sprintf("missing | referenced from %s", f.Source)
}

// DetailView returns an expanded detail panel for the selected item.
func (i FindingItem) DetailView() string {
	f := i.Finding
	var b strings.Builder

	b.WriteString("┌─ Details ─────────────────────────────────────────────────────────────\n")
	b.WriteString(fmt.Sprintf("│ %s  %s\n", DetailLabelStyle.Render("Severity:"), SeverityBadge(f.Kind == classify.BrokenLink)))
	b.WriteString(fmt.Sprintf("│ %s  %s\n", DetailLabelStyle.Render("Target:"), f.Target))
	if f.Anchor != "" {
		b.WriteString(fmt.Sprintf("│ %s  #%s\n", DetailLabelStyle.Render("Anchor:"), f.Anchor))
	}
	b.WriteString(fmt.Sprintf("│ %s  %s\n", DetailLabelStyle.Render("Source:"), f.Source))
	b.WriteString("│\n")
	if f.Kind == classify.BrokenAnchor {
		b.WriteString(fmt.Sprintf("│ %s\n", DetailNoteStyle.Render("Note: the target document exists, but declares no such anchor.")))
	} else {
		b.WriteString(fmt.Sprintf("│ %s\n", DetailNoteStyle.Render("Note: no file or directory-index exists at this target.")))
	}
	b.WriteString("└────────────────────────────────────────────────────────────────────────\n")

	return b.String()
}

// FindingsToItems converts classify.Findings to list items.
func FindingsToItems(findings []classify.Finding) []FindingItem {
	items := make([]FindingItem, len(findings))
	for i, f := range findings {
		items[i] = FindingItem{Finding: f}
	}
	return items
}
