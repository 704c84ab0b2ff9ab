package log

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"
)

// 🎨 RunEventType represents the kind of run-level event being reported
type RunEventType int

const (
	RunStarted RunEventType = iota
	RunCompleted
	RunSkippedAll
	RunFailed
)

// 📢 LogRunEvent prints a run-level event with a pterm prefix printer and
// echoes it to the structured log.
func (l *Logger) LogRunEvent(eventType RunEventType, description string) {
	var printer *pterm.PrefixPrinter
	switch eventType {
	case RunStarted:
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "🏃"})
	case RunCompleted:
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"})
	case RunSkippedAll:
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "⏭️"})
	case RunFailed:
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
	default:
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"})
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.console, printer.Sprintln(description))
	if eventType == RunFailed {
		l.zlog.Error().Msg(description)
	} else {
		l.zlog.Info().Msg(description)
	}
}

// 🌳 LogArchivePreview renders the entries of an archive as a tree rooted at
// the archive name, showing where each entry would land after extraction.
// Entry names are slash-separated paths as stored in the archive.
func (l *Logger) LogArchivePreview(archive string, entries []string) {
	root := pterm.TreeNode{Text: archive}
	root.Children = buildTree(entries)

	l.mu.Lock()
	defer l.mu.Unlock()

	text, err := pterm.DefaultTree.WithRoot(root).Srender()
	if err != nil {
		// Fall back to a flat listing rather than losing the preview
		for _, entry := range entries {
			fmt.Fprintf(l.console, "    %s\n", entry)
		}
	} else {
		fmt.Fprint(l.console, text)
	}

	l.zlog.Info().Str("archive", archive).Int("entries", len(entries)).Msg("archive preview")
}

// buildTree converts slash-separated entry names into nested tree nodes.
// Sibling order is sorted so output is stable across runs.
func buildTree(entries []string) []pterm.TreeNode {
	children := map[string][]string{}
	var order []string
	for _, entry := range entries {
		entry = strings.TrimSuffix(entry, "/")
		if entry == "" {
			continue
		}
		head, rest, found := strings.Cut(entry, "/")
		if _, seen := children[head]; !seen {
			order = append(order, head)
			children[head] = nil
		}
		if found && rest != "" {
			children[head] = append(children[head], rest)
		}
	}
	sort.Strings(order)

	nodes := make([]pterm.TreeNode, 0, len(order))
	for _, head := range order {
		nodes = append(nodes, pterm.TreeNode{
			Text:     head,
			Children: buildTree(children[head]),
		})
	}
	return nodes
}
