package summary

import (
	"fmt"
	"strings"

	"thinkboard-be/pkg/whiteboard"
)

const (
	maxGroupLines   = 5
	maxNotePreviews = 10
	previewLen      = 30
)

// Summarize produces a bounded natural-language digest of the snapshot
// for the system prompt. Purely deterministic string formatting; no
// model call. This gives the model a cheap overview so trivial
// questions need no tool call at all.
func Summarize(s *whiteboard.Snapshot) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("The whiteboard contains %d notes, %d groups, %d edges and %d images.\n",
		len(s.Notes), len(s.Groups), len(s.Edges), len(s.Images)))

	if len(s.Groups) > 0 {
		sb.WriteString("\nGroups:\n")
		for i, g := range s.Groups {
			if i >= maxGroupLines {
				sb.WriteString(fmt.Sprintf("  ... and %d more groups\n", len(s.Groups)-maxGroupLines))
				break
			}
			sb.WriteString(fmt.Sprintf("  - %s (%d notes)\n", g.Name, len(g.NoteIDs)))
		}
	}

	if len(s.Notes) > 0 {
		sb.WriteString("\nNote previews:\n")
		for i, n := range s.Notes {
			if i >= maxNotePreviews {
				sb.WriteString(fmt.Sprintf("  ... and %d more notes\n", len(s.Notes)-maxNotePreviews))
				break
			}
			sb.WriteString(fmt.Sprintf("  - %s\n", whiteboard.TruncateContent(n.Content, previewLen)))
		}
	} else {
		sb.WriteString("\nThe board has no notes yet.\n")
	}

	return sb.String()
}
