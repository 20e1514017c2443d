package summary

import (
	"fmt"
	"strings"
	"testing"

	"thinkboard-be/pkg/whiteboard"
)

func TestSummarizeEmptyBoard(t *testing.T) {
	got := Summarize(&whiteboard.Snapshot{})

	if !strings.Contains(got, "0 notes, 0 groups, 0 edges and 0 images") {
		t.Errorf("summary missing counts line: %q", got)
	}
	if !strings.Contains(got, "The board has no notes yet.") {
		t.Errorf("summary missing empty-board line: %q", got)
	}
}

func TestSummarizeCountsAndPreviews(t *testing.T) {
	s := &whiteboard.Snapshot{
		Notes: []whiteboard.Note{
			{ID: "n1", Content: "A very long note content that will definitely be truncated"},
			{ID: "n2", Content: "short"},
		},
		Groups: []whiteboard.Group{
			{ID: "g1", Name: "Research", NoteIDs: []string{"n1", "n2"}},
		},
		Edges: []whiteboard.Edge{{ID: "e1", From: "n1", To: "n2"}},
	}

	got := Summarize(s)

	if !strings.Contains(got, "2 notes, 1 groups, 1 edges and 0 images") {
		t.Errorf("summary counts wrong: %q", got)
	}
	if !strings.Contains(got, "- Research (2 notes)") {
		t.Errorf("summary missing group line: %q", got)
	}
	if !strings.Contains(got, "- short") {
		t.Errorf("summary missing note preview: %q", got)
	}
	// Long content is cut to a preview.
	if strings.Contains(got, "definitely be truncated") {
		t.Errorf("summary contains untruncated content: %q", got)
	}
}

// The digest stays bounded no matter how large the board is; it feeds
// the system prompt on every turn.
func TestSummarizeIsBounded(t *testing.T) {
	s := &whiteboard.Snapshot{}
	for i := 0; i < 500; i++ {
		s.Notes = append(s.Notes, whiteboard.Note{
			ID:      fmt.Sprintf("n%d", i),
			Content: fmt.Sprintf("note %d with some content", i),
		})
		s.Groups = append(s.Groups, whiteboard.Group{
			ID:   fmt.Sprintf("g%d", i),
			Name: fmt.Sprintf("group %d", i),
		})
	}

	got := Summarize(s)

	if !strings.Contains(got, "... and 495 more groups") {
		t.Errorf("summary missing group overflow line: %q", got)
	}
	if !strings.Contains(got, "... and 490 more notes") {
		t.Errorf("summary missing note overflow line: %q", got)
	}
	if lines := strings.Count(got, "\n"); lines > 25 {
		t.Errorf("summary has %d lines, want a bounded digest", lines)
	}
}
