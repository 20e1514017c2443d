package tools

import (
	"encoding/json"
	"fmt"
	"testing"

	"thinkboard-be/pkg/whiteboard"
)

func overviewSnapshot() *whiteboard.Snapshot {
	s := &whiteboard.Snapshot{
		Groups: []whiteboard.Group{
			{ID: "g1", Name: "Small", NoteIDs: []string{"n1"}},
			{ID: "g2", Name: "Big", NoteIDs: []string{"n1", "n2", "n3"}},
			{ID: "g3", Name: "Medium", NoteIDs: []string{"n1", "n2"}},
			{ID: "g4", Name: "Empty"},
			{ID: "g5", Name: "AlsoSmall", NoteIDs: []string{"n2"}},
			{ID: "g6", Name: "Tiny", NoteIDs: []string{"n3"}},
		},
		Edges:  []whiteboard.Edge{{ID: "e1", From: "n1", To: "n2"}},
		Images: []whiteboard.Image{{ID: "img1"}, {ID: "img2"}},
	}
	for i := 1; i <= 7; i++ {
		s.Notes = append(s.Notes, whiteboard.Note{
			ID:      fmt.Sprintf("n%d", i),
			Content: fmt.Sprintf("note number %d", i),
		})
	}
	return s
}

func TestOverviewStats(t *testing.T) {
	tool := &OverviewTool{}
	payload, err := tool.Execute(overviewSnapshot(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Execute error = %v", err)
	}
	result := payload.(overviewResult)

	want := overviewStats{NoteCount: 7, GroupCount: 6, EdgeCount: 1, ImageCount: 2}
	if result.Stats != want {
		t.Errorf("Stats = %+v, want %+v", result.Stats, want)
	}
	if result.Summary == "" {
		t.Error("Summary is empty")
	}
}

func TestOverviewTopGroups(t *testing.T) {
	tool := &OverviewTool{}
	payload, err := tool.Execute(overviewSnapshot(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Execute error = %v", err)
	}
	result := payload.(overviewResult)

	if len(result.TopGroups) != 5 {
		t.Fatalf("TopGroups len = %d, want capped at 5", len(result.TopGroups))
	}
	if result.TopGroups[0].ID != "g2" || result.TopGroups[0].NoteCount != 3 {
		t.Errorf("TopGroups[0] = %+v, want g2 with 3 notes", result.TopGroups[0])
	}
	if result.TopGroups[1].ID != "g3" {
		t.Errorf("TopGroups[1] = %+v, want g3", result.TopGroups[1])
	}
	// Equal-sized groups keep snapshot order (g1 before g5 before g6).
	if result.TopGroups[2].ID != "g1" || result.TopGroups[3].ID != "g5" || result.TopGroups[4].ID != "g6" {
		t.Errorf("TopGroups tail = %+v, want snapshot order among ties", result.TopGroups[2:])
	}
}

func TestOverviewRecentNotes(t *testing.T) {
	tool := &OverviewTool{}

	// Excluded by default.
	payload, err := tool.Execute(overviewSnapshot(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Execute error = %v", err)
	}
	if got := payload.(overviewResult).RecentNotes; got != nil {
		t.Errorf("RecentNotes = %v, want nil by default", got)
	}

	payload, err = tool.Execute(overviewSnapshot(), json.RawMessage(`{"include_recent_notes": true}`))
	if err != nil {
		t.Fatalf("Execute error = %v", err)
	}
	recent := payload.(overviewResult).RecentNotes
	if len(recent) != 5 {
		t.Fatalf("RecentNotes len = %d, want 5", len(recent))
	}
	// Recency is insertion order: the array tail.
	if recent[0].ID != "n3" || recent[4].ID != "n7" {
		t.Errorf("RecentNotes = %v, want n3..n7", recent)
	}
}

func TestOverviewEmptyBoard(t *testing.T) {
	tool := &OverviewTool{}
	payload, err := tool.Execute(&whiteboard.Snapshot{}, json.RawMessage(`{"include_recent_notes": true}`))
	if err != nil {
		t.Fatalf("Execute error = %v", err)
	}
	result := payload.(overviewResult)

	if result.Stats.NoteCount != 0 {
		t.Errorf("NoteCount = %d, want 0", result.Stats.NoteCount)
	}
	if len(result.TopGroups) != 0 || len(result.RecentNotes) != 0 {
		t.Errorf("empty board produced groups %v notes %v", result.TopGroups, result.RecentNotes)
	}
}
