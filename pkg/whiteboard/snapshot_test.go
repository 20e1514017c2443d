package whiteboard

import "testing"

func testSnapshot() *Snapshot {
	return &Snapshot{
		Notes: []Note{
			{ID: "n1", Content: "Budget planning for Q3", GroupID: "g1"},
			{ID: "n2", Content: "Marketing campaign ideas"},
			{ID: "n3", Content: "Hiring pipeline"},
		},
		Groups: []Group{
			{ID: "g1", Name: "Finance", NoteIDs: []string{"n1"}},
			{ID: "g2", Name: "Ops", NoteIDs: []string{"n1", "n3"}},
			{ID: "g3", Name: "Sub-Ops", ParentGroupID: "g2"},
		},
		Edges: []Edge{
			{ID: "e1", From: "n1", To: "n2"},
			{ID: "e2", From: "n3", To: "n1"},
			{ID: "e3", From: "n2", To: "ghost"},
		},
	}
}

func TestNoteByID(t *testing.T) {
	s := testSnapshot()

	if got := s.NoteByID("n2"); got == nil || got.Content != "Marketing campaign ideas" {
		t.Errorf("NoteByID(n2) = %v, want marketing note", got)
	}
	if got := s.NoteByID("missing"); got != nil {
		t.Errorf("NoteByID(missing) = %v, want nil", got)
	}
}

func TestOwningGroupFirstMatchWins(t *testing.T) {
	s := testSnapshot()

	// n1 is listed in both g1 and g2; snapshot order decides.
	got := s.OwningGroup("n1")
	if got == nil || got.ID != "g1" {
		t.Fatalf("OwningGroup(n1) = %v, want g1", got)
	}

	if got := s.OwningGroup("n2"); got != nil {
		t.Errorf("OwningGroup(n2) = %v, want nil", got)
	}
}

func TestEdgeLookups(t *testing.T) {
	s := testSnapshot()

	incoming := s.IncomingEdges("n1")
	if len(incoming) != 1 || incoming[0].ID != "e2" {
		t.Errorf("IncomingEdges(n1) = %v, want [e2]", incoming)
	}

	outgoing := s.OutgoingEdges("n1")
	if len(outgoing) != 1 || outgoing[0].ID != "e1" {
		t.Errorf("OutgoingEdges(n1) = %v, want [e1]", outgoing)
	}

	if got := s.IncomingEdges("isolated"); len(got) != 0 {
		t.Errorf("IncomingEdges(isolated) = %v, want empty", got)
	}
}

func TestGroupDepth(t *testing.T) {
	tests := []struct {
		name    string
		groups  []Group
		groupID string
		want    int
	}{
		{
			name:    "top level",
			groups:  []Group{{ID: "a"}},
			groupID: "a",
			want:    0,
		},
		{
			name: "two levels deep",
			groups: []Group{
				{ID: "a"},
				{ID: "b", ParentGroupID: "a"},
				{ID: "c", ParentGroupID: "b"},
			},
			groupID: "c",
			want:    2,
		},
		{
			name: "self-parent saturates at cap",
			groups: []Group{
				{ID: "a", ParentGroupID: "a"},
			},
			groupID: "a",
			want:    MaxGroupDepth,
		},
		{
			name: "cycle saturates at cap",
			groups: []Group{
				{ID: "a", ParentGroupID: "b"},
				{ID: "b", ParentGroupID: "a"},
			},
			groupID: "a",
			want:    MaxGroupDepth,
		},
		{
			name: "dangling parent stops walk",
			groups: []Group{
				{ID: "a", ParentGroupID: "ghost"},
			},
			groupID: "a",
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Snapshot{Groups: tt.groups}
			if got := s.GroupDepth(tt.groupID); got != tt.want {
				t.Errorf("GroupDepth(%s) = %d, want %d", tt.groupID, got, tt.want)
			}
		})
	}
}

func TestTruncateContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"under limit", "short", 10, "short"},
		{"exactly at limit", "1234567890", 10, "1234567890"},
		{"over limit", "this is a longer note", 10, "this is a ..."},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateContent(tt.content, tt.maxLen); got != tt.want {
				t.Errorf("TruncateContent(%q, %d) = %q, want %q", tt.content, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestContainsKeyword(t *testing.T) {
	if !ContainsKeyword("Budget Planning", "budget") {
		t.Error("ContainsKeyword should be case-insensitive")
	}
	if ContainsKeyword("Budget Planning", "revenue") {
		t.Error("ContainsKeyword matched an absent keyword")
	}
}
