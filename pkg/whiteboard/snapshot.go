package whiteboard

import "strings"

// Snapshot is the full whiteboard state supplied by the client on every
// agent request. It is never mutated after construction; all lookups are
// read-only and tolerate dangling references (missing ids produce empty
// results, not panics).
type Snapshot struct {
	Notes  []Note  `json:"notes"`
	Groups []Group `json:"groups"`
	Edges  []Edge  `json:"edges"`
	Images []Image `json:"images"`
}

// Note is the atomic content unit on the board.
type Note struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Color   string  `json:"color"`
	GroupID string  `json:"group_id,omitempty"`
}

// Group is a named collection of notes. Groups may nest via ParentGroupID.
type Group struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Color         string   `json:"color"`
	NoteIDs       []string `json:"note_ids"`
	ParentGroupID string   `json:"parent_group_id,omitempty"`
}

// Edge is a directed relation between two notes.
type Edge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Image is a decorative entity. The agent only counts it.
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// MaxGroupDepth caps the parent-group walk. A cyclic group graph
// saturates at this value instead of looping forever.
const MaxGroupDepth = 10

// NoteByID returns the note with the given id, or nil.
func (s *Snapshot) NoteByID(id string) *Note {
	for i := range s.Notes {
		if s.Notes[i].ID == id {
			return &s.Notes[i]
		}
	}
	return nil
}

// GroupByID returns the group with the given id, or nil.
func (s *Snapshot) GroupByID(id string) *Group {
	for i := range s.Groups {
		if s.Groups[i].ID == id {
			return &s.Groups[i]
		}
	}
	return nil
}

// OwningGroup resolves the group a note belongs to: the FIRST group in
// snapshot order whose NoteIDs contains the note. Membership in more
// than one group is structurally possible but not expected; the first
// match wins.
func (s *Snapshot) OwningGroup(noteID string) *Group {
	for i := range s.Groups {
		for _, nid := range s.Groups[i].NoteIDs {
			if nid == noteID {
				return &s.Groups[i]
			}
		}
	}
	return nil
}

// IncomingEdges returns all edges pointing at the note.
func (s *Snapshot) IncomingEdges(noteID string) []Edge {
	var edges []Edge
	for _, e := range s.Edges {
		if e.To == noteID {
			edges = append(edges, e)
		}
	}
	return edges
}

// OutgoingEdges returns all edges originating from the note.
func (s *Snapshot) OutgoingEdges(noteID string) []Edge {
	var edges []Edge
	for _, e := range s.Edges {
		if e.From == noteID {
			edges = append(edges, e)
		}
	}
	return edges
}

// ChildGroups returns the immediate children of a group.
func (s *Snapshot) ChildGroups(groupID string) []Group {
	var children []Group
	for _, g := range s.Groups {
		if g.ParentGroupID == groupID {
			children = append(children, g)
		}
	}
	return children
}

// GroupDepth walks ParentGroupID links upward and returns the nesting
// depth of the group (0 = top level). The walk stops at MaxGroupDepth
// hops so a cyclic or self-referential parent chain saturates instead
// of erroring.
func (s *Snapshot) GroupDepth(groupID string) int {
	depth := 0
	current := s.GroupByID(groupID)
	for current != nil && current.ParentGroupID != "" && depth < MaxGroupDepth {
		depth++
		current = s.GroupByID(current.ParentGroupID)
	}
	return depth
}

// TruncateContent shortens note content for previews, appending an
// ellipsis when cut.
func TruncateContent(content string, maxLen int) string {
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen] + "..."
}

// ContainsKeyword reports case-insensitive substring containment.
func ContainsKeyword(content, keyword string) bool {
	return strings.Contains(strings.ToLower(content), strings.ToLower(keyword))
}
