package tools

import "thinkboard-be/pkg/whiteboard"

// connectedContentLen bounds how much of a connected note's content is
// echoed into enrichments.
const connectedContentLen = 50

// NoteDetail is a note enriched with its edges and owning group.
type NoteDetail struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	Color       string       `json:"color,omitempty"`
	Connections *Connections `json:"connections,omitempty"`
	Group       *GroupRef    `json:"group,omitempty"`
}

type Connections struct {
	Incoming []ConnectedNote `json:"incoming"`
	Outgoing []ConnectedNote `json:"outgoing"`
}

// ConnectedNote is the other endpoint of an edge. Content is truncated;
// dangling edges (endpoint note missing) are skipped silently.
type ConnectedNote struct {
	EdgeID  string `json:"edge_id"`
	NoteID  string `json:"note_id"`
	Content string `json:"content"`
}

type GroupRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NotePreview is a note reduced to a truncated content line.
type NotePreview struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

func buildConnections(s *whiteboard.Snapshot, noteID string) *Connections {
	conns := &Connections{
		Incoming: []ConnectedNote{},
		Outgoing: []ConnectedNote{},
	}
	for _, e := range s.IncomingEdges(noteID) {
		if from := s.NoteByID(e.From); from != nil {
			conns.Incoming = append(conns.Incoming, ConnectedNote{
				EdgeID:  e.ID,
				NoteID:  from.ID,
				Content: whiteboard.TruncateContent(from.Content, connectedContentLen),
			})
		}
	}
	for _, e := range s.OutgoingEdges(noteID) {
		if to := s.NoteByID(e.To); to != nil {
			conns.Outgoing = append(conns.Outgoing, ConnectedNote{
				EdgeID:  e.ID,
				NoteID:  to.ID,
				Content: whiteboard.TruncateContent(to.Content, connectedContentLen),
			})
		}
	}
	return conns
}

func buildGroupRef(s *whiteboard.Snapshot, noteID string) *GroupRef {
	group := s.OwningGroup(noteID)
	if group == nil {
		return nil
	}
	return &GroupRef{ID: group.ID, Name: group.Name}
}

func buildNoteDetail(s *whiteboard.Snapshot, note *whiteboard.Note, includeConnections, includeGroup bool) NoteDetail {
	detail := NoteDetail{
		ID:      note.ID,
		Content: note.Content,
		X:       note.X,
		Y:       note.Y,
		Color:   note.Color,
	}
	if includeConnections {
		detail.Connections = buildConnections(s, note.ID)
	}
	if includeGroup {
		detail.Group = buildGroupRef(s, note.ID)
	}
	return detail
}
