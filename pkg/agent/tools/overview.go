package tools

import (
	"encoding/json"
	"fmt"
	"sort"

	"thinkboard-be/pkg/whiteboard"
)

// OverviewTool reports aggregate whiteboard statistics.
type OverviewTool struct{}

type overviewArgs struct {
	IncludeTopGroups   *bool `json:"include_top_groups"`
	IncludeRecentNotes *bool `json:"include_recent_notes"`
}

type overviewStats struct {
	NoteCount  int `json:"note_count"`
	GroupCount int `json:"group_count"`
	EdgeCount  int `json:"edge_count"`
	ImageCount int `json:"image_count"`
}

type topGroup struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NoteCount int    `json:"note_count"`
}

type overviewResult struct {
	Stats       overviewStats `json:"stats"`
	TopGroups   []topGroup    `json:"topGroups,omitempty"`
	RecentNotes []NotePreview `json:"recentNotes,omitempty"`
	Summary     string        `json:"summary"`
}

func (t *OverviewTool) Name() string { return "get_whiteboard_overview" }

func (t *OverviewTool) Description() string {
	return "Get aggregate statistics for the whiteboard: entity counts, the five largest groups " +
		"by note count, and optionally the five most recently added notes."
}

func (t *OverviewTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"include_top_groups": map[string]interface{}{
				"type":        "boolean",
				"description": "Include the top 5 groups by note count (default true)",
			},
			"include_recent_notes": map[string]interface{}{
				"type":        "boolean",
				"description": "Include the last 5 notes added to the board (default false)",
			},
		},
	}
}

func (t *OverviewTool) Execute(snapshot *whiteboard.Snapshot, args json.RawMessage) (interface{}, error) {
	var params overviewArgs
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	result := overviewResult{
		Stats: overviewStats{
			NoteCount:  len(snapshot.Notes),
			GroupCount: len(snapshot.Groups),
			EdgeCount:  len(snapshot.Edges),
			ImageCount: len(snapshot.Images),
		},
		Summary: fmt.Sprintf("The whiteboard contains %d notes, %d groups, %d edges and %d images.",
			len(snapshot.Notes), len(snapshot.Groups), len(snapshot.Edges), len(snapshot.Images)),
	}

	if boolOrDefault(params.IncludeTopGroups, true) {
		groups := make([]topGroup, 0, len(snapshot.Groups))
		for _, g := range snapshot.Groups {
			groups = append(groups, topGroup{ID: g.ID, Name: g.Name, NoteCount: len(g.NoteIDs)})
		}
		// Stable sort keeps snapshot order between equal-sized groups,
		// which keeps the tool deterministic.
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].NoteCount > groups[j].NoteCount
		})
		if len(groups) > 5 {
			groups = groups[:5]
		}
		result.TopGroups = groups
	}

	if boolOrDefault(params.IncludeRecentNotes, false) {
		// Recency is insertion order (array tail), not timestamps.
		start := len(snapshot.Notes) - 5
		if start < 0 {
			start = 0
		}
		for _, note := range snapshot.Notes[start:] {
			result.RecentNotes = append(result.RecentNotes, NotePreview{
				ID:      note.ID,
				Content: whiteboard.TruncateContent(note.Content, connectedContentLen),
			})
		}
	}

	return result, nil
}
