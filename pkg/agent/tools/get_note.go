package tools

import (
	"encoding/json"
	"fmt"

	"thinkboard-be/pkg/whiteboard"
)

// GetNoteTool looks up a single note by id.
type GetNoteTool struct{}

type getNoteArgs struct {
	NoteID             string `json:"note_id" validate:"required"`
	IncludeConnections *bool  `json:"include_connections"`
	IncludeGroup       *bool  `json:"include_group"`
}

// getNoteResult carries the miss as a payload field. A missing id is a
// normal outcome for the model, not a failure of the tool.
type getNoteResult struct {
	Note  *NoteDetail `json:"note"`
	Error string      `json:"error,omitempty"`
}

func (t *GetNoteTool) Name() string { return "get_note_by_id" }

func (t *GetNoteTool) Description() string {
	return "Get a single note by id, including its edge connections and owning group. " +
		"Returns note=null with an error message when the id does not exist."
}

func (t *GetNoteTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"note_id": map[string]interface{}{
				"type":        "string",
				"description": "The id of the note to fetch",
			},
			"include_connections": map[string]interface{}{
				"type":        "boolean",
				"description": "Include incoming/outgoing edges (default true)",
			},
			"include_group": map[string]interface{}{
				"type":        "boolean",
				"description": "Include the owning group (default true)",
			},
		},
		"required": []string{"note_id"},
	}
}

func (t *GetNoteTool) Execute(snapshot *whiteboard.Snapshot, args json.RawMessage) (interface{}, error) {
	var params getNoteArgs
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	note := snapshot.NoteByID(params.NoteID)
	if note == nil {
		return getNoteResult{
			Note:  nil,
			Error: fmt.Sprintf("note not found: %s", params.NoteID),
		}, nil
	}

	detail := buildNoteDetail(
		snapshot,
		note,
		boolOrDefault(params.IncludeConnections, true),
		boolOrDefault(params.IncludeGroup, true),
	)
	return getNoteResult{Note: &detail}, nil
}
