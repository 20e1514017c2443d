package tools

import (
	"encoding/json"
	"fmt"

	"thinkboard-be/pkg/whiteboard"
)

// GetGroupTool looks up a single group by id with bounded recursive
// expansion of nested children.
type GetGroupTool struct{}

type getGroupArgs struct {
	GroupID         string `json:"group_id" validate:"required"`
	IncludeContents *bool  `json:"include_contents"`
	IncludeParent   *bool  `json:"include_parent"`
	MaxDepth        int    `json:"max_depth" validate:"omitempty,min=1,max=5"`
}

type getGroupResult struct {
	Group *GroupDetail `json:"group"`
	Error string       `json:"error,omitempty"`
}

func (t *GetGroupTool) Name() string { return "get_group_by_id" }

func (t *GetGroupTool) Description() string {
	return "Get a single group by id, including its notes, parent group and nested child groups " +
		"expanded down to max_depth levels (1-5). Returns group=null with an error message when " +
		"the id does not exist."
}

func (t *GetGroupTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"group_id": map[string]interface{}{
				"type":        "string",
				"description": "The id of the group to fetch",
			},
			"include_contents": map[string]interface{}{
				"type":        "boolean",
				"description": "Include contained notes (default true)",
			},
			"include_parent": map[string]interface{}{
				"type":        "boolean",
				"description": "Include the parent group reference (default true)",
			},
			"max_depth": map[string]interface{}{
				"type":        "integer",
				"minimum":     1,
				"maximum":     5,
				"description": "How many levels of nested child groups to expand (default 1)",
			},
		},
		"required": []string{"group_id"},
	}
}

func (t *GetGroupTool) Execute(snapshot *whiteboard.Snapshot, args json.RawMessage) (interface{}, error) {
	var params getGroupArgs
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	if params.MaxDepth == 0 {
		params.MaxDepth = 1
	}

	group := snapshot.GroupByID(params.GroupID)
	if group == nil {
		return getGroupResult{
			Group: nil,
			Error: fmt.Sprintf("group not found: %s", params.GroupID),
		}, nil
	}

	detail := expandGroup(snapshot, group, params, params.MaxDepth)
	return getGroupResult{Group: &detail}, nil
}

// expandGroup builds the group detail and recursively expands children
// until remaining levels run out. The recursion depth is already
// clamped to 5 by argument validation, so a cyclic child graph cannot
// recurse unboundedly.
func expandGroup(s *whiteboard.Snapshot, group *whiteboard.Group, params getGroupArgs, remaining int) GroupDetail {
	detail := GroupDetail{
		ID:    group.ID,
		Name:  group.Name,
		Color: group.Color,
		Depth: s.GroupDepth(group.ID),
		Notes: []NotePreview{},
	}

	if boolOrDefault(params.IncludeContents, true) {
		for _, nid := range group.NoteIDs {
			if note := s.NoteByID(nid); note != nil {
				detail.Notes = append(detail.Notes, NotePreview{
					ID:      note.ID,
					Content: whiteboard.TruncateContent(note.Content, connectedContentLen),
				})
			}
		}
	}

	if boolOrDefault(params.IncludeParent, true) && group.ParentGroupID != "" {
		if parent := s.GroupByID(group.ParentGroupID); parent != nil {
			detail.ParentGroup = &GroupRef{ID: parent.ID, Name: parent.Name}
		}
	}

	for _, child := range s.ChildGroups(group.ID) {
		detail.ChildGroups = append(detail.ChildGroups, GroupRef{ID: child.ID, Name: child.Name})
		if remaining > 1 {
			childCopy := child
			detail.Children = append(detail.Children, expandGroup(s, &childCopy, params, remaining-1))
		}
	}

	return detail
}
