package tools

import (
	"encoding/json"
	"fmt"

	"thinkboard-be/pkg/whiteboard"
)

// SearchGroupsTool performs case-insensitive substring matching over
// group names.
type SearchGroupsTool struct{}

type searchGroupsArgs struct {
	Keywords      []string `json:"keywords" validate:"required,min=1,max=5,dive,required"`
	MatchType     string   `json:"match_type" validate:"omitempty,oneof=any all"`
	IncludeNested *bool    `json:"include_nested"`
}

// GroupDetail is a group enriched with contents, hierarchy links and
// nesting depth.
type GroupDetail struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Color       string        `json:"color,omitempty"`
	Depth       int           `json:"depth"`
	Notes       []NotePreview `json:"notes"`
	ChildGroups []GroupRef    `json:"child_groups,omitempty"`
	ParentGroup *GroupRef     `json:"parent_group,omitempty"`
	Children    []GroupDetail `json:"children,omitempty"`
}

type searchGroupsResult struct {
	Results        []GroupDetail `json:"results"`
	TotalMatches   int           `json:"totalMatches"`
	GroupHierarchy []string      `json:"groupHierarchy"`
}

func (t *SearchGroupsTool) Name() string { return "search_groups" }

func (t *SearchGroupsTool) Description() string {
	return "Search groups by keywords (case-insensitive substring match on group names). " +
		"Each result includes contained notes, child groups, parent group and nesting depth."
}

func (t *SearchGroupsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"keywords": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"minItems":    1,
				"maxItems":    5,
				"description": "Keywords to search for in group names",
			},
			"match_type": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"any", "all"},
				"description": "Whether a group must match any keyword (default) or all of them",
			},
			"include_nested": map[string]interface{}{
				"type":        "boolean",
				"description": "Include child group references in each result (default true)",
			},
		},
		"required": []string{"keywords"},
	}
}

func (t *SearchGroupsTool) Execute(snapshot *whiteboard.Snapshot, args json.RawMessage) (interface{}, error) {
	var params searchGroupsArgs
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	if params.MatchType == "" {
		params.MatchType = "any"
	}
	includeNested := boolOrDefault(params.IncludeNested, true)

	results := []GroupDetail{}
	hierarchy := []string{}
	for i := range snapshot.Groups {
		group := &snapshot.Groups[i]
		if !matchContent(group.Name, params.Keywords, params.MatchType) {
			continue
		}
		detail := buildGroupDetail(snapshot, group, includeNested)
		results = append(results, detail)
		hierarchy = append(hierarchy, fmt.Sprintf("%s (depth %d, %d notes)", group.Name, detail.Depth, len(detail.Notes)))
	}

	return searchGroupsResult{
		Results:        results,
		TotalMatches:   len(results),
		GroupHierarchy: hierarchy,
	}, nil
}

func buildGroupDetail(s *whiteboard.Snapshot, group *whiteboard.Group, includeChildren bool) GroupDetail {
	detail := GroupDetail{
		ID:    group.ID,
		Name:  group.Name,
		Color: group.Color,
		Depth: s.GroupDepth(group.ID),
		Notes: []NotePreview{},
	}

	// Dangling note ids are skipped, not errored
	for _, nid := range group.NoteIDs {
		if note := s.NoteByID(nid); note != nil {
			detail.Notes = append(detail.Notes, NotePreview{
				ID:      note.ID,
				Content: whiteboard.TruncateContent(note.Content, connectedContentLen),
			})
		}
	}

	if includeChildren {
		for _, child := range s.ChildGroups(group.ID) {
			detail.ChildGroups = append(detail.ChildGroups, GroupRef{ID: child.ID, Name: child.Name})
		}
	}

	if group.ParentGroupID != "" {
		if parent := s.GroupByID(group.ParentGroupID); parent != nil {
			detail.ParentGroup = &GroupRef{ID: parent.ID, Name: parent.Name}
		}
	}

	return detail
}
