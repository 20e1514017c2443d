package tools

import (
	"encoding/json"
	"fmt"

	"thinkboard-be/pkg/whiteboard"
)

// SearchNotesTool performs case-insensitive substring matching over
// note content.
type SearchNotesTool struct{}

type searchNotesArgs struct {
	Keywords  []string `json:"keywords" validate:"required,min=1,max=5,dive,required"`
	MatchType string   `json:"match_type" validate:"omitempty,oneof=any all"`
	InGroup   string   `json:"in_group"`
}

type searchNotesResult struct {
	Results       []NoteDetail `json:"results"`
	TotalMatches  int          `json:"totalMatches"`
	SearchSummary string       `json:"searchSummary"`
}

func (t *SearchNotesTool) Name() string { return "search_notes" }

func (t *SearchNotesTool) Description() string {
	return "Search notes by keywords (case-insensitive substring match on content). " +
		"match_type 'any' returns notes matching at least one keyword, 'all' requires every keyword. " +
		"Optionally restrict the search to a group with in_group."
}

func (t *SearchNotesTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"keywords": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"minItems":    1,
				"maxItems":    5,
				"description": "Keywords to search for in note content",
			},
			"match_type": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"any", "all"},
				"description": "Whether a note must match any keyword (default) or all of them",
			},
			"in_group": map[string]interface{}{
				"type":        "string",
				"description": "Optional group id to restrict the search to",
			},
		},
		"required": []string{"keywords"},
	}
}

func (t *SearchNotesTool) Execute(snapshot *whiteboard.Snapshot, args json.RawMessage) (interface{}, error) {
	var params searchNotesArgs
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	if params.MatchType == "" {
		params.MatchType = "any"
	}

	// Restrict candidates to the group's notes first, if requested. An
	// unknown group id just means zero candidates.
	candidates := snapshot.Notes
	if params.InGroup != "" {
		candidates = nil
		if group := snapshot.GroupByID(params.InGroup); group != nil {
			for _, nid := range group.NoteIDs {
				if note := snapshot.NoteByID(nid); note != nil {
					candidates = append(candidates, *note)
				}
			}
		}
	}

	results := []NoteDetail{}
	for i := range candidates {
		if matchContent(candidates[i].Content, params.Keywords, params.MatchType) {
			results = append(results, buildNoteDetail(snapshot, &candidates[i], true, true))
		}
	}

	return searchNotesResult{
		Results:       results,
		TotalMatches:  len(results),
		SearchSummary: fmt.Sprintf("Found %d note(s) matching %v (match_type=%s)", len(results), params.Keywords, params.MatchType),
	}, nil
}

// matchContent applies the any/all keyword policy.
func matchContent(content string, keywords []string, matchType string) bool {
	if matchType == "all" {
		for _, kw := range keywords {
			if !whiteboard.ContainsKeyword(content, kw) {
				return false
			}
		}
		return true
	}
	for _, kw := range keywords {
		if whiteboard.ContainsKeyword(content, kw) {
			return true
		}
	}
	return false
}
