package tools

import (
	"encoding/json"
	"testing"

	"thinkboard-be/pkg/whiteboard"
)

func searchSnapshot() *whiteboard.Snapshot {
	return &whiteboard.Snapshot{
		Notes: []whiteboard.Note{
			{ID: "n1", Content: "Budget review for the marketing team"},
			{ID: "n2", Content: "Marketing campaign kickoff"},
			{ID: "n3", Content: "Quarterly budget forecast"},
			{ID: "n4", Content: "Team offsite planning"},
		},
		Groups: []whiteboard.Group{
			{ID: "g1", Name: "Finance", NoteIDs: []string{"n1", "n3"}},
		},
	}
}

func runSearch(t *testing.T, args string) searchNotesResult {
	t.Helper()
	tool := &SearchNotesTool{}
	payload, err := tool.Execute(searchSnapshot(), json.RawMessage(args))
	if err != nil {
		t.Fatalf("Execute(%s) error = %v", args, err)
	}
	return payload.(searchNotesResult)
}

func TestSearchNotesMatchTypes(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		wantIDs []string
	}{
		{
			name:    "any matches union",
			args:    `{"keywords": ["budget", "marketing"], "match_type": "any"}`,
			wantIDs: []string{"n1", "n2", "n3"},
		},
		{
			name:    "all matches intersection",
			args:    `{"keywords": ["budget", "marketing"], "match_type": "all"}`,
			wantIDs: []string{"n1"},
		},
		{
			name:    "match_type defaults to any",
			args:    `{"keywords": ["budget", "marketing"]}`,
			wantIDs: []string{"n1", "n2", "n3"},
		},
		{
			name:    "case insensitive",
			args:    `{"keywords": ["BUDGET"]}`,
			wantIDs: []string{"n1", "n3"},
		},
		{
			name:    "no matches yields empty array",
			args:    `{"keywords": ["nonexistent"]}`,
			wantIDs: []string{},
		},
		{
			name:    "in_group restricts candidates",
			args:    `{"keywords": ["marketing"], "in_group": "g1"}`,
			wantIDs: []string{"n1"},
		},
		{
			name:    "unknown group yields zero candidates",
			args:    `{"keywords": ["budget"], "in_group": "ghost"}`,
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := runSearch(t, tt.args)

			var gotIDs []string
			for _, r := range result.Results {
				gotIDs = append(gotIDs, r.ID)
			}
			if len(gotIDs) != len(tt.wantIDs) {
				t.Fatalf("result ids = %v, want %v", gotIDs, tt.wantIDs)
			}
			for i := range tt.wantIDs {
				if gotIDs[i] != tt.wantIDs[i] {
					t.Errorf("result ids = %v, want %v", gotIDs, tt.wantIDs)
					break
				}
			}
			if result.TotalMatches != len(tt.wantIDs) {
				t.Errorf("TotalMatches = %d, want %d", result.TotalMatches, len(tt.wantIDs))
			}
		})
	}
}

// The all-keyword result set can never contain a note the any-keyword
// set does not.
func TestSearchNotesAllIsSubsetOfAny(t *testing.T) {
	anyResult := runSearch(t, `{"keywords": ["budget", "team"], "match_type": "any"}`)
	allResult := runSearch(t, `{"keywords": ["budget", "team"], "match_type": "all"}`)

	anyIDs := map[string]bool{}
	for _, r := range anyResult.Results {
		anyIDs[r.ID] = true
	}
	for _, r := range allResult.Results {
		if !anyIDs[r.ID] {
			t.Errorf("note %s in 'all' results but not in 'any' results", r.ID)
		}
	}
}

func TestSearchNotesArgumentValidation(t *testing.T) {
	tool := &SearchNotesTool{}

	tests := []struct {
		name string
		args string
	}{
		{"missing keywords", `{}`},
		{"empty keywords", `{"keywords": []}`},
		{"too many keywords", `{"keywords": ["a", "b", "c", "d", "e", "f"]}`},
		{"bad match_type", `{"keywords": ["a"], "match_type": "fuzzy"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tool.Execute(searchSnapshot(), json.RawMessage(tt.args)); err == nil {
				t.Errorf("Execute(%s) expected validation error, got nil", tt.args)
			}
		})
	}
}
