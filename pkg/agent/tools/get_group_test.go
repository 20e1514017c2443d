package tools

import (
	"encoding/json"
	"reflect"
	"testing"

	"thinkboard-be/pkg/whiteboard"
)

func groupSnapshot() *whiteboard.Snapshot {
	return &whiteboard.Snapshot{
		Notes: []whiteboard.Note{
			{ID: "n1", Content: "Roadmap draft"},
			{ID: "n2", Content: "Milestone list"},
			{ID: "n3", Content: "Nested note"},
		},
		Groups: []whiteboard.Group{
			{ID: "root", Name: "Planning", NoteIDs: []string{"n1", "n2", "missing"}},
			{ID: "child", Name: "Sprints", ParentGroupID: "root", NoteIDs: []string{"n3"}},
			{ID: "grandchild", Name: "Sprint 1", ParentGroupID: "child"},
		},
	}
}

func runGetGroup(t *testing.T, args string) getGroupResult {
	t.Helper()
	tool := &GetGroupTool{}
	payload, err := tool.Execute(groupSnapshot(), json.RawMessage(args))
	if err != nil {
		t.Fatalf("Execute(%s) error = %v", args, err)
	}
	return payload.(getGroupResult)
}

func TestGetGroupContents(t *testing.T) {
	result := runGetGroup(t, `{"group_id": "root"}`)

	if result.Group == nil {
		t.Fatal("Group = nil, want detail")
	}
	if result.Group.Name != "Planning" || result.Group.Depth != 0 {
		t.Errorf("Group = %+v, want Planning at depth 0", result.Group)
	}
	// The "missing" note id is skipped, not errored.
	if len(result.Group.Notes) != 2 {
		t.Errorf("Notes = %v, want 2 previews", result.Group.Notes)
	}
	if len(result.Group.ChildGroups) != 1 || result.Group.ChildGroups[0].ID != "child" {
		t.Errorf("ChildGroups = %v, want [child]", result.Group.ChildGroups)
	}
	// Default max_depth is 1: children are referenced, not expanded.
	if len(result.Group.Children) != 0 {
		t.Errorf("Children = %v, want none at default depth", result.Group.Children)
	}
}

func TestGetGroupMaxDepthExpansion(t *testing.T) {
	result := runGetGroup(t, `{"group_id": "root", "max_depth": 3}`)

	if len(result.Group.Children) != 1 {
		t.Fatalf("Children = %v, want 1 expanded child", result.Group.Children)
	}
	child := result.Group.Children[0]
	if child.ID != "child" || child.Depth != 1 {
		t.Errorf("child = %+v, want 'child' at depth 1", child)
	}
	if child.ParentGroup == nil || child.ParentGroup.ID != "root" {
		t.Errorf("child.ParentGroup = %v, want root", child.ParentGroup)
	}
	if len(child.Children) != 1 || child.Children[0].ID != "grandchild" {
		t.Errorf("grandchild expansion = %v, want [grandchild]", child.Children)
	}
}

// Reading a group twice from the same snapshot must yield identical
// results; tools never mutate state.
func TestGetGroupIsIdempotent(t *testing.T) {
	first := runGetGroup(t, `{"group_id": "root", "max_depth": 2}`)
	second := runGetGroup(t, `{"group_id": "root", "max_depth": 2}`)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated reads diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestGetGroupMissIsPayload(t *testing.T) {
	result := runGetGroup(t, `{"group_id": "ghost"}`)

	if result.Group != nil {
		t.Errorf("Group = %v, want nil", result.Group)
	}
	if result.Error != "group not found: ghost" {
		t.Errorf("Error = %q, want 'group not found: ghost'", result.Error)
	}
}

func TestGetGroupDepthValidation(t *testing.T) {
	tool := &GetGroupTool{}

	if _, err := tool.Execute(groupSnapshot(), json.RawMessage(`{"group_id": "root", "max_depth": 6}`)); err == nil {
		t.Error("max_depth=6 expected validation error, got nil")
	}
	if _, err := tool.Execute(groupSnapshot(), json.RawMessage(`{"group_id": "root", "max_depth": -1}`)); err == nil {
		t.Error("max_depth=-1 expected validation error, got nil")
	}
}
