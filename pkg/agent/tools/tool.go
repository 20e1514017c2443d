package tools

import (
	"encoding/json"
	"fmt"

	"thinkboard-be/pkg/whiteboard"

	"github.com/go-playground/validator/v10"
)

// Tool is one read-only query over the whiteboard snapshot. Tools are
// pure: same snapshot and arguments always produce the same payload,
// and nothing is mutated.
type Tool interface {
	Name() string
	Description() string

	// Parameters returns the JSON Schema advertised to the model.
	Parameters() map[string]interface{}

	// Execute runs the query. Domain-level failures (entity not found)
	// are encoded in the returned payload, not in the error; a non-nil
	// error means the arguments did not decode or validate.
	Execute(snapshot *whiteboard.Snapshot, args json.RawMessage) (interface{}, error)
}

// Result of one tool dispatch. Errors are payloads here: the model sees
// {"error": "..."} as a valid (if unhelpful) tool result and decides
// how to react, e.g. by retrying with different arguments.
type Result struct {
	Output  string
	IsError bool
}

var validate = validator.New()

// decodeArgs unmarshals and validates the model-supplied arguments into
// a typed struct at the dispatch boundary. The model's JSON is never
// trusted to satisfy the schema it was given.
func decodeArgs(raw json.RawMessage, target interface{}) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := validate.Struct(target); err != nil {
		return fmt.Errorf("arguments failed validation: %w", err)
	}
	return nil
}

// boolOrDefault resolves optional boolean arguments whose default is
// not the zero value.
func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func errorResult(format string, args ...interface{}) Result {
	payload, _ := json.Marshal(map[string]string{"error": fmt.Sprintf(format, args...)})
	return Result{Output: string(payload), IsError: true}
}
