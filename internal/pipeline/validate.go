package pipeline

import (
	"fmt"
	"strings"

	"github.com/quickleads/lead-broker/internal/model"
)

// ValidationError marks a rejected submission. Handlers map it to a
// 400 response naming the offending field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Validate checks the required submission fields. Optional fields
// (move size, timeline, special items) are not checked here; downstream
// stages treat unknown values as defaults.
func Validate(sub *model.Submission) error {
	required := []struct {
		field string
		value string
	}{
		{"name", sub.Name},
		{"email", sub.Email},
		{"move_type", string(sub.MoveType)},
		{"origin_address", sub.OriginAddress},
		{"destination_address", sub.DestinationAddress},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field}
		}
	}
	return nil
}
