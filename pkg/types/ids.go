package types

import (
	"strings"

	"github.com/google/uuid"
)

// shortID returns an 8-character hex fragment of a fresh UUID4.
func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// NewIncidentID generates a new incident identifier, e.g. "INC-a1b2c3d4".
func NewIncidentID() string { return "INC-" + shortID() }

// NewFindingID generates a new finding identifier, e.g. "find-a1b2c3d4".
func NewFindingID() string { return "find-" + shortID() }

// NewActionID generates a new action identifier, e.g. "act-a1b2c3d4".
func NewActionID() string { return "act-" + shortID() }

// NewExecutionID generates a new runbook execution identifier.
func NewExecutionID() string { return "exec-" + shortID() }
