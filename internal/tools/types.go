// Package tools defines the read-only coursework tools exposed to the
// calling assistant, and the registry they are served from.
//
// Each tool pairs a JSON schema with a handler that validates arguments,
// captures "now" once, runs the aggregation engine, and returns a
// JSON-encoded result.
package tools

import (
	"context"
)

// ToolCategory classifies tools for listing and documentation.
type ToolCategory string

const (
	// CategoryCourses covers course and dashboard listings.
	CategoryCourses ToolCategory = "/courses"

	// CategoryAssignments covers assignment and deadline queries.
	CategoryAssignments ToolCategory = "/assignments"

	// CategoryAnnouncements covers announcement digests.
	CategoryAnnouncements ToolCategory = "/announcements"

	// CategoryGrades covers recently-graded queries.
	CategoryGrades ToolCategory = "/grades"

	// CategorySummary covers the composed summary views.
	CategorySummary ToolCategory = "/summary"
)

// Property describes a single parameter property for JSON schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
}

// ToolSchema defines the JSON schema for tool arguments.
type ToolSchema struct {
	// Required lists parameters that must be provided.
	Required []string `json:"required"`

	// Properties describes each parameter.
	Properties map[string]Property `json:"properties"`
}

// ExecuteFunc is the signature for tool execution. The result string is
// the JSON-encoded tool output.
type ExecuteFunc func(ctx context.Context, args map[string]any) (string, error)

// Tool is one callable coursework query.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string

	// Description explains what the tool does, for the calling
	// assistant.
	Description string

	// Category classifies the tool.
	Category ToolCategory

	// Execute runs the tool with the given arguments.
	Execute ExecuteFunc

	// Schema defines the expected arguments.
	Schema ToolSchema
}

// Validate checks if the tool definition is valid.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	return nil
}
