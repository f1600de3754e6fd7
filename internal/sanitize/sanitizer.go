// Package sanitize turns untrusted generator replies into lesson content.
package sanitize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"learnos/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// fencePattern matches a reply wrapped in a Markdown code fence with an optional language tag.
var fencePattern = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*[ \t]*\r?\n?(.*?)\\s*```$")

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// LessonSanitizer implements domain.LessonSanitizer.
type LessonSanitizer struct {
	schema *jsonschema.Schema
}

// NewLessonSanitizer compiles domain.LessonSchema (once per process) and returns a sanitizer.
func NewLessonSanitizer() (*LessonSanitizer, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = compileSchema(domain.LessonSchemaName, domain.LessonSchema)
	})
	if compileErr != nil {
		return nil, compileErr
	}
	return &LessonSanitizer{schema: compiledSchema}, nil
}

// Sanitize strips a code fence, parses, checks the required sections and validates
// the reply against the lesson schema. Field contents are returned unmodified.
func (s *LessonSanitizer) Sanitize(raw string) (*domain.LessonContent, error) {
	body := StripCodeFence(raw)

	parsed, err := jsonschema.UnmarshalJSON(strings.NewReader(body))
	if err != nil {
		return nil, domain.NewMalformedOutputError(raw, err)
	}

	if missing := missingSections(parsed); len(missing) > 0 {
		return nil, domain.NewIncompleteStructureError(missing, raw)
	}

	if err := s.schema.Validate(parsed); err != nil {
		return nil, domain.NewInvalidStructureError(raw, err)
	}

	var content domain.LessonContent
	if err := json.Unmarshal([]byte(body), &content); err != nil {
		return nil, domain.NewInvalidStructureError(raw, err)
	}
	return &content, nil
}

// StripCodeFence trims raw and removes a surrounding ``` fence if present.
func StripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

func missingSections(parsed any) []string {
	obj, _ := parsed.(map[string]any)
	var missing []string
	for _, field := range domain.LessonRequiredFields {
		if v, ok := obj[field]; !ok || v == nil {
			missing = append(missing, field)
		}
	}
	return missing
}

func compileSchema(name string, definition map[string]any) (*jsonschema.Schema, error) {
	// jsonschema wants its own JSON value representation, not Go ints.
	defBytes, err := json.Marshal(definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(defBytes)))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	return compiled, nil
}
