package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Shape is the expected top-level JSON shape of an extracted value.
type Shape int

const (
	ShapeObject Shape = iota
	ShapeArray
)

func (s Shape) String() string {
	if s == ShapeArray {
		return "array"
	}
	return "object"
}

// ParseErrorKind classifies extraction failures.
type ParseErrorKind string

const (
	NoStructureFound ParseErrorKind = "no_structure_found"
	MalformedJSON    ParseErrorKind = "malformed_json"
	UnexpectedShape  ParseErrorKind = "unexpected_shape"
)

// maxSnippetLen bounds the offending slice carried in a ParseError.
const maxSnippetLen = 160

// ParseError reports why a model reply could not be turned into the
// expected structure.
type ParseError struct {
	Kind    ParseErrorKind
	Snippet string
	cause   error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case NoStructureFound:
		return "no JSON structure found in model reply"
	case MalformedJSON:
		return fmt.Sprintf("malformed JSON in model reply: %v (near %q)", e.cause, e.Snippet)
	default:
		return fmt.Sprintf("unexpected JSON shape in model reply (near %q)", e.Snippet)
	}
}

func (e *ParseError) Unwrap() error { return e.cause }

func snippet(s string) string {
	if len(s) > maxSnippetLen {
		return s[:maxSnippetLen]
	}
	return s
}

// ExtractJSON locates the first '{' or '[' in free-form model text,
// decodes the first JSON value starting there and checks its top-level
// shape. It performs no repair beyond the index truncation; callers own
// the fallback path. Deterministic, no side effects.
func ExtractJSON(text string, shape Shape) (json.RawMessage, *ParseError) {
	objIdx := strings.IndexByte(text, '{')
	arrIdx := strings.IndexByte(text, '[')

	start := objIdx
	if start == -1 || (arrIdx != -1 && arrIdx < start) {
		start = arrIdx
	}
	if start == -1 {
		return nil, &ParseError{Kind: NoStructureFound, Snippet: snippet(text)}
	}

	candidate := text[start:]
	dec := json.NewDecoder(strings.NewReader(candidate))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, &ParseError{Kind: MalformedJSON, Snippet: snippet(candidate), cause: err}
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, &ParseError{Kind: MalformedJSON, Snippet: snippet(candidate)}
	}
	got := ShapeObject
	if trimmed[0] == '[' {
		got = ShapeArray
	}
	if got != shape {
		return nil, &ParseError{Kind: UnexpectedShape, Snippet: snippet(trimmed)}
	}
	return raw, nil
}
