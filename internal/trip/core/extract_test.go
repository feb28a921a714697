package core

import (
	"testing"
)

func TestExtractJSONObjectWithSurroundingText(t *testing.T) {
	raw, perr := ExtractJSON(`blah blah {"a":1} trailing`, ShapeObject)
	if perr != nil {
		t.Fatalf("ExtractJSON: %v", perr)
	}
	if string(raw) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", raw)
	}
}

func TestExtractJSONNoStructure(t *testing.T) {
	_, perr := ExtractJSON("just some prose with no structure", ShapeObject)
	if perr == nil {
		t.Fatalf("expected error")
	}
	if perr.Kind != NoStructureFound {
		t.Fatalf("expected NoStructureFound, got %s", perr.Kind)
	}
}

func TestExtractJSONMalformed(t *testing.T) {
	_, perr := ExtractJSON("[1,2,", ShapeArray)
	if perr == nil {
		t.Fatalf("expected error")
	}
	if perr.Kind != MalformedJSON {
		t.Fatalf("expected MalformedJSON, got %s", perr.Kind)
	}
	if perr.Snippet == "" {
		t.Fatalf("expected offending snippet to be carried")
	}
}

func TestExtractJSONUnexpectedShape(t *testing.T) {
	_, perr := ExtractJSON(`{"a":1}`, ShapeArray)
	if perr == nil {
		t.Fatalf("expected error")
	}
	if perr.Kind != UnexpectedShape {
		t.Fatalf("expected UnexpectedShape, got %s", perr.Kind)
	}
}

func TestExtractJSONArrayBeforeObject(t *testing.T) {
	raw, perr := ExtractJSON(`note [1,2,3] and {"a":1}`, ShapeArray)
	if perr != nil {
		t.Fatalf("ExtractJSON: %v", perr)
	}
	if string(raw) != "[1,2,3]" {
		t.Fatalf("expected [1,2,3], got %s", raw)
	}
}

func TestExtractJSONSnippetBounded(t *testing.T) {
	long := "{" + string(make([]byte, 4096))
	_, perr := ExtractJSON(long, ShapeObject)
	if perr == nil {
		t.Fatalf("expected error")
	}
	if len(perr.Snippet) > maxSnippetLen {
		t.Fatalf("snippet not bounded: %d bytes", len(perr.Snippet))
	}
}
