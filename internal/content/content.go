// Package content decodes lesson, exam and story files. Every document is
// validated against an embedded JSON Schema before it is decoded, and
// activity defaults are filled in.
package content

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "https://shibl.app/schemas/"

// Kind names a content document type.
type Kind string

const (
	KindLessons   Kind = "lessons"
	KindExam      Kind = "exam"
	KindFinalExam Kind = "final-exam"
	KindStory     Kind = "story"
)

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{KindLessons, KindExam, KindFinalExam, KindStory}
}

var schemaFiles = map[Kind]string{
	KindLessons:   "lesson.json",
	KindExam:      "exam.json",
	KindFinalExam: "final_exam.json",
	KindStory:     "story.json",
}

// ValidationError reports a document that does not match its schema or
// cannot be decoded.
type ValidationError struct {
	Source string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid content %s: %v", e.Source, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

var (
	compileOnce sync.Once
	compiled    map[Kind]*jsonschema.Schema
	compileErr  error
)

// schemaFor returns the compiled schema for kind. All schemas are compiled
// together on first use so cross-file references resolve.
func schemaFor(kind Kind) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = compileSchemas()
	})
	if compileErr != nil {
		return nil, compileErr
	}
	s, ok := compiled[kind]
	if !ok {
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
	return s, nil
}

func compileSchemas() (map[Kind]*jsonschema.Schema, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	c := jsonschema.NewCompiler()
	for _, e := range entries {
		raw, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", e.Name(), err)
		}
		if err := c.AddResource(schemaBase+e.Name(), doc); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", e.Name(), err)
		}
	}

	out := make(map[Kind]*jsonschema.Schema, len(schemaFiles))
	for kind, file := range schemaFiles {
		s, err := c.Compile(schemaBase + file)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", file, err)
		}
		out[kind] = s
	}
	return out, nil
}

// validate checks raw against the kind's schema.
func validate(kind Kind, source string, raw []byte) error {
	schema, err := schemaFor(kind)
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ValidationError{Source: source, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := schema.Validate(doc); err != nil {
		return &ValidationError{Source: source, Err: err}
	}
	return nil
}

// decode validates raw and unmarshals it into v.
func decode(kind Kind, source string, raw []byte, v any) error {
	if err := validate(kind, source, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &ValidationError{Source: source, Err: err}
	}
	return nil
}

func readAll(r io.Reader, source string) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return raw, nil
}

func readFile(path string) ([]byte, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read content: %w", err)
	}
	return raw, filepath.Base(path), nil
}

// Validate checks a document of the given kind without keeping the result.
func Validate(kind Kind, r io.Reader, source string) error {
	var err error
	switch kind {
	case KindLessons:
		_, err = DecodeLessons(r, source)
	case KindExam:
		_, err = DecodeExam(r, source)
	case KindFinalExam:
		_, err = DecodeFinalExam(r, source)
	case KindStory:
		_, err = DecodeStory(r, source)
	default:
		err = fmt.Errorf("unknown content kind %q", kind)
	}
	return err
}
