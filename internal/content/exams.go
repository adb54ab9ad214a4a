package content

import (
	"bytes"
	"fmt"
	"io"

	"github.com/abhisek/shibl/internal/assessment"
	"github.com/abhisek/shibl/internal/story"
)

// DecodeExam reads a category exam or assessment.
func DecodeExam(r io.Reader, source string) (*assessment.Exam, error) {
	raw, err := readAll(r, source)
	if err != nil {
		return nil, err
	}
	var e assessment.Exam
	if err := decode(KindExam, source, raw, &e); err != nil {
		return nil, err
	}
	applyDefaults(e.Activities)
	return &e, nil
}

// LoadExam decodes the exam file at path.
func LoadExam(path string) (*assessment.Exam, error) {
	raw, source, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeExam(bytes.NewReader(raw), source)
}

// DecodeFinalExam reads the final exam. Each category may appear in only
// one section.
func DecodeFinalExam(r io.Reader, source string) (*assessment.FinalExam, error) {
	raw, err := readAll(r, source)
	if err != nil {
		return nil, err
	}
	var f assessment.FinalExam
	if err := decode(KindFinalExam, source, raw, &f); err != nil {
		return nil, err
	}

	seen := make(map[assessment.Category]bool, len(f.Sections))
	for i := range f.Sections {
		c := f.Sections[i].Category
		if seen[c] {
			return nil, &ValidationError{Source: source, Err: fmt.Errorf("category %q has more than one section", c)}
		}
		seen[c] = true
		applyDefaults(f.Sections[i].Activities)
	}
	return &f, nil
}

// LoadFinalExam decodes the final exam file at path.
func LoadFinalExam(path string) (*assessment.FinalExam, error) {
	raw, source, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeFinalExam(bytes.NewReader(raw), source)
}

// DecodeStory reads a story. Paragraphs hold two to four sentences of two
// to four words each.
func DecodeStory(r io.Reader, source string) (*story.Story, error) {
	raw, err := readAll(r, source)
	if err != nil {
		return nil, err
	}
	var s story.Story
	if err := decode(KindStory, source, raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadStory decodes the story file at path.
func LoadStory(path string) (*story.Story, error) {
	raw, source, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeStory(bytes.NewReader(raw), source)
}
