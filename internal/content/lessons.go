package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/abhisek/shibl/internal/lesson"
)

// DecodeLessons reads a single lesson object or an array of lessons and
// returns them sorted by level, then by the number in their id. Lesson ids
// must be unique.
func DecodeLessons(r io.Reader, source string) ([]*lesson.Lesson, error) {
	raw, err := readAll(r, source)
	if err != nil {
		return nil, err
	}

	var docs []json.RawMessage
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, &ValidationError{Source: source, Err: err}
		}
		if len(docs) == 0 {
			return nil, &ValidationError{Source: source, Err: fmt.Errorf("no lessons")}
		}
	} else {
		docs = []json.RawMessage{raw}
	}

	lessons := make([]*lesson.Lesson, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for i, doc := range docs {
		name := source
		if len(docs) > 1 {
			name = fmt.Sprintf("%s[%d]", source, i)
		}
		var l lesson.Lesson
		if err := decode(KindLessons, name, doc, &l); err != nil {
			return nil, err
		}
		if seen[l.ID] {
			return nil, &ValidationError{Source: name, Err: fmt.Errorf("duplicate lesson id %q", l.ID)}
		}
		seen[l.ID] = true
		applyDefaults(l.Activities)
		lessons = append(lessons, &l)
	}

	SortLessons(lessons)
	return lessons, nil
}

// LoadLessons decodes the lessons file at path.
func LoadLessons(path string) ([]*lesson.Lesson, error) {
	raw, source, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeLessons(bytes.NewReader(raw), source)
}

var idNumber = regexp.MustCompile(`\d+`)

// SortLessons orders lessons by level, then by the first number in the id,
// then by id. Ids without a number sort after numbered ones.
func SortLessons(lessons []*lesson.Lesson) {
	slices.SortStableFunc(lessons, func(a, b *lesson.Lesson) int {
		if a.Level != b.Level {
			return a.Level - b.Level
		}
		na, oka := numericID(a.ID)
		nb, okb := numericID(b.ID)
		switch {
		case oka && okb && na != nb:
			if na < nb {
				return -1
			}
			return 1
		case oka && !okb:
			return -1
		case !oka && okb:
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func numericID(id string) (int, bool) {
	m := idNumber.FindString(id)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}

// applyDefaults fills the fields a document may omit.
func applyDefaults(activities []lesson.Activity) {
	for i := range activities {
		if activities[i].Type == "" {
			activities[i].Type = lesson.TypeChoose
		}
		if activities[i].Choices == nil {
			activities[i].Choices = []string{}
		}
	}
}
