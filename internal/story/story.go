// Package story pages through short read-aloud stories and tells the
// companion where the reader is.
package story

import (
	"strings"

	"github.com/abhisek/shibl/internal/companion"
)

// Story is a titled list of paragraphs, each a list of short sentences.
type Story struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Paragraphs [][]string `json:"paragraphs"`
}

// ParagraphText joins the sentences of paragraph i for reading aloud.
func (s *Story) ParagraphText(i int) string {
	if i < 0 || i >= len(s.Paragraphs) {
		return ""
	}
	return strings.Join(s.Paragraphs[i], " ")
}

// WordCount returns the number of whitespace-separated words in sentence.
func WordCount(sentence string) int {
	return len(strings.Fields(sentence))
}

// Reader is a paragraph cursor over one story. Every move is reported to
// the companion adapter, which may be nil. It is not safe for concurrent
// use.
type Reader struct {
	story     *Story
	companion *companion.Adapter
	index     int
	done      bool
}

// NewReader creates a reader positioned before the first paragraph is
// announced; call Start to begin.
func NewReader(s *Story, a *companion.Adapter) *Reader {
	return &Reader{story: s, companion: a}
}

// Start rewinds to the first paragraph and reports STORY_STARTED.
func (r *Reader) Start() {
	r.index = 0
	r.done = false
	r.report(companion.StoryStarted)
}

// Story returns the story being read.
func (r *Reader) Story() *Story { return r.story }

// Index returns the current paragraph index.
func (r *Reader) Index() int { return r.index }

// Done reports whether the reader moved past the last paragraph.
func (r *Reader) Done() bool { return r.done }

// Paragraph returns the sentences of the current paragraph.
func (r *Reader) Paragraph() []string {
	if r.index >= len(r.story.Paragraphs) {
		return nil
	}
	return r.story.Paragraphs[r.index]
}

// Next moves to the following paragraph and reports the change. On the
// last paragraph it finishes the story instead, reporting STORY_COMPLETED
// once, and returns false.
func (r *Reader) Next() bool {
	if r.done {
		return false
	}
	if r.index < len(r.story.Paragraphs)-1 {
		r.index++
		r.report(companion.StoryParagraphChanged)
		return true
	}
	r.done = true
	r.report(companion.StoryCompleted)
	return false
}

// Previous moves back one paragraph. Returning to the first paragraph is
// not reported.
func (r *Reader) Previous() bool {
	if r.index == 0 {
		return false
	}
	r.index--
	r.done = false
	if r.index > 0 {
		r.report(companion.StoryParagraphChanged)
	}
	return true
}

func (r *Reader) report(t companion.StoryEventType) {
	if r.companion == nil {
		return
	}
	r.companion.HandleStoryEvent(companion.StoryEvent{
		Type:           t,
		StoryID:        r.story.ID,
		ParagraphIndex: r.index,
	})
}
