package story

import (
	"testing"

	"github.com/abhisek/shibl/internal/companion"
)

func threeParagraphs() *Story {
	return &Story{
		ID:    "cat",
		Title: "القطة",
		Paragraphs: [][]string{
			{"هذه قطة", "القطة صغيرة"},
			{"القطة تلعب", "الكرة حمراء"},
			{"القطة نائمة الآن", "تصبح على خير"},
		},
	}
}

type recorder struct {
	moods []companion.Mood
}

func (r *recorder) states() []companion.State {
	out := make([]companion.State, 0, len(r.moods))
	for _, m := range r.moods {
		out = append(out, m.State)
	}
	return out
}

func newRecordedReader(s *Story) (*Reader, *recorder) {
	rec := &recorder{}
	a := companion.NewAdapter(companion.AdapterOptions{
		OnStateChange: func(m companion.Mood) { rec.moods = append(rec.moods, m) },
	})
	return NewReader(s, a), rec
}

func TestReader_ReadThrough(t *testing.T) {
	r, rec := newRecordedReader(threeParagraphs())
	r.Start()

	if got := r.Paragraph()[0]; got != "هذه قطة" {
		t.Errorf("first sentence = %q", got)
	}
	if !r.Next() || !r.Next() {
		t.Fatal("Next should move through the middle paragraphs")
	}
	if r.Index() != 2 || r.Done() {
		t.Fatalf("index = %d, done = %v", r.Index(), r.Done())
	}
	if r.Next() {
		t.Error("Next on the last paragraph should finish, not move")
	}
	if !r.Done() {
		t.Error("reader should be done")
	}
	if r.Next() {
		t.Error("Next after done should be a no-op")
	}

	want := []companion.State{
		companion.StateIntro,
		companion.StateThinking,
		companion.StateThinking,
		companion.StateIdle,
	}
	got := rec.states()
	if len(got) != len(want) {
		t.Fatalf("moods = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mood[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestReader_Previous(t *testing.T) {
	r, rec := newRecordedReader(threeParagraphs())
	r.Start()

	if r.Previous() {
		t.Error("Previous on the first paragraph should do nothing")
	}
	r.Next()
	r.Next()
	n := len(rec.moods)

	if !r.Previous() || r.Index() != 1 {
		t.Fatalf("Previous moved to %d", r.Index())
	}
	if len(rec.moods) != n+1 {
		t.Error("moving back to a middle paragraph should be reported")
	}
	r.Previous()
	if len(rec.moods) != n+1 {
		t.Error("returning to the first paragraph should not be reported")
	}
}

func TestReader_SingleParagraphAndNilCompanion(t *testing.T) {
	s := &Story{ID: "one", Paragraphs: [][]string{{"أنا أقرأ", "أنا سعيد"}}}
	r := NewReader(s, nil)
	r.Start()
	if r.Next() {
		t.Error("single paragraph story has nowhere to move")
	}
	if !r.Done() {
		t.Error("reader should be done")
	}
	r.Start()
	if r.Done() || r.Index() != 0 {
		t.Error("Start should rewind")
	}
}

func TestStoryHelpers(t *testing.T) {
	s := threeParagraphs()
	if got := s.ParagraphText(1); got != "القطة تلعب الكرة حمراء" {
		t.Errorf("ParagraphText = %q", got)
	}
	if got := s.ParagraphText(7); got != "" {
		t.Errorf("ParagraphText out of range = %q", got)
	}

	tests := []struct {
		in   string
		want int
	}{
		{"هذه قطة", 2},
		{"  القطة   نائمة الآن ", 3},
		{"", 0},
	}
	for _, tt := range tests {
		if got := WordCount(tt.in); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
