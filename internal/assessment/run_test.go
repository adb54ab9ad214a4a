package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/shibl/internal/lesson"
	"github.com/abhisek/shibl/internal/storage"
)

func activities(prefix string, answers ...string) []lesson.Activity {
	out := make([]lesson.Activity, 0, len(answers))
	for i, a := range answers {
		out = append(out, lesson.Activity{
			ID:      prefix + string(rune('1'+i)),
			Type:    lesson.TypeChoose,
			Choices: []string{a, "x"},
			Answer:  a,
		})
	}
	return out
}

func TestRun_ExamSavesReport(t *testing.T) {
	ctx := context.Background()
	reports := NewReports(storage.NewMemory(), nil)
	bus := lesson.NewBus()
	var types []lesson.EventType
	bus.Subscribe(func(ev lesson.Event) { types = append(types, ev.Type) })

	exam := &Exam{ID: "exam-letters", Category: CategoryLetters, Activities: activities("q", "ا", "ب", "ت")}
	run, err := StartExam(lesson.NewEngine(bus, nil), reports, exam, KindExam)
	if err != nil {
		t.Fatalf("StartExam: %v", err)
	}

	answers := []string{"ا", "x", "ب", "ت"}
	var last Step
	for _, a := range answers {
		if last, err = run.Submit(ctx, a); err != nil {
			t.Fatalf("Submit(%q): %v", a, err)
		}
	}

	if !last.Completed || !run.Finished() {
		t.Fatal("run should be finished")
	}
	if correct, total := run.Score(CategoryLetters); correct != 3 || total != 3 {
		t.Errorf("score = %d/%d, want 3/3", correct, total)
	}
	if got := last.Ratings[CategoryLetters]; got != RatingStrong {
		t.Errorf("rating = %s, want strong", got)
	}
	rep, ok := reports.Latest(ctx, CategoryLetters)
	if !ok || rep.Rating != RatingStrong {
		t.Errorf("saved report = %+v, %v", rep, ok)
	}
	if types[0] != lesson.EventLessonStarted || types[len(types)-1] != lesson.EventLessonCompleted {
		t.Errorf("events = %v", types)
	}

	if _, err := run.Submit(ctx, "ا"); !errors.Is(err, ErrRunFinished) {
		t.Errorf("err = %v, want ErrRunFinished", err)
	}
	if _, ok := run.Current(); ok {
		t.Error("finished run should have no current activity")
	}
}

func TestRun_AssessmentUpdatesSummary(t *testing.T) {
	ctx := context.Background()
	reports := NewReports(storage.NewMemory(), nil)
	if _, err := reports.SetSummaryRating(ctx, CategoryLetters, RatingStrong); err != nil {
		t.Fatal(err)
	}

	exam := &Exam{ID: "assess-words", Category: CategoryWords, Activities: []lesson.Activity{
		{ID: "r1", Type: lesson.TypeReview},
	}}
	run, err := StartExam(lesson.NewEngine(lesson.NewBus(), nil), reports, exam, KindAssessment)
	if err != nil {
		t.Fatal(err)
	}
	if idx, total := run.Position(); idx != 0 || total != 1 {
		t.Errorf("Position = %d/%d", idx, total)
	}
	if _, err := run.Submit(ctx, ""); err != nil {
		t.Fatal(err)
	}

	got := reports.Summary(ctx)
	want := Summary{CategoryLetters: RatingStrong, CategoryWords: RatingStrong}
	if len(got) != len(want) || got[CategoryWords] != RatingStrong || got[CategoryLetters] != RatingStrong {
		t.Errorf("summary = %v, want %v", got, want)
	}
	if _, ok := reports.Latest(ctx, CategoryWords); ok {
		t.Error("assessment should not write an exam report")
	}
}

func TestRun_FinalGradesSections(t *testing.T) {
	ctx := context.Background()
	reports := NewReports(storage.NewMemory(), nil)

	exam := &FinalExam{ID: "final", Sections: []Section{
		{ID: "s1", Category: CategoryLetters, Activities: activities("l", "ا", "ب", "ت", "ث")},
		{ID: "s2", Category: CategoryWords, Activities: activities("w", "a", "b", "c", "d")},
	}}
	run, err := StartFinal(lesson.NewEngine(lesson.NewBus(), nil), reports, exam)
	if err != nil {
		t.Fatal(err)
	}

	// Two words answers are wrong and retried. Wrong attempts do not lower
	// the score.
	answers := []string{"ا", "ب", "ت", "ث", "a", "x", "b", "c", "x", "d"}
	var last Step
	for _, a := range answers {
		if last, err = run.Submit(ctx, a); err != nil {
			t.Fatal(err)
		}
	}
	if !last.Completed {
		t.Fatal("final exam should be complete")
	}
	if c, n := run.Score(CategoryWords); c != 4 || n != 4 {
		t.Errorf("words score = %d/%d", c, n)
	}

	saved := reports.FinalExam(ctx)
	if saved == nil {
		t.Fatal("final exam result not saved")
	}
	if saved.Sections[CategoryLetters] != RatingStrong || saved.Sections[CategoryWords] != RatingStrong {
		t.Errorf("sections = %v", saved.Sections)
	}
}

func TestRun_EmptyExam(t *testing.T) {
	_, err := StartExam(lesson.NewEngine(lesson.NewBus(), nil), nil, &Exam{ID: "empty", Category: CategoryWords}, KindExam)
	if !errors.Is(err, lesson.ErrEmptyLesson) {
		t.Errorf("err = %v, want ErrEmptyLesson", err)
	}
}

func TestRun_RatingsMidway(t *testing.T) {
	ctx := context.Background()
	exam := &Exam{ID: "e", Category: CategorySentences, Activities: activities("s", "a", "b", "c", "d", "e")}
	run, err := StartExam(lesson.NewEngine(lesson.NewBus(), nil), nil, exam, KindExam)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range []string{"a", "b", "c"} {
		if _, err := run.Submit(ctx, a); err != nil {
			t.Fatal(err)
		}
	}
	if got := run.Ratings()[CategorySentences]; got != RatingGood {
		t.Errorf("rating after 3/5 = %s, want good", got)
	}
}
