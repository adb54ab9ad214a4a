package assessment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/shibl/internal/storage"
)

func newTestReports(t *testing.T) (*Reports, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	r := NewReports(kv, nil)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC) }
	return r, kv
}

func TestReports_ExamReportUpsert(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestReports(t)

	assert.Empty(t, r.ExamReports(ctx).Reports)

	_, err := r.SaveExamReport(ctx, CategoryLetters, RatingGood)
	require.NoError(t, err)
	_, err = r.SaveExamReport(ctx, CategoryWords, RatingNeedsPractice)
	require.NoError(t, err)
	rep, err := r.SaveExamReport(ctx, CategoryLetters, RatingStrong)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01T10:30:00Z", rep.CompletedAt)

	reports := r.ExamReports(ctx).Reports
	require.Len(t, reports, 2)
	assert.Equal(t, CategoryLetters, reports[0].Category)
	assert.Equal(t, RatingStrong, reports[0].Rating)

	latest, ok := r.Latest(ctx, CategoryWords)
	require.True(t, ok)
	assert.Equal(t, RatingNeedsPractice, latest.Rating)

	_, ok = r.Latest(ctx, CategoryParagraphs)
	assert.False(t, ok)
}

func TestReports_RejectsInvalidReport(t *testing.T) {
	r, _ := newTestReports(t)
	_, err := r.SaveExamReport(context.Background(), "numbers", RatingGood)
	assert.Error(t, err)
	_, err = r.SetSummaryRating(context.Background(), CategoryWords, "meh")
	assert.Error(t, err)
}

func TestReports_SanitizesExamReports(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"garbage", "not json", 0},
		{"array", `[]`, 0},
		{"reports not array", `{"reports":{}}`, 0},
		{"mixed", `{"reports":[
			{"category":"letters","rating":"good","completedAt":"2026-01-01T00:00:00Z"},
			{"category":"numbers","rating":"good","completedAt":"x"},
			{"category":"words","rating":"great","completedAt":"x"},
			{"category":"words","rating":"good"},
			{"category":"words","rating":"good","completedAt":5},
			"junk",
			{"category":"sentences","rating":"strong","completedAt":"2026-01-02T00:00:00Z"}
		]}`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			r, kv := newTestReports(t)
			require.NoError(t, kv.Set(ctx, ExamReportKey, tt.raw))
			assert.Len(t, r.ExamReports(ctx).Reports, tt.want)
		})
	}
}

func TestReports_Summary(t *testing.T) {
	ctx := context.Background()
	r, kv := newTestReports(t)

	assert.Empty(t, r.Summary(ctx))

	s, err := r.SetSummaryRating(ctx, CategoryLetters, RatingStrong)
	require.NoError(t, err)
	assert.Equal(t, Summary{CategoryLetters: RatingStrong}, s)

	s, err = r.SetSummaryRating(ctx, CategorySentences, RatingGood)
	require.NoError(t, err)
	assert.Len(t, s, 2)
	assert.Equal(t, s, r.Summary(ctx))

	require.NoError(t, kv.Set(ctx, AssessmentSummaryKey, `{"letters":"good","colors":"strong","words":3}`))
	assert.Equal(t, Summary{CategoryLetters: RatingGood}, r.Summary(ctx))

	require.NoError(t, kv.Set(ctx, AssessmentSummaryKey, `null`))
	assert.Empty(t, r.Summary(ctx))
}

func TestReports_FinalExam(t *testing.T) {
	ctx := context.Background()
	r, kv := newTestReports(t)

	assert.Nil(t, r.FinalExam(ctx))

	sections := map[Category]Rating{
		CategoryLetters:    RatingStrong,
		CategoryWords:      RatingGood,
		CategorySentences:  RatingNeedsPractice,
		CategoryParagraphs: RatingGood,
	}
	require.NoError(t, r.SaveFinalExam(ctx, sections))
	got := r.FinalExam(ctx)
	require.NotNil(t, got)
	assert.Equal(t, sections, got.Sections)

	require.NoError(t, kv.Set(ctx, FinalExamKey, `{"sections":{"letters":"good","nope":"good","words":"bad"}}`))
	got = r.FinalExam(ctx)
	require.NotNil(t, got)
	assert.Equal(t, map[Category]Rating{CategoryLetters: RatingGood}, got.Sections)

	require.NoError(t, kv.Set(ctx, FinalExamKey, `{"sections":{"nope":"good"}}`))
	assert.Nil(t, r.FinalExam(ctx))

	require.NoError(t, kv.Set(ctx, FinalExamKey, `{"sections":[]}`))
	assert.Nil(t, r.FinalExam(ctx))
}

func TestReports_NilStorage(t *testing.T) {
	ctx := context.Background()
	r := NewReports(nil, nil)

	_, err := r.SaveExamReport(ctx, CategoryLetters, RatingGood)
	require.NoError(t, err)
	require.NoError(t, r.SaveFinalExam(ctx, map[Category]Rating{CategoryWords: RatingGood}))

	assert.Empty(t, r.ExamReports(ctx).Reports)
	assert.Nil(t, r.FinalExam(ctx))
	assert.Empty(t, r.Summary(ctx))
}
