package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/shibl/internal/logger"
	"github.com/abhisek/shibl/internal/storage"
)

// Storage keys for saved results.
const (
	ExamReportKey        = "shibl-exam-report"
	AssessmentSummaryKey = "shibl-assessment-summary"
	FinalExamKey         = "shibl-final-exam"
)

// ExamReport is the latest exam result for one category.
type ExamReport struct {
	Category    Category `json:"category"`
	Rating      Rating   `json:"rating"`
	CompletedAt string   `json:"completedAt"`
}

// ParentReport lists at most one exam report per category.
type ParentReport struct {
	Reports []ExamReport `json:"reports"`
}

// Summary maps each assessed category to its rating.
type Summary map[Category]Rating

// FinalExamResult holds the rating of every graded final exam section.
type FinalExamResult struct {
	Sections map[Category]Rating `json:"sections"`
}

// Reports stores graded results through a storage.KV. Reads never fail:
// missing storage or unreadable values yield empty results, and entries
// with an unknown category or rating are dropped.
type Reports struct {
	kv  storage.KV
	log *logger.Logger
	now func() time.Time
	mu  sync.Mutex
}

// NewReports creates a Reports over kv, which may be nil.
func NewReports(kv storage.KV, log *logger.Logger) *Reports {
	return &Reports{
		kv:  kv,
		log: logger.OrNop(log).With("component", "assessment_reports"),
		now: time.Now,
	}
}

// ExamReports returns every saved exam report.
func (r *Reports) ExamReports(ctx context.Context) ParentReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadExamReports(ctx)
}

// Latest returns the exam report for category.
func (r *Reports) Latest(ctx context.Context, category Category) (ExamReport, bool) {
	for _, rep := range r.ExamReports(ctx).Reports {
		if rep.Category == category {
			return rep, true
		}
	}
	return ExamReport{}, false
}

// SaveExamReport replaces the category's report with rating, stamped with
// the current time.
func (r *Reports) SaveExamReport(ctx context.Context, category Category, rating Rating) (ExamReport, error) {
	rep := ExamReport{
		Category:    category,
		Rating:      rating,
		CompletedAt: r.now().UTC().Format(time.RFC3339),
	}
	if !category.Valid() || !rating.Valid() {
		return rep, fmt.Errorf("invalid exam report %q/%q", category, rating)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.loadExamReports(ctx)
	replaced := false
	for i := range current.Reports {
		if current.Reports[i].Category == category {
			current.Reports[i] = rep
			replaced = true
			break
		}
	}
	if !replaced {
		current.Reports = append(current.Reports, rep)
	}
	return rep, r.write(ctx, ExamReportKey, current)
}

// Summary returns the saved assessment summary.
func (r *Reports) Summary(ctx context.Context) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadSummary(ctx)
}

// SetSummaryRating records rating for category and returns the whole
// updated summary.
func (r *Reports) SetSummaryRating(ctx context.Context, category Category, rating Rating) (Summary, error) {
	if !category.Valid() || !rating.Valid() {
		return nil, fmt.Errorf("invalid assessment rating %q/%q", category, rating)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	summary := r.loadSummary(ctx)
	summary[category] = rating
	return summary, r.write(ctx, AssessmentSummaryKey, summary)
}

// FinalExam returns the saved final exam result, or nil when none is
// saved or no section survives validation.
func (r *Reports) FinalExam(ctx context.Context) *FinalExamResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok := r.read(ctx, FinalExamKey)
	if !ok {
		return nil
	}
	var stored struct {
		Sections map[string]json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.log.Warn("discarding unreadable final exam result", "error", err)
		return nil
	}
	sections := sanitizeRatings(stored.Sections)
	if len(sections) == 0 {
		return nil
	}
	return &FinalExamResult{Sections: sections}
}

// SaveFinalExam overwrites the final exam result.
func (r *Reports) SaveFinalExam(ctx context.Context, sections map[Category]Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(ctx, FinalExamKey, FinalExamResult{Sections: sections})
}

func (r *Reports) loadExamReports(ctx context.Context) ParentReport {
	out := ParentReport{Reports: []ExamReport{}}
	raw, ok := r.read(ctx, ExamReportKey)
	if !ok {
		return out
	}

	var stored struct {
		Reports []json.RawMessage `json:"reports"`
	}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.log.Warn("discarding unreadable exam reports", "error", err)
		return out
	}
	for _, item := range stored.Reports {
		var rep struct {
			Category    Category `json:"category"`
			Rating      Rating   `json:"rating"`
			CompletedAt *string  `json:"completedAt"`
		}
		if err := json.Unmarshal(item, &rep); err != nil {
			continue
		}
		if !rep.Category.Valid() || !rep.Rating.Valid() || rep.CompletedAt == nil {
			continue
		}
		out.Reports = append(out.Reports, ExamReport{
			Category:    rep.Category,
			Rating:      rep.Rating,
			CompletedAt: *rep.CompletedAt,
		})
	}
	return out
}

func (r *Reports) loadSummary(ctx context.Context) Summary {
	raw, ok := r.read(ctx, AssessmentSummaryKey)
	if !ok {
		return Summary{}
	}
	var stored map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.log.Warn("discarding unreadable assessment summary", "error", err)
		return Summary{}
	}
	return sanitizeRatings(stored)
}

// read returns the raw value under key. Storage errors are logged and
// read as absent.
func (r *Reports) read(ctx context.Context, key string) (string, bool) {
	if r.kv == nil {
		return "", false
	}
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		r.log.Warn("reading saved results failed", "key", key, "error", err)
		return "", false
	}
	return raw, ok && raw != ""
}

func (r *Reports) write(ctx context.Context, key string, v any) error {
	if r.kv == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// sanitizeRatings keeps entries whose key is a category and whose value is
// a rating string.
func sanitizeRatings(in map[string]json.RawMessage) map[Category]Rating {
	out := make(map[Category]Rating, len(in))
	for k, v := range in {
		var rating Rating
		if err := json.Unmarshal(v, &rating); err != nil {
			continue
		}
		if c := Category(k); c.Valid() && rating.Valid() {
			out[c] = rating
		}
	}
	return out
}
