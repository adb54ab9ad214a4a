// Package assessment grades placement assessments, category exams and the
// final exam, and keeps their latest results.
package assessment

import "slices"

// Category is the skill area an exam measures.
type Category string

const (
	CategoryLetters    Category = "letters"
	CategoryWords      Category = "words"
	CategorySentences  Category = "sentences"
	CategoryParagraphs Category = "paragraphs"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CategoryLetters, CategoryWords, CategorySentences, CategoryParagraphs}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return slices.Contains(Categories(), c)
}

// Rating is a graded result.
type Rating string

const (
	RatingStrong        Rating = "strong"
	RatingGood          Rating = "good"
	RatingNeedsPractice Rating = "needsPractice"
)

// Valid reports whether r is a known rating.
func (r Rating) Valid() bool {
	switch r {
	case RatingStrong, RatingGood, RatingNeedsPractice:
		return true
	}
	return false
}

const (
	strongThreshold = 0.85
	goodThreshold   = 0.60
)

// Grade rates correct answers out of total. An empty exam needs practice.
func Grade(correct, total int) Rating {
	if total <= 0 {
		return RatingNeedsPractice
	}
	ratio := float64(correct) / float64(total)
	switch {
	case ratio >= strongThreshold:
		return RatingStrong
	case ratio >= goodThreshold:
		return RatingGood
	default:
		return RatingNeedsPractice
	}
}
