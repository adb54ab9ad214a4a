package lesson

import (
	"strings"
	"unicode"
)

// CheckAnswer compares a submitted choice against the activity's answer.
// known is false when the activity type is unrecognized; such activities
// are judged correct so unfamiliar content never blocks the learner.
//
// Rules by type:
// - review: always correct (recap slides carry no real choice)
// - build: equal after removing all whitespace from both sides
// - choose, listen, match: exact equality
func CheckAnswer(activity Activity, choice string) (correct, known bool) {
	switch activity.Kind() {
	case TypeReview:
		return true, true
	case TypeBuild:
		return stripSpace(activity.Answer) == stripSpace(choice), true
	case TypeChoose, TypeListen, TypeMatch:
		return activity.Answer == choice, true
	default:
		return true, false
	}
}

// stripSpace removes every whitespace rune from s.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
