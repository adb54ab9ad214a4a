package cmd

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/abhisek/shibl/internal/companion"
	"github.com/abhisek/shibl/internal/lesson"
)

// moodText renders companion label keys for the terminal.
var moodText = map[string]string{
	"companion.ready":         "Shibl is ready.",
	"companion.readyToLearn":  "Shibl is ready to learn with you!",
	"companion.thinking":      "Shibl is thinking...",
	"companion.greatJob":      "Great job!",
	"companion.levelComplete": "Level complete! Shibl is celebrating!",
	"companion.tryAgain":      "Not quite. Try again!",
	"companion.cooldown":      "Shibl is catching its breath.",
}

var moodFace = map[companion.State]string{
	companion.StateIdle:      "(-_-)",
	companion.StateIntro:     "(^_^)/",
	companion.StateThinking:  "(o_o)?",
	companion.StateHappy:     "(^o^)",
	companion.StateCelebrate: "\\(^o^)/",
	companion.StateSad:       "(._.)",
	companion.StateCooldown:  "(-.-)",
}

func moodLine(m companion.Mood) string {
	text, ok := moodText[m.Label]
	if !ok {
		text = m.Label
	}
	return fmt.Sprintf("%s %s", moodFace[m.State], text)
}

func printActivity(w io.Writer, l *lesson.Lesson, act lesson.Activity, index int) {
	fmt.Fprintf(w, "\n%s · activity %d/%d\n", l.Title, index+1, len(l.Activities))
	printChoices(w, act)
}

func printChoices(w io.Writer, act lesson.Activity) {
	if act.Prompt != "" {
		fmt.Fprintf(w, "  %s\n", act.Prompt)
	}
	if act.Asset != "" {
		fmt.Fprintf(w, "  [%s]\n", act.Asset)
	}
	if act.Kind() == lesson.TypeReview {
		fmt.Fprintln(w, "  (press Enter to continue)")
		return
	}
	for i, c := range act.Choices {
		fmt.Fprintf(w, "  %d) %s\n", i+1, c)
	}
}

// resolveChoice maps a typed choice number onto the activity's choices.
// Input that already names a choice, or is not a choice number, is
// submitted as typed.
func resolveChoice(act lesson.Activity, input string) string {
	if slices.Contains(act.Choices, input) {
		return input
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(act.Choices) {
		return act.Choices[n-1]
	}
	return input
}

func progressBar(percent int) string {
	const width = 20
	filled := percent * width / 100
	return strings.Repeat("\u2588", filled) + strings.Repeat("\u2591", width-filled)
}
