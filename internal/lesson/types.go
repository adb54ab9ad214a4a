package lesson

// ActivityType identifies how an activity's answer is judged.
type ActivityType string

const (
	TypeChoose ActivityType = "choose"
	TypeListen ActivityType = "listen"
	TypeBuild  ActivityType = "build"
	TypeMatch  ActivityType = "match"
	TypeReview ActivityType = "review"
)

// KnownActivityTypes returns the supported activity types.
func KnownActivityTypes() []ActivityType {
	return []ActivityType{TypeChoose, TypeListen, TypeBuild, TypeMatch, TypeReview}
}

// Activity is one gradeable prompt/answer unit inside a lesson.
type Activity struct {
	ID      string       `json:"id"`
	Type    ActivityType `json:"type"`
	Prompt  string       `json:"prompt"`
	Choices []string     `json:"choices"`
	Answer  string       `json:"answer"`
	Hint    string       `json:"hint,omitempty"`
	Asset   string       `json:"asset,omitempty"`
}

// Kind returns the activity type, treating an empty type as choose.
func (a Activity) Kind() ActivityType {
	if a.Type == "" {
		return TypeChoose
	}
	return a.Type
}

// Lesson is an ordered, non-empty sequence of activities. Activity order
// defines progression order.
type Lesson struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Objective       string     `json:"objective"`
	Level           int        `json:"level"`
	DurationMinutes int        `json:"durationMinutes"`
	Activities      []Activity `json:"activities"`
}

// LastIndex returns the index of the final activity, or -1 for an empty lesson.
func (l *Lesson) LastIndex() int {
	return len(l.Activities) - 1
}
