package lesson

// EventType discriminates lesson events.
type EventType string

const (
	EventLessonStarted   EventType = "LESSON_STARTED"
	EventAnswerSubmitted EventType = "ANSWER_SUBMITTED"
	EventAnswerCorrect   EventType = "ANSWER_CORRECT"
	EventAnswerWrong     EventType = "ANSWER_WRONG"
	EventLessonCompleted EventType = "LESSON_COMPLETED"
	EventLevelCompleted  EventType = "LEVEL_COMPLETED"
	EventThinking        EventType = "THINKING"
)

// IsReaction reports whether the event type is subject to companion
// cooldown throttling.
func (t EventType) IsReaction() bool {
	switch t {
	case EventAnswerCorrect, EventAnswerWrong, EventLevelCompleted:
		return true
	}
	return false
}

// Payload carries the event's identifiers. LessonID is always set. The
// engine populates the rest as follows:
//
//	LESSON_STARTED     ActivityID
//	ANSWER_SUBMITTED   ActivityID, Choice
//	ANSWER_CORRECT     ActivityID, Choice
//	ANSWER_WRONG       ActivityID, Choice
//	LESSON_COMPLETED   ActivityID
//	LEVEL_COMPLETED    ActivityID when the caller knows it
//	THINKING           none
type Payload struct {
	LessonID   string `json:"lessonId"`
	ActivityID string `json:"activityId,omitempty"`
	Choice     string `json:"choice,omitempty"`
}

// Event is an ephemeral lesson event. Events are observed, never stored.
type Event struct {
	Type    EventType `json:"type"`
	Payload Payload   `json:"payload"`
}
