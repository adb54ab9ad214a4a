package companion

import (
	"time"

	"github.com/abhisek/shibl/internal/lesson"
)

// StoryEventType identifies a story reader event.
type StoryEventType string

const (
	StoryStarted          StoryEventType = "STORY_STARTED"
	StoryParagraphChanged StoryEventType = "STORY_PARAGRAPH_CHANGED"
	StoryCompleted        StoryEventType = "STORY_COMPLETED"
)

// StoryEvent is reported directly by a story reader, which has no bus.
type StoryEvent struct {
	Type           StoryEventType
	StoryID        string
	ParagraphIndex int
}

// AdapterOptions configures an Adapter. Every field is optional.
type AdapterOptions struct {
	// Bus delivers lesson and exam events. Without it Subscribe is a no-op.
	Bus *lesson.Bus
	// Cooldown overrides DefaultCooldown when positive.
	Cooldown time.Duration
	// OnStateChange is called with the fresh mood after every event.
	OnStateChange func(Mood)
	// Clock overrides time.Now.
	Clock Clock
}

// Adapter feeds one Machine from both bus events and story events and
// reports every resulting mood to a single observer.
type Adapter struct {
	bus      *lesson.Bus
	machine  *Machine
	onChange func(Mood)
}

// NewAdapter creates an adapter around a fresh Machine.
func NewAdapter(opts AdapterOptions) *Adapter {
	return &Adapter{
		bus:      opts.Bus,
		machine:  NewMachine(opts.Cooldown, opts.Clock),
		onChange: opts.OnStateChange,
	}
}

// Subscribe starts listening on the bus and returns the unsubscribe
// function. Without a bus both are no-ops.
func (a *Adapter) Subscribe() func() {
	if a.bus == nil {
		return func() {}
	}
	return a.bus.Subscribe(a.handleLessonEvent)
}

// Mood returns the current mood.
func (a *Adapter) Mood() Mood {
	return a.machine.Mood()
}

// Reset returns the companion to idle and notifies the observer.
func (a *Adapter) Reset() {
	a.machine.Reset()
	a.notify()
}

// HandleStoryEvent translates a story event onto the lesson vocabulary and
// applies it. Unrecognized story events leave the mood unchanged but still
// notify the observer.
func (a *Adapter) HandleStoryEvent(ev StoryEvent) {
	payload := lesson.Payload{LessonID: ev.StoryID}
	switch ev.Type {
	case StoryStarted:
		a.machine.HandleEvent(lesson.Event{Type: lesson.EventLessonStarted, Payload: payload})
	case StoryParagraphChanged:
		a.machine.HandleEvent(lesson.Event{Type: lesson.EventThinking, Payload: payload})
	case StoryCompleted:
		a.machine.HandleEvent(lesson.Event{Type: lesson.EventLessonCompleted, Payload: payload})
	}
	a.notify()
}

func (a *Adapter) handleLessonEvent(ev lesson.Event) {
	a.machine.HandleEvent(ev)
	a.notify()
}

func (a *Adapter) notify() {
	if a.onChange != nil {
		a.onChange(a.machine.Mood())
	}
}
