package companion

import (
	"testing"
	"time"

	"github.com/abhisek/shibl/internal/lesson"
)

func TestAdapter_BusEventsNotifyObserver(t *testing.T) {
	bus := lesson.NewBus()
	clock := newFakeClock()
	var moods []Mood
	a := NewAdapter(AdapterOptions{
		Bus:           bus,
		Cooldown:      time.Second,
		Clock:         clock.Now,
		OnStateChange: func(m Mood) { moods = append(moods, m) },
	})

	unsubscribe := a.Subscribe()
	bus.Emit(ev(lesson.EventLessonStarted))
	bus.Emit(ev(lesson.EventAnswerSubmitted))
	bus.Emit(ev(lesson.EventAnswerCorrect))

	want := []State{StateIntro, StateThinking, StateHappy}
	if len(moods) != len(want) {
		t.Fatalf("notifications = %d, want %d", len(moods), len(want))
	}
	for i, s := range want {
		if moods[i].State != s {
			t.Errorf("mood[%d] = %s, want %s", i, moods[i].State, s)
		}
	}

	unsubscribe()
	bus.Emit(ev(lesson.EventLessonStarted))
	if len(moods) != len(want) {
		t.Errorf("observer called after unsubscribe")
	}
	if a.Mood().State != StateHappy {
		t.Errorf("mood = %s, want happy", a.Mood().State)
	}
}

func TestAdapter_WithoutBus(t *testing.T) {
	a := NewAdapter(AdapterOptions{})
	unsubscribe := a.Subscribe()
	if unsubscribe == nil {
		t.Fatal("Subscribe returned nil")
	}
	unsubscribe()
	if a.Mood().State != StateIdle {
		t.Errorf("mood = %s, want idle", a.Mood().State)
	}
}

func TestAdapter_StoryEvents(t *testing.T) {
	tests := []struct {
		event StoryEventType
		want  State
	}{
		{StoryStarted, StateIntro},
		{StoryParagraphChanged, StateThinking},
		{StoryCompleted, StateIdle},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			var notified []Mood
			a := NewAdapter(AdapterOptions{OnStateChange: func(m Mood) { notified = append(notified, m) }})
			// Leave idle first so STORY_COMPLETED observably changes state.
			a.HandleStoryEvent(StoryEvent{Type: StoryStarted, StoryID: "s1"})
			a.HandleStoryEvent(StoryEvent{Type: tt.event, StoryID: "s1", ParagraphIndex: 1})

			if a.Mood().State != tt.want {
				t.Errorf("mood = %s, want %s", a.Mood().State, tt.want)
			}
			if len(notified) != 2 {
				t.Errorf("notifications = %d, want 2", len(notified))
			}
		})
	}
}

func TestAdapter_UnknownStoryEventStillNotifies(t *testing.T) {
	var count int
	a := NewAdapter(AdapterOptions{OnStateChange: func(Mood) { count++ }})
	a.HandleStoryEvent(StoryEvent{Type: StoryStarted, StoryID: "s1"})
	a.HandleStoryEvent(StoryEvent{Type: "STORY_BOOKMARKED", StoryID: "s1"})

	if a.Mood().State != StateIntro {
		t.Errorf("mood = %s, want intro (unchanged)", a.Mood().State)
	}
	if count != 2 {
		t.Errorf("notifications = %d, want 2", count)
	}
}

func TestAdapter_ResetNotifies(t *testing.T) {
	bus := lesson.NewBus()
	clock := newFakeClock()
	var last Mood
	a := NewAdapter(AdapterOptions{
		Bus:           bus,
		Cooldown:      time.Second,
		Clock:         clock.Now,
		OnStateChange: func(m Mood) { last = m },
	})
	a.Subscribe()

	bus.Emit(ev(lesson.EventAnswerCorrect))
	bus.Emit(ev(lesson.EventAnswerWrong))
	if last.State != StateCooldown {
		t.Fatalf("mood = %s, want cooldown", last.State)
	}

	a.Reset()
	if last.State != StateIdle || last.Accent != AccentCalm {
		t.Errorf("mood after reset = %+v", last)
	}
}

func TestAdapter_SharesMachineAcrossSources(t *testing.T) {
	bus := lesson.NewBus()
	clock := newFakeClock()
	a := NewAdapter(AdapterOptions{Bus: bus, Cooldown: time.Second, Clock: clock.Now})
	a.Subscribe()

	bus.Emit(ev(lesson.EventAnswerCorrect))
	a.HandleStoryEvent(StoryEvent{Type: StoryParagraphChanged, StoryID: "s1"})
	if a.Mood().State != StateThinking {
		t.Fatalf("mood = %s, want thinking", a.Mood().State)
	}
	// The bus reaction's cooldown still applies.
	bus.Emit(ev(lesson.EventAnswerWrong))
	if a.Mood().State != StateCooldown {
		t.Errorf("mood = %s, want cooldown", a.Mood().State)
	}
}
