package companion

// State is the companion's current mood state.
type State string

const (
	StateIdle      State = "idle"
	StateIntro     State = "intro"
	StateThinking  State = "thinking"
	StateHappy     State = "happy"
	StateCelebrate State = "celebrate"
	StateSad       State = "sad"
	StateCooldown  State = "cooldown"
)

// Accent is the visual tone associated with a state.
type Accent string

const (
	AccentCalm    Accent = "calm"
	AccentSuccess Accent = "success"
	AccentWarning Accent = "warning"
	AccentInfo    Accent = "info"
)

// Mood is derived from State and never stored. Label is a translation key
// for presentation layers to resolve.
type Mood struct {
	State  State  `json:"state"`
	Label  string `json:"label"`
	Accent Accent `json:"accent"`
}

var labelKeys = map[State]string{
	StateIdle:      "companion.ready",
	StateIntro:     "companion.readyToLearn",
	StateThinking:  "companion.thinking",
	StateHappy:     "companion.greatJob",
	StateCelebrate: "companion.levelComplete",
	StateSad:       "companion.tryAgain",
	StateCooldown:  "companion.cooldown",
}

// LabelKey returns the translation key for s.
func LabelKey(s State) string {
	if key, ok := labelKeys[s]; ok {
		return key
	}
	return labelKeys[StateIdle]
}

// MoodFor maps a state to its mood. Unknown states read as idle.
func MoodFor(s State) Mood {
	switch s {
	case StateIntro, StateThinking:
		return Mood{State: s, Label: LabelKey(s), Accent: AccentInfo}
	case StateHappy, StateCelebrate:
		return Mood{State: s, Label: LabelKey(s), Accent: AccentSuccess}
	case StateSad:
		return Mood{State: s, Label: LabelKey(s), Accent: AccentWarning}
	case StateCooldown:
		return Mood{State: s, Label: LabelKey(s), Accent: AccentCalm}
	default:
		return Mood{State: StateIdle, Label: LabelKey(StateIdle), Accent: AccentCalm}
	}
}
