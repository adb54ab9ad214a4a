package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLessons = `[
  {"id":"lesson-1","title":"Alif","description":"","objective":"","level":1,"durationMinutes":3,
   "activities":[
     {"id":"a1","prompt":"Pick alif","choices":["ا","ب"],"answer":"ا","hint":"It stands tall"},
     {"id":"a2","prompt":"Pick ba","choices":["ا","ب"],"answer":"ب"}]},
  {"id":"lesson-2","title":"Review","description":"","objective":"","level":1,"durationMinutes":1,
   "activities":[{"id":"r1","type":"review","prompt":"Well done"}]},
  {"id":"lesson-3","title":"Words","description":"","objective":"","level":2,"durationMinutes":2,
   "activities":[{"id":"w1","prompt":"Pick book","choices":["كتاب","قلم"],"answer":"كتاب"}]}
]`

const testExam = `{"id":"exam-letters","category":"letters","title":"Letters exam","description":"","objective":"",
  "durationMinutes":5,"activities":[
    {"id":"q1","prompt":"alif?","choices":["ا","ب"],"answer":"ا"},
    {"id":"q2","prompt":"ba?","choices":["ا","ب"],"answer":"ب"}]}`

const testStory = `{"id":"cat","title":"The cat","paragraphs":[["هذه قطة","القطة صغيرة"],["القطة تلعب","الكرة حمراء"]]}`

type cliEnv struct {
	dir string
	db  string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("SHIBL_STORAGE", "sqlite")
	t.Setenv("SHIBL_LOG_MODE", "off")
	t.Setenv("SHIBL_COOLDOWN", "1400ms")
	return cliEnv{dir: dir, db: filepath.Join(dir, "data", "shibl.db")}
}

func (e cliEnv) write(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

// run executes the root command with every persistent flag set, so no
// value leaks between invocations.
func (e cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	full := append([]string{}, args...)
	full = append(full, "--db", e.db, "--storage", "sqlite", "--log", "off")
	rootCmd.SetArgs(full)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPlay_CompletesLevelAndUnlocksNext(t *testing.T) {
	env := newCLIEnv(t)
	lessons := env.write(t, "lessons.json", testLessons)

	out, err := env.run(t, ":hint\n1\nب\n\n", "play", lessons, "--level", "0", "--lesson", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Hint: It stands tall")
	assert.Contains(t, out, "Lesson complete! Next up: lesson-2")
	assert.Contains(t, out, "You finished every lesson in this level!")
	assert.Contains(t, out, "3 answers, 3 correct")

	out, err = env.run(t, "", "progress", lessons)
	require.NoError(t, err)
	assert.Contains(t, out, "Level 1")
	assert.Contains(t, out, "(completed)")
	assert.Contains(t, out, "(unlocked)")

	// The next play picks level 2 on its own.
	out, err = env.run(t, "كتاب\n", "play", lessons, "--level", "0", "--lesson", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Level 2")
}

func TestPlay_ResumesSavedActivity(t *testing.T) {
	env := newCLIEnv(t)
	lessons := env.write(t, "lessons.json", testLessons)

	_, err := env.run(t, "ا\n:q\n", "play", lessons, "--level", "1", "--lesson", "")
	require.NoError(t, err)

	out, err := env.run(t, ":q\n", "play", lessons, "--level", "1", "--lesson", "")
	require.NoError(t, err)
	assert.Contains(t, out, "activity 2/2")
}

func TestPlay_LockedLevel(t *testing.T) {
	env := newCLIEnv(t)
	lessons := env.write(t, "lessons.json", testLessons)

	_, err := env.run(t, "", "play", lessons, "--level", "2", "--lesson", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")

	_, err = env.run(t, "", "play", lessons, "--level", "1", "--lesson", "lesson-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lesson lesson-2 is locked")
}

func TestReset_ClearsLevel(t *testing.T) {
	env := newCLIEnv(t)
	lessons := env.write(t, "lessons.json", testLessons)

	_, err := env.run(t, "ا\nب\n\n", "play", lessons, "--level", "1", "--lesson", "")
	require.NoError(t, err)

	out, err := env.run(t, "", "reset", lessons, "--level", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Level 1 progress cleared.")

	out, err = env.run(t, "", "progress", lessons)
	require.NoError(t, err)
	assert.NotContains(t, out, "(completed)")
	assert.Contains(t, out, "(locked)")

	_, err = env.run(t, "", "reset", lessons, "--level", "0")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	env := newCLIEnv(t)
	good := env.write(t, "good.json", testLessons)
	bad := env.write(t, "bad.json", `{"id":"x"}`)
	story := env.write(t, "story.json", testStory)

	out, err := env.run(t, "", "validate", good, "--kind", "lessons")
	require.NoError(t, err)
	assert.Contains(t, out, "✓")

	out, err = env.run(t, "", "validate", good, bad, "--kind", "lessons")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files invalid")
	assert.Contains(t, out, "✗ "+bad)

	_, err = env.run(t, "", "validate", story, "--kind", "story")
	require.NoError(t, err)
}

func TestExamAndReport(t *testing.T) {
	env := newCLIEnv(t)
	exam := env.write(t, "exam.json", testExam)

	out, err := env.run(t, "2\n1\n2\n", "exam", exam, "--kind", "exam")
	require.NoError(t, err)
	assert.Contains(t, out, "Letters exam (letters)")
	assert.Contains(t, out, "letters      strong")

	out, err = env.run(t, "", "report")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	var letters string
	for _, l := range lines {
		if strings.HasPrefix(l, "letters") {
			letters = l
		}
	}
	assert.Contains(t, letters, "strong")

	_, err = env.run(t, "", "exam", exam, "--kind", "quiz")
	assert.Error(t, err)
}

func TestStory(t *testing.T) {
	env := newCLIEnv(t)
	story := env.write(t, "story.json", testStory)

	out, err := env.run(t, "\n\n", "story", story)
	require.NoError(t, err)
	assert.Contains(t, out, "هذه قطة")
	assert.Contains(t, out, "الكرة حمراء")
	assert.Contains(t, out, "The end.")
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "shibl (devel)")
}
