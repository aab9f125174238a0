package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenu(t *testing.T) {
	e := newEnv(t)
	e.seed(t, hamlet(), closed())

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "quit",
			input: "6\n",
			want:  []string{"1. Sync from feed", "6. Quit", "Goodbye."},
		},
		{
			name:  "invalid choice re-prompts",
			input: "9\nabc\n6\n",
			want:  []string{"Invalid choice, please enter a number from 1 to 6."},
		},
		{
			name:  "list all",
			input: "2\n6\n",
			want:  []string{"The Tempest", "Hamlet"},
		},
		{
			name:  "future",
			input: "3\n6\n",
			want:  []string{"Hamlet"},
		},
		{
			name:  "search",
			input: "4\nhamlit\n6\n",
			want:  []string{`No productions match "hamlit".`, "Did you mean: Hamlet?"},
		},
		{
			name:  "end of input quits",
			input: "2\n",
			want:  []string{"Hamlet"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := e.run(t, tt.input)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestMenu_FutureExcludesEnded(t *testing.T) {
	e := newEnv(t)
	e.seed(t, hamlet(), closed())

	out, _, err := e.run(t, "3\n6\n", "menu")
	require.NoError(t, err)
	assert.NotContains(t, out, "The Tempest")
}

func TestMenu_AddManual(t *testing.T) {
	e := newEnv(t)
	input := strings.Join([]string{
		"5",
		"Oz",
		"",
		"2026-02-01",
		"not a date", // re-prompted
		"2026-02-02",
		"", "", "", "",
		"5",
		"Oz",
		"",
		"2026-02-01",
		"2026-02-02",
		"", "", "", "",
		"6",
	}, "\n") + "\n"

	out, _, err := e.run(t, input, "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid date.")
	assert.Contains(t, out, "key '2026-02-01-oz'")
	assert.Contains(t, out, "key '2026-02-01-oz-2'")

	assert.Equal(t, 2, e.load(t).Len())
}

func TestMenu_AddExistingURLAsksToOverwrite(t *testing.T) {
	e := newEnv(t)
	e.seed(t, hamlet())
	url := "https://ctxlivetheatre.com/productions/20260301-hamlet/"
	answers := func(title, overwrite string) []string {
		return []string{"5", title, url, "", "", "", "", "", "", overwrite}
	}
	input := strings.Join(append(append(answers("Declined", "n"), answers("Accepted", "y")...), "6"), "\n") + "\n"

	out, _, err := e.run(t, input, "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "Warning: production already exists: 20260301-hamlet.")
	assert.Contains(t, out, "Not added.")
	assert.Contains(t, out, "Added manual production with key '20260301-hamlet'.")

	store := e.load(t)
	assert.Equal(t, 1, store.Len())
	rec, _ := store.Get("20260301-hamlet")
	assert.Equal(t, "Accepted", rec.Title)
}

func TestMenu_ErrorReturnsToMenu(t *testing.T) {
	e := newEnv(t)
	// end date before start date fails, then the menu continues
	input := "5\nBackwards\n\n2026-03-02\n2026-03-01\n\n\n\n\n6\n"

	out, _, err := e.run(t, input, "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: invalid record: end date 2026-03-01 is before start date 2026-03-02")
	assert.Contains(t, out, "Goodbye.")
	assert.Equal(t, 0, e.load(t).Len())
}

func TestMenu_SyncFailureReturnsToMenu(t *testing.T) {
	e := newEnv(t)
	server := newFeedServer(t)

	out, _, err := e.run(t, "1\n6\n", "menu", "--feed-url", server.URL+"/missing/")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: sync failed")
	assert.Contains(t, out, "Goodbye.")
}
