package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ahluxe/internal/journal"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/checkout_happy_path.yaml")
	require.NoError(t, err)

	assert.Equal(t, "checkout_happy_path", s.Name)
	require.Len(t, s.Flow, 4)
	assert.Equal(t, "cart.add", s.Flow[0].Event)
	assert.Equal(t, map[string]any{"product": "black"}, s.Flow[0].Args)
	require.NotNil(t, s.Flow[3].Expect)
	assert.Equal(t, "placed", s.Flow[3].Expect.Outcome)
	assert.Len(t, s.Assertions, 5)
}

func TestLoadScenario_SeedPolicy(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/review_seed_none.yaml")
	require.NoError(t, err)
	assert.Equal(t, journal.SeedNone, s.Seed)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\ndescription: y\nflow:\n  - event: cart.clear\n"), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Empty(t, s.Assertions)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: x\ndescription: y\nflow:\n  - event: cart.clear\nassertion: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			yaml:    "description: y\nflow:\n  - event: cart.clear\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: x\nflow:\n  - event: cart.clear\n",
			wantErr: "description is required",
		},
		{
			name:    "empty flow",
			yaml:    "name: x\ndescription: y\nflow: []\n",
			wantErr: "flow list is required",
		},
		{
			name:    "unknown event",
			yaml:    "name: x\ndescription: y\nflow:\n  - event: cart.explode\n",
			wantErr: `unknown event "cart.explode"`,
		},
		{
			name:    "expect both outcome and error",
			yaml:    "name: x\ndescription: y\nflow:\n  - event: cart.clear\n    expect: {outcome: cleared, error: cart_empty}\n",
			wantErr: "exactly one of outcome and error",
		},
		{
			name:    "bad seed",
			yaml:    "name: x\ndescription: y\nseed: sometimes\nflow:\n  - event: cart.clear\n",
			wantErr: "seed must be",
		},
		{
			name:    "unknown assertion type",
			yaml:    "name: x\ndescription: y\nflow:\n  - event: cart.clear\nassertions:\n  - type: vibes\n",
			wantErr: `unknown assertion type "vibes"`,
		},
		{
			name:    "unknown table",
			yaml:    "name: x\ndescription: y\nflow:\n  - event: cart.clear\nassertions:\n  - type: final_state\n    table: ledger\n    expect: {count: 1}\n",
			wantErr: `unknown table "ledger"`,
		},
		{
			name:    "final_state without expect",
			yaml:    "name: x\ndescription: y\nflow:\n  - event: cart.clear\nassertions:\n  - type: final_state\n    table: cart\n",
			wantErr: "expect is required",
		},
		{
			name:    "trace_order without events",
			yaml:    "name: x\ndescription: y\nflow:\n  - event: cart.clear\nassertions:\n  - type: trace_order\n",
			wantErr: "events list is required",
		},
		{
			name:    "trace_count negative",
			yaml:    "name: x\ndescription: y\nflow:\n  - event: cart.clear\nassertions:\n  - type: trace_count\n    event: cart.clear\n    count: -1\n",
			wantErr: "count must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
