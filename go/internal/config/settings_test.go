package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

func TestSettingsValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{name: "defaults", mutate: func(s *Settings) {}},
		{name: "standard draft", mutate: func(s *Settings) { s.DraftType = "standard" }},
		{name: "unknown type", mutate: func(s *Settings) { s.DraftType = "auction" }, wantErr: "unknown draft type"},
		{name: "too few teams", mutate: func(s *Settings) { s.NumTeams = 3 }, wantErr: "number of teams"},
		{name: "too many teams", mutate: func(s *Settings) { s.NumTeams = 21 }, wantErr: "number of teams"},
		{name: "position past last team", mutate: func(s *Settings) { s.DraftPosition = 11 }, wantErr: "draft position"},
		{name: "random ignores position", mutate: func(s *Settings) { s.DraftPosition = 0; s.RandomPosition = true }},
		{name: "roster too small", mutate: func(s *Settings) { s.Lineup.Bench = 0 }, wantErr: "at least 10"},
		{name: "negative slot", mutate: func(s *Settings) { s.Lineup.K = -1 }, wantErr: "negative"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestSettingsResolve(t *testing.T) {
	s := DefaultSettings()
	s.DraftPosition = 4

	spec, params, err := s.Resolve(func(int) int { return 0 })
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRosterSpec(), spec)
	assert.Equal(t, models.DraftParameters{DraftType: models.DraftTypeSnake, NumTeams: 10, UserTeam: 4}, params)

	s.RandomPosition = true
	var asked int
	_, params, err = s.Resolve(func(n int) int {
		asked = n
		return n - 1
	})
	require.NoError(t, err)
	assert.Equal(t, 10, asked)
	assert.Equal(t, 10, params.UserTeam)
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.yaml")
	content := `
draft:
  draft_type: standard
  num_teams: 12
  draft_position: 5
  lineup:
    qb: 2
    bench: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "standard", s.DraftType)
	assert.Equal(t, 12, s.NumTeams)
	assert.Equal(t, 5, s.DraftPosition)
	assert.Equal(t, 2, s.Lineup.QB)
	assert.Equal(t, 4, s.Lineup.Bench)
	assert.Equal(t, 2, s.Lineup.RB, "unset keys keep defaults")
}

func TestLoadSettingsErrors(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("draft:\n  num_teams: 30\n"), 0o600))
	_, err = LoadSettings(path)
	assert.ErrorContains(t, err, "number of teams")
}
