package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

// MinRosterSize is the smallest lineup the setup screen accepts.
const MinRosterSize = 10

// Settings is the draft setup as entered by a user or read from a file.
type Settings struct {
	DraftType      string            `yaml:"draft_type" json:"draft_type"`
	NumTeams       int               `yaml:"num_teams" json:"num_teams"`
	DraftPosition  int               `yaml:"draft_position" json:"draft_position"`
	RandomPosition bool              `yaml:"random_position" json:"random_position"`
	Lineup         models.RosterSpec `yaml:"lineup" json:"lineup"`
}

// DefaultSettings is a 10-team snake draft picking first with the standard lineup.
func DefaultSettings() Settings {
	return Settings{
		DraftType:     "snake",
		NumTeams:      10,
		DraftPosition: 1,
		Lineup:        models.DefaultRosterSpec(),
	}
}

// Validate applies the setup form rules.
func (s Settings) Validate() error {
	if _, err := models.ParseDraftType(s.DraftType); err != nil {
		return err
	}
	if s.NumTeams < models.MinTeams || s.NumTeams > models.MaxTeams {
		return fmt.Errorf("number of teams must be between %d and %d", models.MinTeams, models.MaxTeams)
	}
	if !s.RandomPosition && (s.DraftPosition < 1 || s.DraftPosition > s.NumTeams) {
		return fmt.Errorf("draft position must be between 1 and %d", s.NumTeams)
	}
	if err := s.Lineup.Validate(); err != nil {
		return err
	}
	if s.Lineup.TotalRounds() < MinRosterSize {
		return errors.New("total roster size must be at least 10 players")
	}
	return nil
}

// Resolve validates s and produces engine inputs. When RandomPosition is
// set the user's draft position is 1 + intn(NumTeams).
func (s Settings) Resolve(intn func(n int) int) (models.RosterSpec, models.DraftParameters, error) {
	if err := s.Validate(); err != nil {
		return models.RosterSpec{}, models.DraftParameters{}, err
	}

	draftType, _ := models.ParseDraftType(s.DraftType)
	position := s.DraftPosition
	if s.RandomPosition {
		position = intn(s.NumTeams) + 1
	}

	return s.Lineup, models.DraftParameters{
		DraftType: draftType,
		NumTeams:  s.NumTeams,
		UserTeam:  position,
	}, nil
}

// File is the layout of the optional YAML config file.
type File struct {
	Draft Settings `yaml:"draft"`
}

// LoadSettings reads draft defaults from a YAML file. Keys missing from the
// file keep their DefaultSettings values.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file: %w", err)
	}

	file := File{Draft: DefaultSettings()}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := file.Draft.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid draft settings in %s: %w", path, err)
	}
	return file.Draft, nil
}
