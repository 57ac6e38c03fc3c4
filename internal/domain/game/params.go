package game

import (
	"errors"
	"fmt"
	"time"
)

// Params are the fixed rules a match is played with.
type Params struct {
	// HalfDuration is the length of each half.
	HalfDuration time.Duration
	// ReadyDuration is how long the ready state lasts before set.
	ReadyDuration time.Duration
	// TimeoutDuration is the length of a team timeout.
	TimeoutDuration time.Duration
	// PenaltyDuration is how long a penalized player stays out.
	PenaltyDuration time.Duration
	// PlayersPerTeam is the number of robots per team.
	PlayersPerTeam int
	// TimeoutsPerHalf is the timeout budget each team gets per half.
	TimeoutsPerHalf uint
}

const (
	// DefaultHalfDuration is the regular half length.
	DefaultHalfDuration = 10 * time.Minute
	// DefaultReadyDuration is the regular ready state length.
	DefaultReadyDuration = 45 * time.Second
	// DefaultTimeoutDuration is the regular team timeout length.
	DefaultTimeoutDuration = 5 * time.Minute
	// DefaultPenaltyDuration is the regular penalty length.
	DefaultPenaltyDuration = 45 * time.Second
	// DefaultPlayersPerTeam is the regular team size.
	DefaultPlayersPerTeam = 7
	// DefaultTimeoutsPerHalf is the regular timeout budget.
	DefaultTimeoutsPerHalf = 1
)

var (
	// errNonPositiveDuration is returned when a duration parameter is zero or negative.
	errNonPositiveDuration = errors.New("duration must be positive")
	// errNoPlayers is returned when a team would have no players.
	errNoPlayers = errors.New("players per team must be positive")
)

// DefaultParams returns the regular competition parameters.
func DefaultParams() *Params {
	return &Params{
		HalfDuration:    DefaultHalfDuration,
		ReadyDuration:   DefaultReadyDuration,
		TimeoutDuration: DefaultTimeoutDuration,
		PenaltyDuration: DefaultPenaltyDuration,
		PlayersPerTeam:  DefaultPlayersPerTeam,
		TimeoutsPerHalf: DefaultTimeoutsPerHalf,
	}
}

// Validate checks that every parameter can be used to run a match.
func (p *Params) Validate() error {
	durations := []struct {
		name  string
		value time.Duration
	}{
		{"half duration", p.HalfDuration},
		{"ready duration", p.ReadyDuration},
		{"timeout duration", p.TimeoutDuration},
		{"penalty duration", p.PenaltyDuration},
	}

	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s %s: %w", d.name, d.value, errNonPositiveDuration)
		}
	}

	if p.PlayersPerTeam <= 0 {
		return errNoPlayers
	}

	return nil
}
