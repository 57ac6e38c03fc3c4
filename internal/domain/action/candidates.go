package action

import "github.com/oshokin/game-controller/internal/domain/game"

// Candidates lists every concrete action a referee console can offer for a
// match played with params, in a stable order. Legal evaluates them for button
// enablement.
func Candidates(params *game.Params) []Action {
	actions := []Action{
		Pause{},
		Resume{},
		WaitForReady{},
		WaitForSet{},
		StartPlaying{},
		FinishHalf{},
		SwitchHalf{},
	}

	for _, side := range game.Sides {
		actions = append(actions, Goal{Side: side}, Timeout{Side: side})
	}

	if params == nil {
		return actions
	}

	for _, side := range game.Sides {
		for number := 1; number <= params.PlayersPerTeam; number++ {
			for _, call := range game.Calls() {
				actions = append(actions, Penalize{Side: side, Player: number, Call: call})
			}

			actions = append(actions, Unpenalize{Side: side, Player: number})
		}
	}

	return actions
}
