// Package game contains the match context that officiating actions act on.
//
// It defines Game (phase, state, pause flag, timers and team records), the
// immutable Params a match is configured with, and Seek, the timer advancement
// used by the clock loop. Seek honours the pause flag: while a game is paused no
// timer moves.
package game
