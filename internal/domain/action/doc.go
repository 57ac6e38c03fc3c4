// Package action implements the officiating actions and the protocol that
// applies them to a match.
//
// Every action is a comparable value implementing Action: a pure legality
// predicate and an infallible effect. Apply is the only way actions reach a
// game: it evaluates the predicate against the current context and either
// executes the action or returns an *IllegalActionError leaving the context
// untouched.
//
// The set of actions is closed. Action carries an unexported method so new
// variants can only be added here, next to their predicate and effect.
//
// Callers must serialize Apply calls for one game; the check-then-act sequence
// is not atomic against concurrent writers.
package action
