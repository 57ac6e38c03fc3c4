// Package client implements gc-action, which submits one officiating action.
//
// The command keeps retrying while gc-server is unreachable and stops as soon
// as the server answers: an accepted action exits cleanly and a rejected one
// is reported as an error.
package client
