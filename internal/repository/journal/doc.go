// Package journal records every action submitted to gc-server in SQLite.
//
// Accepted and rejected actions are both kept so a match can be audited after
// the fact. The schema is created from embedded migrations when the store opens.
package journal
