// Package contracts reconciles a season's spreadsheet into the relational
// store.
//
// A Layout describes one season: the ranges to fetch and the ordered block
// procedures that read them. The Engine runs a pass as
// FETCHING -> SYNCING_BLOCKS -> SYNCING_MEDIA -> COMMITTED. Every block of a
// pass shares one transaction and every write is diff-then-write, so a
// second pass over unchanged data writes nothing. Only one pass runs at a
// time; a concurrent caller gets ErrSyncInProgress.
//
// Routes:
//
//	POST /sync/:season                 run a pass now
//	GET  /sync/status                  orchestrator state and last result
//	GET  /seasons                      season catalog and active season
//	GET  /seasons/:season/summary      status counts
//	GET  /users/:username/resolve      identity resolution details
//	GET  /users/:username/contracts    contracts grouped for display
package contracts
