// Package integrity validates the infrastructure the sync engine relies on.
//
// # Checks Provided
//
//   - Schema: every model's table and columns exist in the connected database.
//   - Storage: the snapshot bucket exists when the archive is enabled.
//   - Data: contracts without a participant, contractors outside their season,
//     seasons bound to an unknown layout and aliases shadowed by a username.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check (supports ?fix=true).
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/data : Runs the data check.
package integrity
