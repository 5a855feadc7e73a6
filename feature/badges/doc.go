// Package badges manages the badge catalog and badge ownership.
//
// Badges are global, not tied to a season. Awards are addressed by username
// and go through the identity resolver, so aliases and near-miss spellings
// land on the right user.
//
// Routes (mounted under /api):
//
//	GET    /badges                            list, filtered by ?name= and ?type=
//	POST   /badges                            create
//	DELETE /badges/:id                        delete with its awards
//	POST   /badges/:id/owners/:username       award
//	DELETE /badges/:id/owners/:username       revoke
//	GET    /badges/users/:username            badges a user owns
package badges
