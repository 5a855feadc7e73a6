// Package media resolves AniList, MyAnimeList and Steam hyperlinks found in
// contract cells to a local metadata cache.
//
// Links are classified while blocks are synced (Index.Link). Unknown ids are
// queued on a Pending set and looked up in one batch per source at the end of
// the pass by Syncer.Sync. Ids the services cannot resolve go to the
// media_no_match table and are not requested again. Rate limited batches are
// retried on the next pass.
package media
