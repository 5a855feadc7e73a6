// Package identity resolves free-text usernames to cross-season users.
//
// Resolution order is exact username (or id), then alias, then fuzzy match
// against every username and alias. Resolution never creates users; the
// dashboard and aid ingestion paths call CreateUser explicitly.
package identity
