// Package fuzzy scores string similarity for identity and rep matching.
//
// Scores run from 0 to 100. Inputs are normalized (case, accents, spacing)
// before comparison, and the final score is the better of a plain edit
// distance ratio and a word order insensitive ratio.
package fuzzy
