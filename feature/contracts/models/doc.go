// Package models defines the persisted tables of the season store.
//
// Identity (user, user_alias) and the media cache are cross-season;
// season_user and season_contract are keyed by season id. Uniqueness of
// contract slots is enforced by the idx_season_contract_slot index.
package models
