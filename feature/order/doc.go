// Package order groups contract types into display categories.
//
// The output order is the display order. Each category lists literal or
// pattern rules; anything left unclaimed lands in a trailing "Other" group.
package order
