// Package cache provides a small keyed TTL cache with singleflight loading.
//
// Writers that change the underlying data call Invalidate so that the next
// reader rebuilds the entry.
package cache
