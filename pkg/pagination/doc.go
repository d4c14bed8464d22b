// Package pagination walks a time-windowed feed backwards until it is
// exhausted.
//
// The feed accepts an "until" cursor and returns posts created before it.
// The pager starts at the current time, and after each page moves the cursor
// to the oldest createdAt in that page. An empty page ends the walk.
//
// Example usage:
//
//	pager := pagination.NewPager(service, pagination.DefaultConfig())
//	ids, err := pager.CollectIDs(ctx)
//
// The pager:
//   - Issues exactly one request at a time
//   - Keeps ids in the order they were received, duplicates included
//   - Fails on the first fetch error without returning partial results
//   - Stops with ErrCursorStalled when a page does not move the cursor back
package pagination
