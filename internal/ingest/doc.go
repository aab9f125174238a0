// Package ingest syncs the theatre feed into the record store.
//
// A sync fetches the feed, keeps the items tagged with the tracked category
// and, one item at a time, fetches each detail page, parses it and upserts
// the assembled record. A failing item becomes a warning in the Report and
// the sync moves on; only a feed that cannot be fetched or parsed fails the
// whole run, before anything is written.
package ingest
