package domain

import "time"

// StatusEntry is one append-only record of a document status change. The
// entry for the creation event carries a nil FromStatus. Entries are never
// updated after insert.
type StatusEntry struct {
	ID         string
	DocumentID string
	FromStatus *DocumentStatus
	ToStatus   DocumentStatus
	Note       string
	ActorID    string
	CreatedAt  time.Time

	// ActorName is resolved on read, not stored.
	ActorName string
}
