package bahee

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateHeader(ctx context.Context, header *Header) error
	GetHeader(ctx context.Context, ownerID, id string) (*Header, error)
	FindHeaderByName(ctx context.Context, ownerID string, category Category, nameKey string) (*Header, error)
	ListHeaders(ctx context.Context, ownerID string, filter HeaderFilter) ([]Header, error)
	UpdateHeader(ctx context.Context, header *Header) error
	DeleteHeader(ctx context.Context, ownerID, id string) (bool, error)

	CountEntriesByHeader(ctx context.Context, ownerID string, category Category, headerName string) (int64, error)
	// RelinkEntries moves entries from one header name to another within a
	// category and returns how many rows moved.
	RelinkEntries(ctx context.Context, ownerID string, category Category, fromName, toName string) (int64, error)

	CreateEntry(ctx context.Context, entry *Entry) error
	GetEntry(ctx context.Context, ownerID, id string) (*Entry, error)
	ListEntries(ctx context.Context, ownerID string, filter EntryFilter) ([]Entry, int64, error)
	// UpdateUnlockedEntry and DeleteUnlockedEntry only touch rows where
	// locked is false. They report whether a row was affected.
	UpdateUnlockedEntry(ctx context.Context, entry *Entry) (bool, error)
	DeleteUnlockedEntry(ctx context.Context, ownerID, id string) (bool, error)
	// LockEntry is a compare-and-swap of locked from false to true. It
	// returns false when the entry was already locked or does not exist.
	LockEntry(ctx context.Context, ownerID, id string, lockDate time.Time, description string) (bool, error)

	CreateReturnNetLog(ctx context.Context, log *ReturnNetLog) error
	GetReturnNetLog(ctx context.Context, ownerID, entryKey string) (*ReturnNetLog, error)
}
