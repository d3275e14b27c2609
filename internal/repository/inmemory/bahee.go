package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	baheedomain "vigat-bahee/internal/domain/bahee"
)

// BaheeStore keeps the ledger in process memory. Transactions are serialized
// and undone from a journal when the callback fails.
type BaheeStore struct {
	txMu sync.Mutex

	mu      sync.RWMutex
	seq     int64
	headers map[string]baheedomain.Header
	entries map[string]storedEntry
	logs    map[string]baheedomain.ReturnNetLog
}

type storedEntry struct {
	value baheedomain.Entry
	seq   int64
}

func NewBaheeStore() *BaheeStore {
	return &BaheeStore{
		headers: make(map[string]baheedomain.Header),
		entries: make(map[string]storedEntry),
		logs:    make(map[string]baheedomain.ReturnNetLog),
	}
}

// BaheeRepository is a view over a BaheeStore. The zero journal means writes
// apply directly.
type BaheeRepository struct {
	store   *BaheeStore
	journal *[]func()
}

func NewBaheeRepository(store *BaheeStore) *BaheeRepository {
	return &BaheeRepository{store: store}
}

func (r *BaheeRepository) Transaction(ctx context.Context, fn func(baheedomain.Repository) error) error {
	if r.journal != nil {
		return fn(r)
	}

	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()

	var journal []func()
	if err := fn(&BaheeRepository{store: r.store, journal: &journal}); err != nil {
		r.store.mu.Lock()
		for i := len(journal) - 1; i >= 0; i-- {
			journal[i]()
		}
		r.store.mu.Unlock()
		return err
	}
	return nil
}

// remember must be called with store.mu held.
func (r *BaheeRepository) remember(undo func()) {
	if r.journal != nil {
		*r.journal = append(*r.journal, undo)
	}
}

func (r *BaheeRepository) restoreHeader(id string) func() {
	prev, existed := r.store.headers[id]
	return func() {
		if existed {
			r.store.headers[id] = prev
		} else {
			delete(r.store.headers, id)
		}
	}
}

func (r *BaheeRepository) restoreEntry(id string) func() {
	prev, existed := r.store.entries[id]
	return func() {
		if existed {
			r.store.entries[id] = prev
		} else {
			delete(r.store.entries, id)
		}
	}
}

func (r *BaheeRepository) headerNameTaken(header baheedomain.Header) bool {
	for id, existing := range r.store.headers {
		if id != header.ID &&
			existing.OwnerID == header.OwnerID &&
			existing.Category == header.Category &&
			existing.NameKey == header.NameKey {
			return true
		}
	}
	return false
}

func (r *BaheeRepository) CreateHeader(ctx context.Context, header *baheedomain.Header) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.headerNameTaken(*header) {
		return baheedomain.ErrHeaderExists
	}
	now := time.Now().UTC()
	header.CreatedAt = now
	header.UpdatedAt = now

	r.remember(r.restoreHeader(header.ID))
	r.store.headers[header.ID] = *header
	return nil
}

func (r *BaheeRepository) GetHeader(ctx context.Context, ownerID, id string) (*baheedomain.Header, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	header, ok := r.store.headers[id]
	if !ok || header.OwnerID != ownerID {
		return nil, baheedomain.ErrHeaderNotFound
	}
	return &header, nil
}

func (r *BaheeRepository) FindHeaderByName(ctx context.Context, ownerID string, category baheedomain.Category, nameKey string) (*baheedomain.Header, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, header := range r.store.headers {
		if header.OwnerID == ownerID && header.Category == category && header.NameKey == nameKey {
			found := header
			return &found, nil
		}
	}
	return nil, baheedomain.ErrHeaderNotFound
}

func (r *BaheeRepository) ListHeaders(ctx context.Context, ownerID string, filter baheedomain.HeaderFilter) ([]baheedomain.Header, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	headers := make([]baheedomain.Header, 0)
	for _, header := range r.store.headers {
		if header.OwnerID != ownerID {
			continue
		}
		if filter.Category != "" && header.Category != filter.Category {
			continue
		}
		headers = append(headers, header)
	}
	sort.Slice(headers, func(i, j int) bool {
		if !headers[i].Date.Equal(headers[j].Date) {
			return headers[i].Date.After(headers[j].Date)
		}
		return headers[i].CreatedAt.After(headers[j].CreatedAt)
	})
	return headers, nil
}

func (r *BaheeRepository) UpdateHeader(ctx context.Context, header *baheedomain.Header) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.headers[header.ID]
	if !ok || existing.OwnerID != header.OwnerID {
		return baheedomain.ErrHeaderNotFound
	}
	if r.headerNameTaken(*header) {
		return baheedomain.ErrHeaderExists
	}
	header.CreatedAt = existing.CreatedAt
	header.UpdatedAt = time.Now().UTC()

	r.remember(r.restoreHeader(header.ID))
	r.store.headers[header.ID] = *header
	return nil
}

func (r *BaheeRepository) DeleteHeader(ctx context.Context, ownerID, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	header, ok := r.store.headers[id]
	if !ok || header.OwnerID != ownerID {
		return false, nil
	}
	r.remember(r.restoreHeader(id))
	delete(r.store.headers, id)
	return true, nil
}

func (r *BaheeRepository) CountEntriesByHeader(ctx context.Context, ownerID string, category baheedomain.Category, headerName string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, stored := range r.store.entries {
		entry := stored.value
		if entry.OwnerID == ownerID && entry.Category == category && entry.HeaderName == headerName {
			count++
		}
	}
	return count, nil
}

func (r *BaheeRepository) RelinkEntries(ctx context.Context, ownerID string, category baheedomain.Category, fromName, toName string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var moved int64
	now := time.Now().UTC()
	for id, stored := range r.store.entries {
		entry := stored.value
		if entry.OwnerID != ownerID || entry.Category != category || entry.HeaderName != fromName {
			continue
		}
		r.remember(r.restoreEntry(id))
		stored.value.HeaderName = toName
		stored.value.UpdatedAt = now
		r.store.entries[id] = stored
		moved++
	}
	return moved, nil
}

func (r *BaheeRepository) CreateEntry(ctx context.Context, entry *baheedomain.Entry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.store.seq++

	r.remember(r.restoreEntry(entry.ID))
	r.store.entries[entry.ID] = storedEntry{value: cloneEntry(*entry), seq: r.store.seq}
	return nil
}

func (r *BaheeRepository) GetEntry(ctx context.Context, ownerID, id string) (*baheedomain.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored, ok := r.store.entries[id]
	if !ok || stored.value.OwnerID != ownerID {
		return nil, baheedomain.ErrEntryNotFound
	}
	entry := cloneEntry(stored.value)
	return &entry, nil
}

func (r *BaheeRepository) ListEntries(ctx context.Context, ownerID string, filter baheedomain.EntryFilter) ([]baheedomain.Entry, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]storedEntry, 0)
	for _, stored := range r.store.entries {
		entry := stored.value
		if entry.OwnerID != ownerID {
			continue
		}
		if filter.Category != "" && entry.Category != filter.Category {
			continue
		}
		if filter.HeaderName != "" && entry.HeaderName != filter.HeaderName {
			continue
		}
		if search != "" && !matchesSearch(entry, search) {
			continue
		}
		matched = append(matched, stored)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	total := int64(len(matched))
	start := filter.Offset
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}

	entries := make([]baheedomain.Entry, 0, end-start)
	for _, stored := range matched[start:end] {
		entries = append(entries, cloneEntry(stored.value))
	}
	return entries, total, nil
}

func (r *BaheeRepository) UpdateUnlockedEntry(ctx context.Context, entry *baheedomain.Entry) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.entries[entry.ID]
	if !ok || stored.value.OwnerID != entry.OwnerID || stored.value.Locked {
		return false, nil
	}

	updated := cloneEntry(*entry)
	updated.Locked = false
	updated.LockDate = nil
	updated.LockDescription = ""
	updated.CreatedAt = stored.value.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	entry.UpdatedAt = updated.UpdatedAt

	r.remember(r.restoreEntry(entry.ID))
	r.store.entries[entry.ID] = storedEntry{value: updated, seq: stored.seq}
	return true, nil
}

func (r *BaheeRepository) DeleteUnlockedEntry(ctx context.Context, ownerID, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.entries[id]
	if !ok || stored.value.OwnerID != ownerID || stored.value.Locked {
		return false, nil
	}
	r.remember(r.restoreEntry(id))
	delete(r.store.entries, id)
	return true, nil
}

func (r *BaheeRepository) LockEntry(ctx context.Context, ownerID, id string, lockDate time.Time, description string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.entries[id]
	if !ok || stored.value.OwnerID != ownerID || stored.value.Locked {
		return false, nil
	}

	r.remember(r.restoreEntry(id))
	date := lockDate
	stored.value.Locked = true
	stored.value.LockDate = &date
	stored.value.LockDescription = description
	stored.value.UpdatedAt = time.Now().UTC()
	r.store.entries[id] = stored
	return true, nil
}

func (r *BaheeRepository) CreateReturnNetLog(ctx context.Context, log *baheedomain.ReturnNetLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.logs[log.EntryKey]; exists {
		return baheedomain.ErrConcurrentLockRace
	}
	log.CreatedAt = time.Now().UTC()

	key := log.EntryKey
	r.remember(func() { delete(r.store.logs, key) })
	r.store.logs[key] = *log
	return nil
}

func (r *BaheeRepository) GetReturnNetLog(ctx context.Context, ownerID, entryKey string) (*baheedomain.ReturnNetLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	log, ok := r.store.logs[entryKey]
	if !ok || log.OwnerID != ownerID {
		return nil, baheedomain.ErrReturnNetNotFound
	}
	return &log, nil
}

func matchesSearch(entry baheedomain.Entry, search string) bool {
	for _, field := range []string{entry.Name, entry.FatherName, entry.Village, entry.Caste} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func cloneEntry(entry baheedomain.Entry) baheedomain.Entry {
	cloned := entry
	if entry.Amount != nil {
		amount := *entry.Amount
		cloned.Amount = &amount
	}
	if entry.LockDate != nil {
		date := *entry.LockDate
		cloned.LockDate = &date
	}
	return cloned
}
