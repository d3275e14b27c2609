package bahee

import (
	"context"
	"strings"

	"vigat-bahee/internal/domain/tithi"

	"github.com/google/uuid"
)

// RecordReturnNet writes the return-net record for an entry and locks it.
// Both writes share one transaction, and the lock is a conditional update, so
// of two concurrent calls at most one succeeds. The loser gets ErrEntryLocked
// if it saw the lock on read, or ErrConcurrentLockRace if it lost the swap.
// There is no path back to unlocked.
func (s *Service) RecordReturnNet(ctx context.Context, input ReturnNetInput) (*EntryDetail, error) {
	if !input.Confirmed {
		return nil, ErrMissingConfirmation
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}
	if err := tithi.ValidateDate(date, s.now()); err != nil {
		return nil, err
	}
	date = dateOnly(date)

	var detail EntryDetail
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		entry, err := tx.GetEntry(ctx, input.OwnerID, input.EntryID)
		if err != nil {
			return err
		}
		if entry.Locked {
			return ErrEntryLocked
		}

		swapped, err := tx.LockEntry(ctx, input.OwnerID, entry.ID, date, description)
		if err != nil {
			return err
		}
		if !swapped {
			return ErrConcurrentLockRace
		}

		name := strings.TrimSpace(input.Name)
		if name == "" {
			name = entry.Name
		}
		log := ReturnNetLog{
			ID:          uuid.NewString(),
			EntryKey:    entry.ID,
			OwnerID:     input.OwnerID,
			Category:    entry.Category,
			Name:        name,
			Date:        date,
			Description: description,
			Confirmed:   true,
		}
		if err := tx.CreateReturnNetLog(ctx, &log); err != nil {
			return err
		}

		entry.Locked = true
		entry.LockDate = &date
		entry.LockDescription = description
		detail = EntryDetail{Entry: *entry, State: LockStateLocked, ReturnNet: &log}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &detail, nil
}
