package bahee

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"vigat-bahee/internal/domain/tithi"

	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	resolver *tithi.Resolver
	now      func() time.Time
}

func NewService(repo Repository, resolver *tithi.Resolver) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the source of "today" used for date validation.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) CreateHeader(ctx context.Context, input CreateHeaderInput) (*Header, error) {
	category, err := ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}
	name := strings.Join(strings.Fields(input.Name), " ")
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := tithi.ValidateDate(input.Date, s.now()); err != nil {
		return nil, err
	}

	header := Header{
		ID:           uuid.NewString(),
		OwnerID:      input.OwnerID,
		Category:     category,
		CategoryName: category.DisplayName(),
		Name:         name,
		NameKey:      NormalizeName(name),
		Date:         dateOnly(input.Date),
		Tithi:        s.resolver.Resolve(input.Date).Text,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.FindHeaderByName(ctx, header.OwnerID, header.Category, header.NameKey); err == nil {
			return ErrHeaderExists
		} else if !errors.Is(err, ErrHeaderNotFound) {
			return err
		}
		return tx.CreateHeader(ctx, &header)
	})
	if err != nil {
		return nil, err
	}

	return &header, nil
}

func (s *Service) ListHeaders(ctx context.Context, ownerID string, filter HeaderFilter) ([]Header, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	headers, err := s.repo.ListHeaders(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	if headers == nil {
		headers = []Header{}
	}
	return headers, nil
}

func (s *Service) GetHeader(ctx context.Context, ownerID, id string) (*Header, error) {
	return s.repo.GetHeader(ctx, ownerID, id)
}

func (s *Service) UpdateHeader(ctx context.Context, input UpdateHeaderInput) (*Header, error) {
	category, err := ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}
	name := strings.Join(strings.Fields(input.Name), " ")
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := tithi.ValidateDate(input.Date, s.now()); err != nil {
		return nil, err
	}

	var updated Header
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		header, err := tx.GetHeader(ctx, input.OwnerID, input.ID)
		if err != nil {
			return err
		}

		nameKey := NormalizeName(name)
		existing, err := tx.FindHeaderByName(ctx, input.OwnerID, category, nameKey)
		if err == nil && existing.ID != header.ID {
			return ErrHeaderExists
		}
		if err != nil && !errors.Is(err, ErrHeaderNotFound) {
			return err
		}

		linked, err := tx.CountEntriesByHeader(ctx, input.OwnerID, header.Category, header.Name)
		if err != nil {
			return err
		}
		if linked > 0 && category != header.Category {
			return ErrHeaderInUse
		}
		if linked > 0 && name != header.Name {
			if _, err := tx.RelinkEntries(ctx, input.OwnerID, header.Category, header.Name, name); err != nil {
				return err
			}
		}

		header.Category = category
		header.CategoryName = category.DisplayName()
		header.Name = name
		header.NameKey = nameKey
		header.Date = dateOnly(input.Date)
		header.Tithi = s.resolver.Resolve(input.Date).Text
		if err := tx.UpdateHeader(ctx, header); err != nil {
			return err
		}
		updated = *header
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *Service) DeleteHeader(ctx context.Context, ownerID, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		header, err := tx.GetHeader(ctx, ownerID, id)
		if err != nil {
			return err
		}
		linked, err := tx.CountEntriesByHeader(ctx, ownerID, header.Category, header.Name)
		if err != nil {
			return err
		}
		if linked > 0 {
			return ErrHeaderInUse
		}
		deleted, err := tx.DeleteHeader(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrHeaderNotFound
		}
		return nil
	})
}

func (s *Service) CreateEntry(ctx context.Context, input EntryInput) (*Entry, error) {
	entry, err := buildEntry(input)
	if err != nil {
		return nil, err
	}
	entry.ID = uuid.NewString()

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		header, err := tx.FindHeaderByName(ctx, entry.OwnerID, entry.Category, NormalizeName(entry.HeaderName))
		if err != nil {
			return err
		}
		entry.HeaderName = header.Name
		return tx.CreateEntry(ctx, &entry)
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (s *Service) ListEntries(ctx context.Context, ownerID string, filter EntryFilter) ([]Entry, int64, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, 0, ErrInvalidCategory
	}
	filter.HeaderName = strings.TrimSpace(filter.HeaderName)
	filter.Search = strings.TrimSpace(filter.Search)

	entries, total, err := s.repo.ListEntries(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, total, nil
}

// GetEntry returns the entry with its lock state and, for locked entries, the
// return-net record that locked it.
func (s *Service) GetEntry(ctx context.Context, ownerID, id string) (*EntryDetail, error) {
	entry, err := s.repo.GetEntry(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	detail := EntryDetail{Entry: *entry, State: entry.State()}
	if entry.Locked {
		log, err := s.repo.GetReturnNetLog(ctx, ownerID, entry.ID)
		if err != nil && !errors.Is(err, ErrReturnNetNotFound) {
			return nil, err
		}
		detail.ReturnNet = log
	}

	return &detail, nil
}

func (s *Service) UpdateEntry(ctx context.Context, id string, input EntryInput) (*Entry, error) {
	next, err := buildEntry(input)
	if err != nil {
		return nil, err
	}

	var updated Entry
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetEntry(ctx, input.OwnerID, id)
		if err != nil {
			return err
		}
		if current.Locked {
			return ErrEntryLocked
		}

		header, err := tx.FindHeaderByName(ctx, input.OwnerID, next.Category, NormalizeName(next.HeaderName))
		if err != nil {
			return err
		}

		next.ID = current.ID
		next.HeaderName = header.Name
		next.CreatedAt = current.CreatedAt

		ok, err := tx.UpdateUnlockedEntry(ctx, &next)
		if err != nil {
			return err
		}
		if !ok {
			return classifyMissedWrite(ctx, tx, input.OwnerID, id)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *Service) DeleteEntry(ctx context.Context, ownerID, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		ok, err := tx.DeleteUnlockedEntry(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if !ok {
			return classifyMissedWrite(ctx, tx, ownerID, id)
		}
		return nil
	})
}

// Totals reports sums over the requested page and over the whole filtered
// set, ignoring limit and offset for the latter.
func (s *Service) Totals(ctx context.Context, ownerID string, filter EntryFilter) (TotalsResult, error) {
	page, total, err := s.ListEntries(ctx, ownerID, filter)
	if err != nil {
		return TotalsResult{}, err
	}

	all := page
	if filter.Limit > 0 || filter.Offset > 0 {
		unpaged := filter
		unpaged.Limit = 0
		unpaged.Offset = 0
		all, _, err = s.ListEntries(ctx, ownerID, unpaged)
		if err != nil {
			return TotalsResult{}, err
		}
	}

	return TotalsResult{
		Page:  Aggregate(page),
		Grand: Aggregate(all),
		Total: total,
	}, nil
}

// classifyMissedWrite explains a conditional write that touched no rows.
func classifyMissedWrite(ctx context.Context, tx Repository, ownerID, id string) error {
	entry, err := tx.GetEntry(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if entry.Locked {
		return ErrEntryLocked
	}
	return ErrEntryNotFound
}

func buildEntry(input EntryInput) (Entry, error) {
	category, err := ParseCategory(input.Category)
	if err != nil {
		return Entry{}, err
	}

	headerName := strings.TrimSpace(input.HeaderName)
	if headerName == "" {
		return Entry{}, ErrHeaderNameRequired
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Entry{}, ErrNameRequired
	}

	if !validAmount(input.Income) {
		return Entry{}, ErrInvalidAmount
	}

	var amount *float64
	if category.AmountApplicable(input.AmountEnabled) {
		switch {
		case input.Amount != nil:
			if !validAmount(*input.Amount) {
				return Entry{}, ErrInvalidAmount
			}
			value := *input.Amount
			amount = &value
		case category == CategoryOther:
			return Entry{}, ErrAmountRequired
		default:
			zero := 0.0
			amount = &zero
		}
	}

	if input.Income == 0 && (amount == nil || *amount == 0) {
		return Entry{}, ErrEmptyContribution
	}

	return Entry{
		OwnerID:      input.OwnerID,
		Category:     category,
		CategoryName: category.DisplayName(),
		HeaderName:   headerName,
		Caste:        strings.TrimSpace(input.Caste),
		Name:         name,
		FatherName:   strings.TrimSpace(input.FatherName),
		Village:      strings.TrimSpace(input.Village),
		Income:       input.Income,
		Amount:       amount,
	}, nil
}

func validAmount(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0) && value >= 0
}

func dateOnly(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}
