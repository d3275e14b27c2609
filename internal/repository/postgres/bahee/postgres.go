package bahee

import (
	"context"
	"errors"
	"strings"
	"time"

	baheedomain "vigat-bahee/internal/domain/bahee"
	"vigat-bahee/internal/repository/postgres/internal/sqlutil"

	"gorm.io/gorm"
)

// PostgresRepository is the gorm-backed ledger store. Queries avoid
// Postgres-only syntax so the same repository also serves SQLite.
type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(baheedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateHeader(ctx context.Context, header *baheedomain.Header) error {
	if err := r.db.WithContext(ctx).Create(header).Error; err != nil {
		if sqlutil.IsUniqueViolation(err) {
			return baheedomain.ErrHeaderExists
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetHeader(ctx context.Context, ownerID, id string) (*baheedomain.Header, error) {
	if !sqlutil.ValidID(id) {
		return nil, baheedomain.ErrHeaderNotFound
	}
	var header baheedomain.Header
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&header).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, baheedomain.ErrHeaderNotFound
		}
		return nil, err
	}
	return &header, nil
}

func (r *PostgresRepository) FindHeaderByName(ctx context.Context, ownerID string, category baheedomain.Category, nameKey string) (*baheedomain.Header, error) {
	var header baheedomain.Header
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND category = ? AND name_key = ?", ownerID, category, nameKey).
		First(&header).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, baheedomain.ErrHeaderNotFound
		}
		return nil, err
	}
	return &header, nil
}

func (r *PostgresRepository) ListHeaders(ctx context.Context, ownerID string, filter baheedomain.HeaderFilter) ([]baheedomain.Header, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var headers []baheedomain.Header
	if err := query.Order("date desc, created_at desc").Find(&headers).Error; err != nil {
		return nil, err
	}
	return headers, nil
}

func (r *PostgresRepository) UpdateHeader(ctx context.Context, header *baheedomain.Header) error {
	header.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&baheedomain.Header{}).
		Where("id = ? AND owner_id = ?", header.ID, header.OwnerID).
		Updates(map[string]interface{}{
			"category":      header.Category,
			"category_name": header.CategoryName,
			"name":          header.Name,
			"name_key":      header.NameKey,
			"date":          header.Date,
			"tithi":         header.Tithi,
			"updated_at":    header.UpdatedAt,
		})
	if result.Error != nil {
		if sqlutil.IsUniqueViolation(result.Error) {
			return baheedomain.ErrHeaderExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return baheedomain.ErrHeaderNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteHeader(ctx context.Context, ownerID, id string) (bool, error) {
	if !sqlutil.ValidID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).Delete(&baheedomain.Header{}, "owner_id = ? AND id = ?", ownerID, id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CountEntriesByHeader(ctx context.Context, ownerID string, category baheedomain.Category, headerName string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&baheedomain.Entry{}).
		Where("owner_id = ? AND category = ? AND header_name = ?", ownerID, category, headerName).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) RelinkEntries(ctx context.Context, ownerID string, category baheedomain.Category, fromName, toName string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&baheedomain.Entry{}).
		Where("owner_id = ? AND category = ? AND header_name = ?", ownerID, category, fromName).
		Updates(map[string]interface{}{
			"header_name": toName,
			"updated_at":  time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) CreateEntry(ctx context.Context, entry *baheedomain.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *PostgresRepository) GetEntry(ctx context.Context, ownerID, id string) (*baheedomain.Entry, error) {
	if !sqlutil.ValidID(id) {
		return nil, baheedomain.ErrEntryNotFound
	}
	var entry baheedomain.Entry
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, baheedomain.ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresRepository) ListEntries(ctx context.Context, ownerID string, filter baheedomain.EntryFilter) ([]baheedomain.Entry, int64, error) {
	query := r.db.WithContext(ctx).Model(&baheedomain.Entry{}).Where("owner_id = ?", ownerID)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.HeaderName != "" {
		query = query.Where("header_name = ?", filter.HeaderName)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := sqlutil.LikePattern(search)
		query = query.Where(
			`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(father_name) LIKE ? ESCAPE '\' OR LOWER(village) LIKE ? ESCAPE '\' OR LOWER(caste) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern,
		)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at asc, id asc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var entries []baheedomain.Entry
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *PostgresRepository) UpdateUnlockedEntry(ctx context.Context, entry *baheedomain.Entry) (bool, error) {
	if !sqlutil.ValidID(entry.ID) {
		return false, nil
	}
	entry.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&baheedomain.Entry{}).
		Where("id = ? AND owner_id = ? AND locked = ?", entry.ID, entry.OwnerID, false).
		Updates(map[string]interface{}{
			"category":      entry.Category,
			"category_name": entry.CategoryName,
			"header_name":   entry.HeaderName,
			"caste":         entry.Caste,
			"name":          entry.Name,
			"father_name":   entry.FatherName,
			"village":       entry.Village,
			"income":        entry.Income,
			"amount":        entry.Amount,
			"updated_at":    entry.UpdatedAt,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteUnlockedEntry(ctx context.Context, ownerID, id string) (bool, error) {
	if !sqlutil.ValidID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND locked = ?", id, ownerID, false).
		Delete(&baheedomain.Entry{})
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) LockEntry(ctx context.Context, ownerID, id string, lockDate time.Time, description string) (bool, error) {
	if !sqlutil.ValidID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).
		Model(&baheedomain.Entry{}).
		Where("id = ? AND owner_id = ? AND locked = ?", id, ownerID, false).
		Updates(map[string]interface{}{
			"locked":           true,
			"lock_date":        lockDate,
			"lock_description": description,
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) CreateReturnNetLog(ctx context.Context, log *baheedomain.ReturnNetLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		if sqlutil.IsUniqueViolation(err) {
			return baheedomain.ErrConcurrentLockRace
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetReturnNetLog(ctx context.Context, ownerID, entryKey string) (*baheedomain.ReturnNetLog, error) {
	if !sqlutil.ValidID(entryKey) {
		return nil, baheedomain.ErrReturnNetNotFound
	}
	var log baheedomain.ReturnNetLog
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND entry_key = ?", ownerID, entryKey).
		First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, baheedomain.ErrReturnNetNotFound
		}
		return nil, err
	}
	return &log, nil
}
