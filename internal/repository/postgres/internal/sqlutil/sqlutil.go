package sqlutil

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IsUniqueViolation matches gorm's translated duplicate-key error as well as
// the raw SQLite message, which gorm does not translate for the modernc
// driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// LikePattern builds a case-insensitive substring pattern for `LOWER(col) LIKE ? ESCAPE '\'`.
func LikePattern(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(value)) + "%"
}

// ValidID reports whether id can be compared against a uuid column.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
