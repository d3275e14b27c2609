package bahee

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryWedding  Category = "wedding"
	CategoryMuklawa  Category = "muklawa"
	CategoryOdhawani Category = "odhawani"
	CategoryMahera   Category = "mahera"
	CategoryOther    Category = "other"
)

var categoryNames = map[Category]string{
	CategoryWedding:  "विवाह",
	CategoryMuklawa:  "मुकलावा",
	CategoryOdhawani: "ओढावणी",
	CategoryMahera:   "माहेरा",
	CategoryOther:    "अन्य",
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryWedding, CategoryMuklawa, CategoryOdhawani, CategoryMahera, CategoryOther}
}

func ParseCategory(value string) (Category, error) {
	category := Category(strings.ToLower(strings.TrimSpace(value)))
	if !category.Valid() {
		return "", ErrInvalidCategory
	}
	return category, nil
}

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

func (c Category) DisplayName() string {
	return categoryNames[c]
}

// AmountApplicable reports whether the uparnet field is collected for the
// category. For "other" it follows the caller's toggle.
func (c Category) AmountApplicable(amountEnabled bool) bool {
	switch c {
	case CategoryOdhawani, CategoryMahera:
		return false
	case CategoryOther:
		return amountEnabled
	default:
		return true
	}
}

type LockState string

const (
	LockStateUnlocked LockState = "unlocked"
	LockStateLocked   LockState = "locked"
)

type Header struct {
	ID           string    `gorm:"type:uuid;primaryKey" bson:"_id"`
	OwnerID      string    `gorm:"type:uuid;not null;uniqueIndex:ux_bahee_headers_owner_name,priority:1" bson:"owner_id"`
	Category     Category  `gorm:"type:text;not null;uniqueIndex:ux_bahee_headers_owner_name,priority:2" bson:"category"`
	CategoryName string    `gorm:"type:text;not null" bson:"category_name"`
	Name         string    `gorm:"type:text;not null" bson:"name"`
	NameKey      string    `gorm:"type:text;not null;uniqueIndex:ux_bahee_headers_owner_name,priority:3" bson:"name_key"`
	Date         time.Time `gorm:"type:date;not null" bson:"date"`
	Tithi        string    `gorm:"type:text;not null" bson:"tithi"`
	CreatedAt    time.Time `gorm:"autoCreateTime" bson:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" bson:"updated_at"`
}

func (Header) TableName() string {
	return "bahee_headers"
}

type Entry struct {
	ID              string     `gorm:"type:uuid;primaryKey" bson:"_id"`
	OwnerID         string     `gorm:"type:uuid;not null;index:ix_bahee_entries_owner_header,priority:1" bson:"owner_id"`
	Category        Category   `gorm:"type:text;not null;index:ix_bahee_entries_owner_header,priority:2" bson:"category"`
	CategoryName    string     `gorm:"type:text;not null" bson:"category_name"`
	HeaderName      string     `gorm:"type:text;not null;index:ix_bahee_entries_owner_header,priority:3" bson:"header_name"`
	Caste           string     `gorm:"type:text" bson:"caste"`
	Name            string     `gorm:"type:text;not null" bson:"name"`
	FatherName      string     `gorm:"type:text" bson:"father_name"`
	Village         string     `gorm:"type:text" bson:"village"`
	Income          float64    `gorm:"type:numeric(14,2);not null;default:0" bson:"income"`
	Amount          *float64   `gorm:"type:numeric(14,2)" bson:"amount"`
	Locked          bool       `gorm:"not null;default:false" bson:"locked"`
	LockDate        *time.Time `gorm:"type:date" bson:"lock_date"`
	LockDescription string     `gorm:"type:text" bson:"lock_description"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" bson:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" bson:"updated_at"`
}

func (Entry) TableName() string {
	return "bahee_entries"
}

func (e Entry) State() LockState {
	if e.Locked {
		return LockStateLocked
	}
	return LockStateUnlocked
}

// ReturnNetLog records a "वापस डाला गया नेत" against an entry. Writing one
// locks the entry for good.
type ReturnNetLog struct {
	ID          string    `gorm:"type:uuid;primaryKey" bson:"_id"`
	EntryKey    string    `gorm:"type:uuid;not null;uniqueIndex" bson:"entry_key"`
	OwnerID     string    `gorm:"type:uuid;not null" bson:"owner_id"`
	Category    Category  `gorm:"type:text;not null" bson:"category"`
	Name        string    `gorm:"type:text;not null" bson:"name"`
	Date        time.Time `gorm:"type:date;not null" bson:"date"`
	Description string    `gorm:"type:text;not null" bson:"description"`
	Confirmed   bool      `gorm:"not null" bson:"confirmed"`
	CreatedAt   time.Time `gorm:"autoCreateTime" bson:"created_at"`
}

func (ReturnNetLog) TableName() string {
	return "return_net_logs"
}

type EntryDetail struct {
	Entry     Entry
	State     LockState
	ReturnNet *ReturnNetLog
}

type HeaderFilter struct {
	Category Category
}

type EntryFilter struct {
	Category   Category
	HeaderName string
	Search     string
	Limit      int
	Offset     int
}

type CreateHeaderInput struct {
	OwnerID  string
	Category string
	Name     string
	Date     time.Time
}

type UpdateHeaderInput struct {
	OwnerID  string
	ID       string
	Category string
	Name     string
	Date     time.Time
}

type EntryInput struct {
	OwnerID       string
	Category      string
	HeaderName    string
	Caste         string
	Name          string
	FatherName    string
	Village       string
	Income        float64
	Amount        *float64
	AmountEnabled bool
}

type ReturnNetInput struct {
	OwnerID     string
	EntryID     string
	Name        string
	Date        time.Time
	Description string
	Confirmed   bool
}

type Totals struct {
	Income   float64
	Amount   float64
	Combined float64
	Count    int
}

type TotalsResult struct {
	Page  Totals
	Grand Totals
	Total int64
}

// NormalizeName folds a header name for uniqueness checks: trimmed, lower
// case, inner whitespace collapsed.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
