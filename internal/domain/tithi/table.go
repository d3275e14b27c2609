package tithi

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const DateLayout = "2006-01-02"

//go:embed data/tithi_table.toml
var embeddedTable []byte

// Table maps exact Gregorian dates (YYYY-MM-DD) to precomputed descriptors.
type Table struct {
	Version string
	From    string
	To      string
	days    map[string]string
}

type tableFile struct {
	Version string            `toml:"version"`
	From    string            `toml:"from"`
	To      string            `toml:"to"`
	Days    map[string]string `toml:"days"`
}

// DefaultTable returns the table compiled into the binary.
func DefaultTable() (*Table, error) {
	return ParseTable(embeddedTable)
}

func ParseTable(data []byte) (*Table, error) {
	var file tableFile
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}

	table := &Table{
		Version: strings.TrimSpace(file.Version),
		From:    strings.TrimSpace(file.From),
		To:      strings.TrimSpace(file.To),
		days:    make(map[string]string, len(file.Days)),
	}
	for key, value := range file.Days {
		key = strings.TrimSpace(key)
		if _, err := time.Parse(DateLayout, key); err != nil {
			return nil, fmt.Errorf("%w: bad date key %q", ErrInvalidTable, key)
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, fmt.Errorf("%w: empty descriptor for %s", ErrInvalidTable, key)
		}
		table.days[key] = value
	}
	table.refreshRange()

	return table, nil
}

func LoadTableFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tithi table %s: %w", path, err)
	}
	return ParseTable(data)
}

// LoadTable returns the embedded table, extended by the file at extraPath when
// one is given. Entries from the file win over embedded ones.
func LoadTable(extraPath string) (*Table, error) {
	table, err := DefaultTable()
	if err != nil {
		return nil, err
	}

	extraPath = strings.TrimSpace(extraPath)
	if extraPath == "" {
		return table, nil
	}

	extra, err := LoadTableFile(extraPath)
	if err != nil {
		return nil, err
	}
	table.Merge(extra)
	return table, nil
}

func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	if t.days == nil {
		t.days = make(map[string]string, len(other.days))
	}
	for key, value := range other.days {
		t.days[key] = value
	}
	if other.Version != "" {
		t.Version = other.Version
	}
	t.refreshRange()
}

func (t *Table) Lookup(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	value, ok := t.days[key]
	return value, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.days)
}

// refreshRange widens From/To to cover every key, keeping declared bounds.
func (t *Table) refreshRange() {
	if len(t.days) == 0 {
		return
	}
	keys := make([]string, 0, len(t.days))
	for key := range t.days {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if t.From == "" || keys[0] < t.From {
		t.From = keys[0]
	}
	if t.To == "" || keys[len(keys)-1] > t.To {
		t.To = keys[len(keys)-1]
	}
}
