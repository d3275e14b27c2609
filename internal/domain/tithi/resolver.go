package tithi

import (
	"fmt"
	"strings"
	"time"
)

const (
	PakshaShukla  = "शुक्ल"
	PakshaKrishna = "कृष्ण"
	Amavasya      = "अमावस्या"
)

var tithiNames = [15]string{
	"प्रतिपदा",
	"द्वितीया",
	"तृतीया",
	"चतुर्थी",
	"पंचमी",
	"षष्ठी",
	"सप्तमी",
	"अष्टमी",
	"नवमी",
	"दशमी",
	"एकादशी",
	"द्वादशी",
	"त्रयोदशी",
	"चतुर्दशी",
	"पूर्णिमा",
}

var monthNames = [12]string{
	"चैत्र",
	"वैशाख",
	"ज्येष्ठ",
	"आषाढ़",
	"श्रावण",
	"भाद्रपद",
	"आश्विन",
	"कार्तिक",
	"मार्गशीर्ष",
	"पौष",
	"माघ",
	"फाल्गुन",
}

// monthOffset shifts a zero-based Gregorian month into monthNames, so March
// lands on चैत्र.
const monthOffset = 10

type Descriptor struct {
	Date   string `json:"date"`
	Text   string `json:"text"`
	Paksha string `json:"paksha"`
	Tithi  string `json:"tithi"`
	Month  string `json:"month"`
	Exact  bool   `json:"exact"`
}

func (d Descriptor) String() string {
	return d.Text
}

// Resolver turns Gregorian dates into paksha/tithi/month descriptors. Dates in
// the table are returned verbatim; every other date gets the day-of-month
// approximation. Safe for concurrent use.
type Resolver struct {
	table *Table
}

func NewResolver(table *Table) *Resolver {
	return &Resolver{table: table}
}

func (r *Resolver) Table() *Table {
	return r.table
}

func (r *Resolver) Resolve(date time.Time) Descriptor {
	key := date.Format(DateLayout)
	if text, ok := r.table.Lookup(key); ok {
		desc := parseDescriptor(text)
		desc.Date = key
		desc.Exact = true
		return desc
	}
	return Approximate(date)
}

func (r *Resolver) ResolveString(value string) (Descriptor, error) {
	date, err := ParseDate(value)
	if err != nil {
		return Descriptor{}, err
	}
	return r.Resolve(date), nil
}

// Approximate derives a descriptor from the day and month only. It does not
// track the real lunar calendar.
func Approximate(date time.Time) Descriptor {
	day := date.Day()

	paksha := PakshaShukla
	index := day - 1
	if day > 15 {
		paksha = PakshaKrishna
		index = day - 16
	}

	name := Amavasya
	if index >= 0 && index < len(tithiNames) {
		name = tithiNames[index]
	}

	month := monthNames[(int(date.Month())-1+monthOffset)%len(monthNames)]

	return Descriptor{
		Date:   date.Format(DateLayout),
		Text:   fmt.Sprintf("%s %s, %s", paksha, name, month),
		Paksha: paksha,
		Tithi:  name,
		Month:  month,
	}
}

func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return parsed, nil
}

// ValidateDate rejects dates after today, compared by calendar day.
func ValidateDate(date, today time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(t) {
		return ErrFutureDate
	}
	return nil
}

func parseDescriptor(text string) Descriptor {
	desc := Descriptor{Text: text}

	head, month, found := strings.Cut(text, ",")
	if found {
		desc.Month = strings.TrimSpace(month)
	}
	fields := strings.Fields(head)
	if len(fields) > 0 {
		desc.Paksha = fields[0]
	}
	if len(fields) > 1 {
		desc.Tithi = strings.Join(fields[1:], " ")
	}
	return desc
}
