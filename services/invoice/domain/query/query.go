// Package query translates untrusted list parameters into a typed, bounded
// read. Only recognized fields ever become filters; reserved parameters
// control query shape and are never interpreted as field equality.
package query

import (
	"net/url"
	"strconv"
	"time"

	"github.com/ghuser/paycontrol/services/invoice/domain/models"
)

// Order is the sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

const (
	// DefaultLimit is applied when limit is absent or not a positive integer.
	DefaultLimit = 10

	// SortByCreatedAt is the default sort field (most recent first).
	SortByCreatedAt = "createdAt"
)

// sortable is the closed set of fields a caller may sort by. Anything else
// falls back to the default sort.
var sortable = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"dueDate":   true,
	"paidDate":  true,
	"amount":    true,
	"label":     true,
	"status":    true,
}

// ListParams is the typed result of parsing untrusted query parameters.
// The owner restriction is not part of ListParams — repositories always
// receive the owner separately and apply it first.
type ListParams struct {
	Page   int
	Limit  int
	SortBy string
	Order  Order

	// Recognized equality filters. Nil means not filtered.
	Status *models.Status
	Label  *string

	// Due-date window computed from year/month selection parameters.
	DueFrom *time.Time
	DueTo   *time.Time
}

// Offset returns the row offset for the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(total/limit) — computed from the unpaginated match
// count, not from the returned page size.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// ParseListParams builds ListParams from raw query values.
//
//   - page and limit are coerced to positive integers, defaulting when absent
//     or non-numeric
//   - sortBy must be a recognized field; otherwise the default createdAt
//     descending sort applies
//   - order is asc only when explicitly "asc"
//   - year/month compute a due-date window: month given → that calendar month,
//     year alone → the whole year, month without year → the current year
//   - a status filter outside the closed enum is a validation error
//   - unrecognized parameters are ignored
//
// now anchors the "current year" default; pass time.Now() outside tests.
func ParseListParams(values url.Values, now time.Time) (ListParams, error) {
	p := ListParams{
		Page:   positiveInt(values.Get("page"), 1),
		Limit:  positiveInt(values.Get("limit"), DefaultLimit),
		SortBy: SortByCreatedAt,
		Order:  OrderDesc,
	}

	if sortBy := values.Get("sortBy"); sortable[sortBy] {
		p.SortBy = sortBy
		if values.Get("order") == string(OrderAsc) {
			p.Order = OrderAsc
		}
	}

	if raw := values.Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return ListParams{}, err
		}
		p.Status = &status
	}

	if label := values.Get("label"); label != "" {
		p.Label = &label
	}

	p.DueFrom, p.DueTo = dueDateWindow(values.Get("year"), values.Get("month"), now)

	return p, nil
}

// dueDateWindow computes the [from, to] due-date range from year/month
// selection parameters, in now's location. Returns nil pointers when neither
// parameter selects a window.
func dueDateWindow(yearRaw, monthRaw string, now time.Time) (*time.Time, *time.Time) {
	year, yearOK := parseInt(yearRaw)
	month, monthOK := parseInt(monthRaw)
	if monthOK && (month < 1 || month > 12) {
		monthOK = false
	}
	if !yearOK && !monthOK {
		return nil, nil
	}
	if !yearOK {
		year = now.Year()
	}

	loc := now.Location()
	var from, to time.Time
	if monthOK {
		from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		// day 0 of the next month normalizes to the last day of this month
		to = time.Date(year, time.Month(month+1), 0, 23, 59, 59, int(999*time.Millisecond), loc)
	} else {
		from = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		to = time.Date(year, time.December, 31, 23, 59, 59, int(999*time.Millisecond), loc)
	}
	return &from, &to
}

// positiveInt parses s as a positive integer, returning fallback when s is
// absent, non-numeric, or < 1.
func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
