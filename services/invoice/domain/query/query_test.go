package query

import (
	"errors"
	"net/url"
	"testing"
	"time"

	invoicedomain "github.com/ghuser/paycontrol/services/invoice/domain"
	"github.com/ghuser/paycontrol/services/invoice/domain/models"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC)
}

func parse(t *testing.T, raw string) ListParams {
	t.Helper()
	values, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	p, err := ParseListParams(values, fixedNow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestParseListParams_Defaults(t *testing.T) {
	p := parse(t, "")

	if p.Page != 1 {
		t.Fatalf("expected page 1, got %d", p.Page)
	}
	if p.Limit != DefaultLimit {
		t.Fatalf("expected limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.SortBy != SortByCreatedAt || p.Order != OrderDesc {
		t.Fatalf("expected createdAt desc, got %s %s", p.SortBy, p.Order)
	}
	if p.Status != nil || p.Label != nil || p.DueFrom != nil || p.DueTo != nil {
		t.Fatal("expected no filters by default")
	}
}

func TestParseListParams_PageAndLimitCoercion(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantPage  int
		wantLimit int
	}{
		{"explicit", "page=3&limit=25", 3, 25},
		{"zero page", "page=0", 1, DefaultLimit},
		{"negative page", "page=-2", 1, DefaultLimit},
		{"non-numeric page", "page=abc", 1, DefaultLimit},
		{"zero limit", "limit=0", 1, DefaultLimit},
		{"non-numeric limit", "limit=ten", 1, DefaultLimit},
		{"fractional limit", "limit=2.5", 1, DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, tt.raw)
			if p.Page != tt.wantPage {
				t.Fatalf("expected page %d, got %d", tt.wantPage, p.Page)
			}
			if p.Limit != tt.wantLimit {
				t.Fatalf("expected limit %d, got %d", tt.wantLimit, p.Limit)
			}
		})
	}
}

func TestParseListParams_SortWhitelist(t *testing.T) {
	t.Run("recognized field", func(t *testing.T) {
		p := parse(t, "sortBy=dueDate&order=asc")
		if p.SortBy != "dueDate" || p.Order != OrderAsc {
			t.Fatalf("expected dueDate asc, got %s %s", p.SortBy, p.Order)
		}
	})

	t.Run("unrecognized field falls back", func(t *testing.T) {
		p := parse(t, "sortBy=password&order=asc")
		if p.SortBy != SortByCreatedAt || p.Order != OrderDesc {
			t.Fatalf("expected default sort, got %s %s", p.SortBy, p.Order)
		}
	})

	t.Run("order defaults to desc", func(t *testing.T) {
		p := parse(t, "sortBy=amount")
		if p.Order != OrderDesc {
			t.Fatalf("expected desc, got %s", p.Order)
		}
	})

	t.Run("unknown order stays desc", func(t *testing.T) {
		p := parse(t, "sortBy=amount&order=sideways")
		if p.Order != OrderDesc {
			t.Fatalf("expected desc, got %s", p.Order)
		}
	})
}

func TestParseListParams_StatusFilter(t *testing.T) {
	p := parse(t, "status=overdue")
	if p.Status == nil || *p.Status != models.StatusOverdue {
		t.Fatalf("expected overdue filter, got %v", p.Status)
	}

	values, _ := url.ParseQuery("status=cancelled")
	_, err := ParseListParams(values, fixedNow())
	if !errors.Is(err, invoicedomain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestParseListParams_ReservedParamsNeverBecomeFilters(t *testing.T) {
	// Reserved parameters shape the query; none may leak into filters.
	p := parse(t, "page=2&limit=5&sortBy=amount&order=asc&fields=id,label&sort=label")
	if p.Status != nil || p.Label != nil {
		t.Fatal("reserved parameters must not become equality filters")
	}
}

func TestParseListParams_UnrecognizedParamsIgnored(t *testing.T) {
	p := parse(t, "color=red&owner_id=123&deleted_at=null")
	if p.Status != nil || p.Label != nil || p.DueFrom != nil {
		t.Fatal("unrecognized parameters must be ignored")
	}
}

func TestParseListParams_DueDateWindows(t *testing.T) {
	t.Run("year and month", func(t *testing.T) {
		p := parse(t, "year=2026&month=2")
		wantFrom := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		wantTo := time.Date(2026, 2, 28, 23, 59, 59, int(999*time.Millisecond), time.UTC)
		if p.DueFrom == nil || !p.DueFrom.Equal(wantFrom) {
			t.Fatalf("expected from %v, got %v", wantFrom, p.DueFrom)
		}
		if p.DueTo == nil || !p.DueTo.Equal(wantTo) {
			t.Fatalf("expected to %v, got %v", wantTo, p.DueTo)
		}
	})

	t.Run("december does not spill into next year", func(t *testing.T) {
		p := parse(t, "year=2026&month=12")
		wantTo := time.Date(2026, 12, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC)
		if p.DueTo == nil || !p.DueTo.Equal(wantTo) {
			t.Fatalf("expected to %v, got %v", wantTo, p.DueTo)
		}
	})

	t.Run("year alone covers whole year", func(t *testing.T) {
		p := parse(t, "year=2025")
		wantFrom := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		wantTo := time.Date(2025, 12, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC)
		if p.DueFrom == nil || !p.DueFrom.Equal(wantFrom) {
			t.Fatalf("expected from %v, got %v", wantFrom, p.DueFrom)
		}
		if p.DueTo == nil || !p.DueTo.Equal(wantTo) {
			t.Fatalf("expected to %v, got %v", wantTo, p.DueTo)
		}
	})

	t.Run("month alone uses current year", func(t *testing.T) {
		p := parse(t, "month=3")
		wantFrom := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		if p.DueFrom == nil || !p.DueFrom.Equal(wantFrom) {
			t.Fatalf("expected from %v, got %v", wantFrom, p.DueFrom)
		}
	})

	t.Run("out of range month ignored", func(t *testing.T) {
		p := parse(t, "month=13")
		if p.DueFrom != nil || p.DueTo != nil {
			t.Fatal("expected no window for month=13")
		}
	})
}

func TestOffset(t *testing.T) {
	p := ListParams{Page: 3, Limit: 10}
	if got := p.Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{100, 10, 10},
		{7, 3, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Fatalf("TotalPages(%d, %d): expected %d, got %d", tt.total, tt.limit, tt.want, got)
		}
	}
}
