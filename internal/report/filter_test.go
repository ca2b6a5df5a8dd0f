package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNumberCoercion(t *testing.T) {
	assert.Equal(t, 42.5, Number("42.5"))
	assert.Equal(t, 42.5, Number(" 42.5 "))
	assert.Equal(t, 7.0, Number(7))
	assert.Equal(t, 7.0, Number(int64(7)))
	assert.Equal(t, 0.0, Number(nil))
	assert.Equal(t, 0.0, Number("n/a"))
	assert.Equal(t, 0.0, Number(""))
}

func TestTextCoercion(t *testing.T) {
	assert.Equal(t, "abc", Text("abc"))
	assert.Equal(t, "12", Text(float64(12)))
	assert.Equal(t, "12.5", Text(12.5))
	assert.Equal(t, "", Text(nil))
}

func TestDayParsesWireFormats(t *testing.T) {
	for _, s := range []string{
		"2025-03-15",
		"2025-03-15T10:30:00",
		"2025-03-15 10:30:00",
		"2025-03-15T10:30:00Z",
	} {
		d, ok := Day(s)
		require.True(t, ok, "input %q", s)
		assert.Equal(t, day("2025-03-15"), d)
	}
	_, ok := Day("15/03/2025")
	assert.False(t, ok)
	_, ok = Day("")
	assert.False(t, ok)
	_, ok = Day(nil)
	assert.False(t, ok)
}

func TestDateRangeInclusiveBounds(t *testing.T) {
	r := DateRange{From: day("2025-01-10"), To: day("2025-01-20")}

	assert.True(t, r.Contains(day("2025-01-10")))
	assert.True(t, r.Contains(day("2025-01-20")))
	assert.True(t, r.Contains(day("2025-01-15")))
	assert.False(t, r.Contains(day("2025-01-09")))
	assert.False(t, r.Contains(day("2025-01-21")))

	// Time-of-day on a bound must not exclude rows of that calendar day.
	withTime := time.Date(2025, 1, 20, 23, 59, 0, 0, time.UTC)
	assert.True(t, r.Contains(withTime))
}

func TestDateRangeOpenBounds(t *testing.T) {
	from := DateRange{From: day("2025-01-10")}
	assert.True(t, from.Contains(day("2099-12-31")))
	assert.False(t, from.Contains(day("2025-01-09")))

	to := DateRange{To: day("2025-01-10")}
	assert.True(t, to.Contains(day("1990-01-01")))
	assert.False(t, to.Contains(day("2025-01-11")))

	assert.True(t, DateRange{}.IsZero())
}

func TestFiltersMatch(t *testing.T) {
	rows := []Row{
		{"Invoice_Date": "2025-01-10", "Customer": "Acme", "Product": "Widget"},
		{"Invoice_Date": "2025-01-15", "Customer": "Bolt", "Product": "Widget"},
		{"Invoice_Date": "2025-02-01", "Customer": "Acme", "Product": "Gadget"},
		{"Invoice_Date": "bogus", "Customer": "Acme", "Product": "Widget"},
	}

	f := Filters{
		DateColumn: "Invoice_Date",
		Date:       DateRange{From: day("2025-01-01"), To: day("2025-01-31")},
		Equals:     map[string]string{"Customer": "Acme"},
	}
	got := f.Apply(rows)
	require.Len(t, got, 1)
	assert.Equal(t, "Widget", Text(got[0]["Product"]))
}

func TestFiltersEmptyValueMeansAll(t *testing.T) {
	rows := []Row{
		{"Customer": "Acme"},
		{"Customer": "Bolt"},
	}
	f := Filters{
		Equals: map[string]string{"Customer": ""},
		In:     map[string][]string{"Customer": nil},
	}
	assert.Len(t, f.Apply(rows), 2)
}

func TestFiltersUnparseableDateFailsClosed(t *testing.T) {
	rows := []Row{
		{"Invoice_Date": "not-a-date"},
		{"Invoice_Date": nil},
	}
	f := Filters{
		DateColumn: "Invoice_Date",
		Date:       DateRange{From: day("2000-01-01")},
	}
	assert.Empty(t, f.Apply(rows))
}

func TestFiltersMultiSelect(t *testing.T) {
	rows := []Row{
		{"Region": "North"},
		{"Region": "South"},
		{"Region": "East"},
	}
	f := Filters{In: map[string][]string{"Region": {"North", "East"}}}
	got := f.Apply(rows)
	require.Len(t, got, 2)
	assert.Equal(t, "North", Text(got[0]["Region"]))
	assert.Equal(t, "East", Text(got[1]["Region"]))
}

func TestOptionsFirstSeenOrderAndDedup(t *testing.T) {
	rows := []Row{
		{"Customer": "Bolt"},
		{"Customer": "Acme"},
		{"Customer": "Bolt"},
		{"Customer": ""},
		{"Customer": "Crux"},
	}
	assert.Equal(t, []string{"Bolt", "Acme", "Crux"}, Options(rows, "Customer"))
}
