package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateParser_Parse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		year  int
		month time.Month
		day   int
	}{
		{"iso", "2020-03-15", 2020, time.March, 15},
		{"day first is the default", "05/04/2020", 2020, time.April, 5},
		{"first number over 12 is the day", "25/12/2019", 2019, time.December, 25},
		{"second number over 12 flips to month first", "04/25/2021", 2021, time.April, 25},
		{"dashes", "1-7-2020", 2020, time.July, 1},
		{"time suffix keeps day first", "03/04/2020 00:00", 2020, time.April, 3},
		{"single digit with time", "3/4/2020 10:30", 2020, time.April, 3},
		{"iso with time", "2020-03-15T08:00:00", 2020, time.March, 15},
		{"dots", "31.01.2021", 2021, time.January, 31},
		{"two digit year", "15/08/20", 2020, time.August, 15},
		{"text", "15 Aug 2020", 2020, time.August, 15},
		{"text single digit day", "1 Jan 2020", 2020, time.January, 1},
		{"text dashed", "01-Jan-2020", 2020, time.January, 1},
		{"long month", "January 2, 2021", 2021, time.January, 2},
	}

	p := NewDateParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Parse(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.year, got.Year())
			assert.Equal(t, tt.month, got.Month())
			assert.Equal(t, tt.day, got.Day())
		})
	}
}

func TestDateParser_Rejects(t *testing.T) {
	p := NewDateParser()
	for _, raw := range []string{"", "   ", "2020-13-01", "2021-02-30", "31/04/2020", "13/13/2020", "not a date"} {
		_, ok := p.Parse(raw)
		assert.False(t, ok, "input %q", raw)
	}
}

func TestDateParser_CachesResults(t *testing.T) {
	p := NewDateParser()

	first, ok := p.Parse("05/04/2020")
	require.True(t, ok)
	_, ok = p.Parse("garbage")
	require.False(t, ok)
	assert.Equal(t, 2, p.CacheSize())

	second, ok := p.Parse(" 05/04/2020 ")
	require.True(t, ok)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, p.CacheSize(), "trimmed input hits the same entry")

	_, ok = p.Parse("garbage")
	assert.False(t, ok, "failures are cached too")
	assert.Equal(t, 2, p.CacheSize())
}
