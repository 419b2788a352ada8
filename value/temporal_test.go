package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateValidate(t *testing.T) {
	tests := []struct {
		name    string
		date    Date
		wantErr bool
	}{
		{"Christmas2525", NewDate(2525, 12, 25), false},
		{"LeapDay", NewDate(2024, 2, 29), false},
		{"NotLeapDay", NewDate(2023, 2, 29), true},
		{"MonthZero", NewDate(2023, 0, 1), true},
		{"MonthThirteen", NewDate(2023, 13, 1), true},
		{"DayZero", NewDate(2023, 1, 0), true},
		{"April31", NewDate(2023, 4, 31), true},
		{"YearZero", NewDate(0, 1, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.date.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTimeValidate(t *testing.T) {
	assert.NoError(t, NewTime(0, 0, 0, 0).Validate())
	assert.NoError(t, NewTime(23, 59, 59, 999_999_999).Validate())
	assert.NoError(t, NewTime(24, 0, 0, 0).Validate())
	assert.Error(t, NewTime(24, 0, 0, 1).Validate())
	assert.Error(t, NewTime(25, 0, 0, 0).Validate())
	assert.Error(t, NewTime(1, 60, 0, 0).Validate())
	assert.Error(t, NewTime(1, 0, 60, 0).Validate())
	assert.Error(t, NewTime(1, 0, 0, 1_000_000_000).Validate())
}

func TestDatetimeValidate(t *testing.T) {
	assert.NoError(t, NewDatetime(1989, 11, 24, 1, 2, 3, 4).Validate())
	assert.Error(t, NewDatetime(1989, 11, 31, 1, 2, 3, 0).Validate())
	assert.Error(t, NewDatetime(1989, 11, 24, 24, 0, 0, 0).Validate())
}

func TestTimeOfMicroseconds(t *testing.T) {
	tests := []struct {
		name string
		us   int64
		want Time
	}{
		{"Midnight", 0, NewTime(0, 0, 0, 0)},
		{"MillisecondFraction", (4*3600+5*60+6)*1_000_000 + 789_000, NewTime(4, 5, 6, 789_000_000)},
		{"MicrosecondFraction", (14*3600+15*60+16)*1_000_000 + 17, NewTime(14, 15, 16, 17_000)},
		{"EndOfDay", 24 * 3600 * 1_000_000, NewTime(24, 0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TimeOfMicroseconds(tt.us)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.us, got.Microseconds())
		})
	}

	_, err := TimeOfMicroseconds(-1)
	assert.Error(t, err)
	_, err = TimeOfMicroseconds(24*3600*1_000_000 + 1)
	assert.Error(t, err)
}

func TestMicrosecondAligned(t *testing.T) {
	assert.True(t, NewTime(4, 5, 6, 789_000_000).MicrosecondAligned())
	assert.True(t, NewTime(4, 5, 6, 1_000).MicrosecondAligned())
	assert.False(t, NewTime(14, 15, 16, 17).MicrosecondAligned())
	assert.False(t, NewDatetime(1989, 11, 24, 1, 2, 3, 4).MicrosecondAligned())
}

func TestTemporalConversions(t *testing.T) {
	ts := time.Date(1989, time.November, 24, 1, 2, 3, 456_000, time.UTC)

	dt := DatetimeOf(ts)
	assert.Equal(t, NewDatetime(1989, 11, 24, 1, 2, 3, 456_000), dt)
	assert.True(t, ts.Equal(dt.Time()))

	d := DateOf(ts)
	assert.Equal(t, NewDate(1989, 11, 24), d)
	assert.Equal(t, time.Date(1989, time.November, 24, 0, 0, 0, 0, time.UTC), d.Time())
}

func TestTemporalString(t *testing.T) {
	assert.Equal(t, "2525-12-25", NewDate(2525, 12, 25).String())
	assert.Equal(t, "04:05:06.789", NewTime(4, 5, 6, 789_000_000).String())
	assert.Equal(t, "14:15:16.000000017", NewTime(14, 15, 16, 17).String())
	assert.Equal(t, "1989-11-24 01:02:03", NewDatetime(1989, 11, 24, 1, 2, 3, 0).String())
}
