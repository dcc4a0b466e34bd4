package tou

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    int
		wantErr bool
	}{
		"midnight":         {in: "00:00", want: 0},
		"on-peak start":    {in: "09:00", want: 540},
		"on-peak end":      {in: "22:00", want: 1320},
		"last interval":    {in: "23:45", want: 1425},
		"single digit hr":  {in: "9:30", want: 570},
		"surrounding ws":   {in: " 21:59 ", want: 1319},
		"end of day":       {in: "24:00", want: MinutesPerDay},
		"past end of day":  {in: "24:15", wantErr: true},
		"hour too large":   {in: "25:00", wantErr: true},
		"minute too large": {in: "10:60", wantErr: true},
		"single digit min": {in: "10:5", wantErr: true},
		"seconds":          {in: "10:05:00", wantErr: true},
		"no separator":     {in: "1005", wantErr: true},
		"negative":         {in: "-1:00", wantErr: true},
		"plus sign":        {in: "+1:00", wantErr: true},
		"letters":          {in: "ab:cd", wantErr: true},
		"empty":            {in: "", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseClock(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:00", FormatClock(540))
	assert.Equal(t, "22:00", FormatClock(1320))
	assert.Equal(t, "24:00", FormatClock(MinutesPerDay))
}
