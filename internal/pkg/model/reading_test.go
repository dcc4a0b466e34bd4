package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPower_Watts(t *testing.T) {
	tests := map[string]struct {
		in      Power
		want    int64
		wantErr bool
	}{
		"integer":           {in: "1200", want: 1200},
		"negative":          {in: "-350", want: -350},
		"padded":            {in: " 42 ", want: 42},
		"fraction":          {in: "99.9", want: 99},
		"negative fraction": {in: "-99.9", want: -99},
		"exponent":          {in: "1e3", want: 1000},
		"empty":             {in: "", wantErr: true},
		"text":              {in: "abc", wantErr: true},
		"nan":               {in: "NaN", wantErr: true},
		"inf":               {in: "Inf", wantErr: true},
		"too large":         {in: "1e30", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tc.in.Watts()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIntervalReading_UnmarshalJSON(t *testing.T) {
	raw := `[
		{"date": "09:00", "consumption_power": "1200", "grid_p_power": "-300"},
		{"date": "09:15", "consumption_power": 800, "grid_p_power": 150},
		{"date": "09:30", "consumption_power": 640.5},
		{"date": "09:45", "consumption_power": null, "grid_p_power": null}
	]`

	var readings []IntervalReading
	require.NoError(t, json.Unmarshal([]byte(raw), &readings))
	require.Len(t, readings, 4)

	assert.Equal(t, "09:00", readings[0].Time)
	assert.Equal(t, Power("1200"), readings[0].ConsumptionPower)
	require.NotNil(t, readings[0].GridPower)
	assert.Equal(t, Power("-300"), *readings[0].GridPower)

	assert.Equal(t, Power("800"), readings[1].ConsumptionPower)
	assert.Equal(t, Power("150"), *readings[1].GridPower)

	assert.Equal(t, Power("640.5"), readings[2].ConsumptionPower)
	assert.Nil(t, readings[2].GridPower)

	assert.Equal(t, Power(""), readings[3].ConsumptionPower)
}

func TestIntervalReading_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewSolarReading("10:00", 500, -20))
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"10:00","consumption_power":500,"grid_p_power":-20}`, string(b))

	b, err = json.Marshal(IntervalReading{Time: "10:15", ConsumptionPower: "n/a"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"10:15","consumption_power":"n/a"}`, string(b))
}
