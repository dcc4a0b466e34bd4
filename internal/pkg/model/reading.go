package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	errEmptyPower   = errors.New("empty value")
	errNumericPower = errors.New("not a number")
)

// Power is a watt value exactly as received upstream, either a JSON number or
// a numeric string. It is only interpreted by Watts.
type Power string

func (p *Power) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Power(s)
		return nil
	}
	*p = Power(data)
	return nil
}

func (p Power) MarshalJSON() ([]byte, error) {
	if w, err := p.Watts(); err == nil {
		return []byte(strconv.FormatInt(w, 10)), nil
	}
	return json.Marshal(string(p))
}

// Watts parses the value as whole watts. Fractions are truncated toward zero.
func (p Power) Watts() (int64, error) {
	s := strings.TrimSpace(string(p))
	if s == "" {
		return 0, errEmptyPower
	}
	if w, err := strconv.ParseInt(s, 10, 64); err == nil {
		return w, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return 0, errNumericPower
	}
	return int64(f), nil
}

// Watt builds a Power from an integer.
func Watt(w int64) Power {
	return Power(strconv.FormatInt(w, 10))
}

// IntervalReading is one sample of the inverter data list. Time is the
// "HH:MM" time of day; GridPower is signed, positive when importing.
type IntervalReading struct {
	Time             string `json:"date"`
	ConsumptionPower Power  `json:"consumption_power"`
	GridPower        *Power `json:"grid_p_power,omitempty"`
}

// NewReading returns a reading without grid power.
func NewReading(clock string, consumption int64) IntervalReading {
	return IntervalReading{Time: clock, ConsumptionPower: Watt(consumption)}
}

// NewSolarReading returns a reading with grid power.
func NewSolarReading(clock string, consumption, grid int64) IntervalReading {
	g := Watt(grid)
	return IntervalReading{Time: clock, ConsumptionPower: Watt(consumption), GridPower: &g}
}
