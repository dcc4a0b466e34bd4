package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/tou"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "09:00", cfg.TariffCfg.OnPeakStart)
	assert.Equal(t, "22:00", cfg.TariffCfg.OnPeakEnd)
	assert.Equal(t, []string{"Saturday", "Sunday"}, cfg.TariffCfg.WeekendDays)
	assert.Equal(t, 15, cfg.TariffCfg.IntervalMinutes)
	assert.True(t, cfg.TariffCfg.SolarMode)
	assert.True(t, cfg.TariffCfg.ConvertUnits)
	assert.Equal(t, "Asia/Bangkok", cfg.TariffCfg.Location)
	assert.Equal(t, "0.0.0.0:8000", cfg.ServerCfg.Addr)
	assert.Equal(t, 15*time.Second, cfg.ServerCfg.ReadTimeout)
	assert.Equal(t, "10 0 * * *", cfg.SourceCfg.Schedule)
	assert.Equal(t, 4, cfg.SourceCfg.Workers)
	assert.Equal(t, 0, cfg.DatabaseCfg.RetentionDays)
	assert.Equal(t, tou.DefaultOptions(), cfg.TariffCfg.Options())

	cal, err := cfg.TariffCfg.Calendar()
	require.NoError(t, err)
	assert.Equal(t, tou.MEAOnPeak, cal.OnPeak())
	assert.Equal(t, 19, cal.Holidays().Len())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"LOG_LEVEL":            "debug",
		"TOU_ON_PEAK_START":    "08:30",
		"TOU_ON_PEAK_END":      "23:30",
		"TOU_WEEKEND_DAYS":     "fri,sat",
		"TOU_HOLIDAYS":         "2026-01-01,2026-04-13",
		"TOU_INTERVAL_MINUTES": "30",
		"TOU_SOLAR_MODE":       "false",
		"TOU_CONVERT_UNITS":    "false",
		"DATABASE_URL":         "postgres://localhost/tou",
		"RETENTION_DAYS":       "400",
		"MQTT_HOST":            "tcp://broker:1883",
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres://localhost/tou", cfg.DatabaseCfg.URL)
	assert.Equal(t, 400, cfg.DatabaseCfg.RetentionDays)
	assert.Equal(t, "tcp://broker:1883", cfg.MqttCfg.Host)
	assert.Equal(t, tou.Options{IntervalMinutes: 30}, cfg.TariffCfg.Options())

	cal, err := cfg.TariffCfg.Calendar()
	require.NoError(t, err)
	assert.Equal(t, tou.Window{Start: 510, End: 1410}, cal.OnPeak())
	assert.Equal(t, []time.Weekday{time.Friday, time.Saturday}, cal.Weekend())
	assert.Equal(t, []civil.Date{
		{Year: 2026, Month: 1, Day: 1},
		{Year: 2026, Month: 4, Day: 13},
	}, cal.Holidays().Dates())
	assert.False(t, cal.Holidays().HasYear(2025))
}

func TestTariffConfig_HolidaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"2026": {"2026-01-01": "New Year's Day", "2026-12-31": "New Year's Eve"}
	}`), 0o600))

	c := TariffConfig{
		OnPeakStart:  "09:00",
		OnPeakEnd:    "22:00",
		HolidaysFile: path,
		Holidays:     []string{"2026-05-01"},
	}
	cal, err := c.Calendar()
	require.NoError(t, err)

	name, ok := cal.Holidays().Name(civil.Date{Year: 2026, Month: 1, Day: 1})
	assert.True(t, ok)
	assert.Equal(t, "New Year's Day", name)
	assert.Equal(t, 3, cal.Holidays().Len())
	assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, cal.Weekend())
}

func TestTariffConfig_Invalid(t *testing.T) {
	base := TariffConfig{OnPeakStart: "09:00", OnPeakEnd: "22:00"}

	tests := map[string]func(c *TariffConfig){
		"window reversed":   func(c *TariffConfig) { c.OnPeakStart, c.OnPeakEnd = "22:00", "09:00" },
		"bad clock":         func(c *TariffConfig) { c.OnPeakStart = "9am" },
		"end at midnight":   func(c *TariffConfig) { c.OnPeakEnd = "24:00" },
		"unknown weekday":   func(c *TariffConfig) { c.WeekendDays = []string{"funday"} },
		"bad holiday":       func(c *TariffConfig) { c.Holidays = []string{"2026-13-01"} },
		"bad holidays file": func(c *TariffConfig) { c.HolidaysFile = writeFile(t, `not json`) },
		"holiday wrong year": func(c *TariffConfig) {
			c.HolidaysFile = writeFile(t, `{"2025": {"2026-01-01": ""}}`)
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			_, err := c.Calendar()
			require.Error(t, err)
			assert.True(t, tou.ErrInvalidCalendar.Has(err))
		})
	}

	_, err := TariffConfig{OnPeakStart: "09:00", OnPeakEnd: "22:00", HolidaysFile: "/nonexistent/holidays.json"}.Calendar()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTariffConfig_Engine(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"TOU_INTERVAL_MINUTES": "0"})
	require.NoError(t, err)
	_, err = cfg.TariffCfg.Engine()
	assert.True(t, tou.ErrInvalidCalendar.Has(err))

	cfg, err = LoadFrom(map[string]string{})
	require.NoError(t, err)
	e, err := cfg.TariffCfg.Engine()
	require.NoError(t, err)
	assert.Equal(t, tou.DefaultOptions(), e.Options())

	loc, err := cfg.TariffCfg.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Bangkok", loc.String())
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidays.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
