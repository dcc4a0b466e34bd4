package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/tou"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`

	TariffCfg   TariffConfig `envPrefix:"TOU_"`
	DatabaseCfg DatabaseConfig
	MqttCfg     MqttConfig
	ServerCfg   ServerConfig
	SourceCfg   SourceConfig
}

// TariffConfig describes the calendar and the aggregation variant.
type TariffConfig struct {
	OnPeakStart     string   `env:"ON_PEAK_START" envDefault:"09:00"`
	OnPeakEnd       string   `env:"ON_PEAK_END" envDefault:"22:00"`
	WeekendDays     []string `env:"WEEKEND_DAYS" envDefault:"Saturday,Sunday" envSeparator:","`
	Holidays        []string `env:"HOLIDAYS" envSeparator:","`
	HolidaysFile    string   `env:"HOLIDAYS_FILE"`
	IntervalMinutes int      `env:"INTERVAL_MINUTES" envDefault:"15"`
	SolarMode       bool     `env:"SOLAR_MODE" envDefault:"true"`
	ConvertUnits    bool     `env:"CONVERT_UNITS" envDefault:"true"`
	Location        string   `env:"LOCATION" envDefault:"Asia/Bangkok"`
	Site            string   `env:"SITE" envDefault:"home"`
}

type DatabaseConfig struct {
	URL              string `env:"DATABASE_URL"`
	MigrationsFolder string `env:"MIGRATIONS_FOLDER" envDefault:"migrations"`
	// RetentionDays of zero keeps aggregates forever.
	RetentionDays int `env:"RETENTION_DAYS" envDefault:"0"`
}

type MqttConfig struct {
	Host     string `env:"MQTT_HOST"`
	Username string `env:"MQTT_USER"`
	Password string `env:"MQTT_PASS"`
}

type ServerConfig struct {
	Addr         string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	// APIKeyHash is the bcrypt hash of the key POST requests must present.
	APIKeyHash string `env:"API_KEY_HASH"`
}

type SourceConfig struct {
	Dir      string `env:"SOURCE_DIR"`
	Schedule string `env:"AGGREGATE_SCHEDULE" envDefault:"10 0 * * *"`
	Workers  int    `env:"BACKFILL_WORKERS" envDefault:"4"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFrom reads the configuration from the given variables only.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Calendar builds the tariff calendar. Without any holiday configuration the
// published MEA 2025 holidays are used.
func (c TariffConfig) Calendar() (*tou.Calendar, error) {
	window, err := tou.ParseWindow(c.OnPeakStart, c.OnPeakEnd)
	if err != nil {
		return nil, err
	}
	var weekend []time.Weekday
	if len(c.WeekendDays) > 0 {
		if weekend, err = tou.ParseWeekdays(c.WeekendDays); err != nil {
			return nil, err
		}
	}
	holidays, err := c.holidays()
	if err != nil {
		return nil, err
	}
	return tou.NewCalendar(window, holidays, weekend)
}

func (c TariffConfig) holidays() (tou.Holidays, error) {
	if c.HolidaysFile == "" && len(c.Holidays) == 0 {
		return tou.MEAHolidays2025(), nil
	}
	holidays := tou.Holidays{}
	if c.HolidaysFile != "" {
		fromFile, err := readHolidaysFile(c.HolidaysFile)
		if err != nil {
			return nil, err
		}
		holidays.Merge(fromFile)
	}
	listed, err := tou.ParseHolidayDates(c.Holidays)
	if err != nil {
		return nil, err
	}
	holidays.Merge(listed)
	return holidays, nil
}

func readHolidaysFile(path string) (tou.Holidays, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holidays file: %w", err)
	}
	var byYear map[string]map[string]string
	if err := json.Unmarshal(b, &byYear); err != nil {
		return nil, tou.ErrInvalidCalendar.New("holidays file %s: %v", path, err)
	}
	return tou.ParseHolidayYears(byYear)
}

func (c TariffConfig) Options() tou.Options {
	return tou.Options{
		IntervalMinutes: c.IntervalMinutes,
		SolarMode:       c.SolarMode,
		ConvertUnits:    c.ConvertUnits,
	}
}

// TimeLocation is the zone "today" and "yesterday" are resolved in.
func (c TariffConfig) TimeLocation() (*time.Location, error) {
	return time.LoadLocation(c.Location)
}

// Engine builds the aggregation engine from the tariff settings.
func (c TariffConfig) Engine() (*tou.Engine, error) {
	cal, err := c.Calendar()
	if err != nil {
		return nil, err
	}
	return tou.NewEngine(cal, c.Options())
}
