package model

type RegisterDevice struct {
	Name         string   `json:"name"`
	Identifiers  []string `json:"identifiers"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
}

type RegisterMessage struct {
	Tilda             string         `json:"~"`
	Name              string         `json:"name"`
	ID                string         `json:"unique_id"`
	StateTopic        string         `json:"state_topic"`
	ValueTemplate     string         `json:"value_template"`
	UnitOfMeasurement string         `json:"unit_of_measurement,omitempty"`
	DeviceClass       string         `json:"device_class,omitempty"`
	Device            RegisterDevice `json:"device"`
}

// Site is the metering point aggregates are published for.
type Site struct {
	ID   string
	Name string
}

// Sensor is one published figure of a DayAggregate.
type Sensor struct {
	Name  string
	Slug  string
	Value float64
}

// Sensors flattens the aggregate into individually published figures.
func (a DayAggregate) Sensors() []Sensor {
	sensors := []Sensor{
		{Name: "Consumption Total", Slug: "consumption_total", Value: a.Consumption.Total},
		{Name: "Consumption On Peak", Slug: "consumption_on_peak", Value: a.Consumption.OnPeak},
		{Name: "Consumption Off Peak", Slug: "consumption_off_peak", Value: a.Consumption.OffPeak},
	}
	if a.Solar == nil {
		return sensors
	}
	return append(sensors,
		Sensor{Name: "Grid Import Total", Slug: "grid_import_total", Value: a.Solar.Total},
		Sensor{Name: "Grid Import On Peak", Slug: "grid_import_on_peak", Value: a.Solar.OnPeak},
		Sensor{Name: "Grid Import Off Peak", Slug: "grid_import_off_peak", Value: a.Solar.OffPeak},
		Sensor{Name: "Export To Grid", Slug: "to_grid", Value: a.Solar.ToGrid},
		Sensor{Name: "Consumed From Solar", Slug: "from_solar", Value: a.Solar.FromSolar},
		Sensor{Name: "Solar Production", Slug: "total_production", Value: a.Solar.TotalProduction},
	)
}
