package model

// DayAggregate is the daily TOU result. Field names match the records the
// downstream reporting already consumes.
type DayAggregate struct {
	Date        string            `json:"date"`
	TouDate     bool              `json:"tou_date"` // true when the whole day is off-peak.
	Consumption Consumption       `json:"consumption"`
	Solar       *SolarConsumption `json:"consumption_solar,omitempty"`
	Unit        Unit              `json:"unit"`
}

type Consumption struct {
	Total   float64 `json:"total"`
	OffPeak float64 `json:"off_peak"`
	OnPeak  float64 `json:"on_peak"`
}

// SolarConsumption splits consumption into grid import and solar.
// Total, OffPeak and OnPeak count energy drawn from the grid.
type SolarConsumption struct {
	Total           float64 `json:"total"`
	OffPeak         float64 `json:"off_peak"`
	OnPeak          float64 `json:"on_peak"`
	ToGrid          float64 `json:"to_grid"`
	FromSolar       float64 `json:"from_solar"`
	TotalProduction float64 `json:"total_production"`
}

type DayAggregates []DayAggregate
