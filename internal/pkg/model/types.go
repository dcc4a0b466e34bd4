package model

type Unit string

func (u Unit) String() string {
	return string(u)
}

const (
	UnitWatt         Unit = "W"
	UnitKiloWattHour Unit = "kWh"
)
