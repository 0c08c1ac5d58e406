// Package analytics implements the threshold classification and
// historical-data aggregation shared by the live dashboard, the
// per-parameter pages and the history view. Everything here is a pure
// function over the entity types; callers own all state.
package analytics

import (
	"strconv"

	"aquamon/models"
)

// Parameter identifies one of the monitored water-quality parameters.
type Parameter string

const (
	Temperature     Parameter = "temperature"
	PH              Parameter = "ph"
	Salinity        Parameter = "salinity"
	Turbidity       Parameter = "turbidity"
	DissolvedOxygen Parameter = "dissolved_oxygen"
)

// Parameters lists every parameter in display order.
var Parameters = []Parameter{Temperature, PH, Salinity, Turbidity, DissolvedOxygen}

// ParamSpec carries the presentation strategy for one parameter, so a
// single implementation serves every page instead of five copies.
type ParamSpec struct {
	Label     string
	Unit      string
	Precision int
}

var Specs = map[Parameter]ParamSpec{
	Temperature:     {Label: "Temperature", Unit: "°C", Precision: 1},
	PH:              {Label: "pH", Unit: "", Precision: 2},
	Salinity:        {Label: "Salinity", Unit: "ppt", Precision: 1},
	Turbidity:       {Label: "Turbidity", Unit: "NTU", Precision: 1},
	DissolvedOxygen: {Label: "Dissolved Oxygen", Unit: "mg/L", Precision: 1},
}

// ParseParameter maps a request string to a Parameter. "do" is accepted
// as a legacy alias for dissolved oxygen.
func ParseParameter(s string) (Parameter, bool) {
	if s == "do" {
		return DissolvedOxygen, true
	}
	p := Parameter(s)
	if _, ok := Specs[p]; ok {
		return p, true
	}
	return "", false
}

// Format renders a value at the parameter's display precision.
func (p Parameter) Format(v float64) string {
	prec := 1
	if spec, ok := Specs[p]; ok {
		prec = spec.Precision
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// Value extracts the parameter's field from a reading, nil when the
// sample did not carry it.
func Value(r models.SensorReading, p Parameter) *float64 {
	switch p {
	case Temperature:
		return r.Temperature
	case PH:
		return r.PH
	case Salinity:
		return r.Salinity
	case Turbidity:
		return r.Turbidity
	case DissolvedOxygen:
		return r.DissolvedOxygen
	default:
		return nil
	}
}
