package analytics

import (
	"fmt"
	"math"

	"aquamon/models"
)

// Status is the severity of a reading relative to its envelope.
type Status string

const (
	StatusUnknown  Status = "UNKNOWN"
	StatusSafe     Status = "SAFE"
	StatusCaution  Status = "CAUTION"
	StatusCritical Status = "CRITICAL"
)

// Envelope is the four-bound calibration for one parameter. [SafeMin,
// SafeMax] is the safe band; [WarnMin, WarnMax] is the outer band beyond
// which readings are critical.
type Envelope struct {
	SafeMin float64 `json:"safe_min"`
	SafeMax float64 `json:"safe_max"`
	WarnMin float64 `json:"warn_min"`
	WarnMax float64 `json:"warn_max"`
}

// Validate enforces warnMin <= safeMin <= safeMax <= warnMax. Envelopes
// violating the ordering classify nonsensically and are rejected at
// ingestion.
func (e Envelope) Validate() error {
	if e.WarnMin > e.SafeMin || e.SafeMin > e.SafeMax || e.SafeMax > e.WarnMax {
		return fmt.Errorf("envelope bounds out of order (want warnMin <= safeMin <= safeMax <= warnMax, got %g/%g/%g/%g)",
			e.WarnMin, e.SafeMin, e.SafeMax, e.WarnMax)
	}
	return nil
}

// Classify maps a reading value against an envelope. A nil value, nil
// envelope or NaN yields UNKNOWN; that is the normal state before the
// first reading or threshold arrives, not an error.
//
// CRITICAL is tested before CAUTION so a value beyond both bounds is
// reported at the more severe level. The safe bounds are inclusive: a
// value exactly equal to safeMin or safeMax is SAFE, which also means
// that when warnMin == safeMin a value on the shared bound is SAFE.
func Classify(value *float64, env *Envelope) Status {
	if value == nil || env == nil || math.IsNaN(*value) {
		return StatusUnknown
	}
	v := *value
	if v < env.WarnMin || v > env.WarnMax {
		return StatusCritical
	}
	if v < env.SafeMin || v > env.SafeMax {
		return StatusCaution
	}
	return StatusSafe
}

// ThresholdTable maps parameters to their envelopes. Entries may be
// absent while a parameter is not yet calibrated.
type ThresholdTable map[Parameter]Envelope

// Lookup returns the envelope for p, if configured.
func (t ThresholdTable) Lookup(p Parameter) (Envelope, bool) {
	env, ok := t[p]
	return env, ok
}

// Classify classifies a value for parameter p, UNKNOWN when p has no
// envelope yet.
func (t ThresholdTable) Classify(p Parameter, value *float64) Status {
	env, ok := t[p]
	if !ok {
		return StatusUnknown
	}
	return Classify(value, &env)
}

// Clone returns an independent copy of the table.
func (t ThresholdTable) Clone() ThresholdTable {
	out := make(ThresholdTable, len(t))
	for p, env := range t {
		out[p] = env
	}
	return out
}

// Statuses classifies every parameter of a reading against the table.
func Statuses(r models.SensorReading, t ThresholdTable) map[Parameter]Status {
	out := make(map[Parameter]Status, len(Parameters))
	for _, p := range Parameters {
		out[p] = t.Classify(p, Value(r, p))
	}
	return out
}

// IsAbnormal reports whether any parameter of the reading sits outside
// its safe band.
func IsAbnormal(r models.SensorReading, t ThresholdTable) bool {
	for _, p := range Parameters {
		switch t.Classify(p, Value(r, p)) {
		case StatusCaution, StatusCritical:
			return true
		}
	}
	return false
}

// AbnormalParameter returns the first parameter (in display order) whose
// value sits outside its safe band, with its severity.
func AbnormalParameter(r models.SensorReading, t ThresholdTable) (Parameter, Status, bool) {
	for _, p := range Parameters {
		s := t.Classify(p, Value(r, p))
		if s == StatusCaution || s == StatusCritical {
			return p, s, true
		}
	}
	return "", StatusUnknown, false
}
