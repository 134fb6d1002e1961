package entities

import (
	"errors"
	"fmt"
)

// Operator is the comparison applied between a reading value and a threshold.
type Operator string

const (
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "=="
)

var ErrInvalidOperator = errors.New("invalid comparison operator")

// ParseOperator validates op at configuration time, so a malformed operator
// never reaches the alert evaluator.
func ParseOperator(s string) (Operator, error) {
	switch Operator(s) {
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual, OpEqual:
		return Operator(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOperator, s)
}

// Compare applies the operator to (value, threshold).
func (o Operator) Compare(value, threshold float64) bool {
	switch o {
	case OpGreater:
		return value > threshold
	case OpGreaterEqual:
		return value >= threshold
	case OpLess:
		return value < threshold
	case OpLessEqual:
		return value <= threshold
	case OpEqual:
		return value == threshold
	}
	return false
}

// AlertRule is a threshold rule owned by configuration; the core only reads
// it.
type AlertRule struct {
	ID        string     `json:"id"`
	DeviceID  string     `json:"device_id"`
	Kind      SensorKind `json:"kind"`
	Operator  Operator   `json:"operator"`
	Threshold float64    `json:"threshold"`
	Active    bool       `json:"active"`
}

// Validate rejects malformed rules at configuration time.
func (r AlertRule) Validate() error {
	if r.ID == "" {
		return errors.New("alert rule: missing id")
	}
	if r.DeviceID == "" {
		return errors.New("alert rule: missing device_id")
	}
	if _, err := ParseOperator(string(r.Operator)); err != nil {
		return err
	}
	return nil
}
