package analytics

// Status is the discrete health of a budget derived from its percentage used.
type Status string

const (
	StatusGood     Status = "good"
	StatusModerate Status = "moderate"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusExceeded Status = "exceeded"
)

// Severity grades a budget warning.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

const (
	exceededThreshold = 100.0
	criticalThreshold = 90.0
	warningThreshold  = 75.0
	moderateThreshold = 50.0
)

// Classify maps a percentage used to a status. Boundaries resolve to the
// higher band.
func Classify(pct float64) Status {
	switch {
	case pct >= exceededThreshold:
		return StatusExceeded
	case pct >= criticalThreshold:
		return StatusCritical
	case pct >= warningThreshold:
		return StatusWarning
	case pct >= moderateThreshold:
		return StatusModerate
	default:
		return StatusGood
	}
}

// WarningSeverity reports whether a warning must accompany pct and, if so,
// how severe it is.
func WarningSeverity(pct float64) (Severity, bool) {
	switch {
	case pct >= exceededThreshold:
		return SeverityCritical, true
	case pct >= criticalThreshold:
		return SeverityWarning, true
	default:
		return "", false
	}
}

// Warning is a human readable alert attached to a budget that is close to or
// over its ceiling.
type Warning struct {
	Category string   `json:"category,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// newWarning returns a warning for pct using message, or nil below the
// warning threshold.
func newWarning(pct float64, category, message string) *Warning {
	severity, ok := WarningSeverity(pct)
	if !ok {
		return nil
	}
	return &Warning{Category: category, Message: message, Severity: severity}
}

// UsageWarning returns the warning for a budget at pct, or nil below 90%.
func UsageWarning(pct float64) *Warning {
	return newWarning(pct, "", "You've used "+FormatNumber(pct)+"% of your budget")
}

// RecordWarning returns the warning attached to a newly recorded entry.
func RecordWarning(pct float64) *Warning {
	msg := "Warning: You've used " + FormatNumber(pct) + "% of your budget for this category."
	if pct >= exceededThreshold {
		msg = "You have exceeded your budget for this category!"
	}
	return newWarning(pct, "", msg)
}

// BudgetSnapshot is the state of one budget within a window.
type BudgetSnapshot struct {
	Budget         float64 `json:"budget"`
	Spent          float64 `json:"spent"`
	Remaining      float64 `json:"remaining"`
	PercentageUsed float64 `json:"percentage_used"`
	Status         Status  `json:"status"`
}

// Snapshot derives remaining, percentage and status for spent against amount.
func Snapshot(amount, spent float64) BudgetSnapshot {
	pct := PercentageUsed(spent, amount)
	return BudgetSnapshot{
		Budget:         amount,
		Spent:          spent,
		Remaining:      Sub(amount, spent),
		PercentageUsed: pct,
		Status:         Classify(pct),
	}
}
