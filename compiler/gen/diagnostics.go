package gen

import (
	"fmt"
	"sync"
)

// Severity of a diagnostic record.
type Severity int

const (
	// SeverityError fails the generation run.
	SeverityError Severity = iota
	// SeverityWarning is reported but does not fail the run.
	SeverityWarning
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// Diagnostic is one structured record attributed to a declaration site.
type Diagnostic struct {
	// Site is the declaring entity or method, e.g. "VotesDao.Increment".
	Site     string
	Message  string
	Severity Severity
}

// Diagnostics collects non-fatal records across a generation run. It is safe
// for concurrent append: generation across independent DAOs runs in
// parallel and shares one sink.
type Diagnostics struct {
	mu      sync.Mutex
	records []Diagnostic
}

// Error records an error diagnostic at the given site.
func (d *Diagnostics) Error(site, format string, args ...any) {
	d.append(Diagnostic{Site: site, Message: fmt.Sprintf(format, args...), Severity: SeverityError})
}

// Warn records a warning diagnostic at the given site.
func (d *Diagnostics) Warn(site, format string, args ...any) {
	d.append(Diagnostic{Site: site, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning})
}

func (d *Diagnostics) append(record Diagnostic) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = append(d.records, record)
}

// Records returns a copy of the collected diagnostics.
func (d *Diagnostics) Records() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	records := make([]Diagnostic, len(d.records))
	copy(records, d.records)
	return records
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (d *Diagnostics) HasErrors() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.records {
		if r.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err returns ErrGenerationFailed wrapping the error count, or nil if the
// run recorded no errors. A run with any error reports failure even when
// sibling methods generated successfully.
func (d *Diagnostics) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, r := range d.records {
		if r.Severity == SeverityError {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d error(s)", ErrGenerationFailed, n)
}
