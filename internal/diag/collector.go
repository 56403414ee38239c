package diag

// Collector accumulates non-fatal diagnostics across a single compilation
// and tracks the global had-error flag described in spec.md §7: structural
// errors are reported and compilation continues so multiple problems can
// surface in one pass, but a non-zero exit is still forced at the end.
type Collector struct {
	reports  []*Report
	hadError bool
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a non-fatal diagnostic and sets the had-error flag.
func (c *Collector) Add(r *Report) {
	c.reports = append(c.reports, r)
	c.hadError = true
}

// HadError reports whether any diagnostic has been recorded.
func (c *Collector) HadError() bool {
	return c.hadError
}

// Reports returns all recorded diagnostics in emission order.
func (c *Collector) Reports() []*Report {
	return c.reports
}
