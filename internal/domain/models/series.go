package models

// TimeSeries is an ordered run of (label, value) points in source-file order.
// Labels and Values always have the same length.
type TimeSeries struct {
	Labels []string
	Values []float64
}

// EmptySeries returns a series with non-nil, zero-length slices so it renders as [] not null.
func EmptySeries() TimeSeries {
	return TimeSeries{Labels: []string{}, Values: []float64{}}
}

// Len returns the number of points.
func (s TimeSeries) Len() int { return len(s.Values) }

// Last returns the newest value, or 0 for an empty series.
func (s TimeSeries) Last() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Values[len(s.Values)-1]
}

// Append adds one point.
func (s *TimeSeries) Append(label string, value float64) {
	s.Labels = append(s.Labels, label)
	s.Values = append(s.Values, value)
}
