package dataset

// Field names every dataset row is expected to carry besides the pollutants.
const (
	FieldCity = "City"
	FieldAQI  = "AQI"
)

// SampleRecord is one parsed dataset row keyed by header name.
// A key is absent when the row had fewer fields than the header.
type SampleRecord map[string]string

// Get returns the trimmed value for field; missing fields read as empty.
func (r SampleRecord) Get(field string) string {
	return r[field]
}

// City returns the row's City value.
func (r SampleRecord) City() string { return r[FieldCity] }

// AQI returns the row's reference AQI value as text.
func (r SampleRecord) AQI() string { return r[FieldAQI] }
