package catalog

// ResolvePrice scans fields in priority order and returns the first valid
// numeric value, clamped to zero. No valid candidate yields 0.
func ResolvePrice(r RawRecord, fields []string) float64 {
	f, ok := r.number(fields...)
	if !ok || f < 0 {
		return 0
	}
	return f
}
