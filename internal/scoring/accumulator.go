package scoring

// Accumulate returns a new score map where every key in deltas holds
// prev[key]+delta (absent keys start at 0). Keys without a delta are carried
// over unchanged. Neither input is modified.
func Accumulate(prev, deltas map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(prev)+len(deltas))
	for k, v := range prev {
		out[k] = v
	}
	for k, d := range deltas {
		out[k] += d
	}
	return out
}

// AccumulateOne is Accumulate for a single (key, delta) pair.
func AccumulateOne(prev map[string]float64, key string, delta float64) map[string]float64 {
	return Accumulate(prev, map[string]float64{key: delta})
}
