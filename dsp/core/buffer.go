package core

// EnsureLen returns a slice of length n, reusing buf's capacity when it is
// large enough and allocating otherwise.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	clear(buf)
}
