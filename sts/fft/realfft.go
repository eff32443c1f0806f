// Package fft implements the real-to-half-complex forward discrete
// Fourier transform the Discrete-Fourier-Transform kernel needs (spec.md
// §4.3).
//
// This is a direct O(n^2) evaluation of the DFT definition, not a
// mixed-radix FFT: Table precomputes the n twiddle angles once per
// transform length and Forward looks each one up by (k*j mod n) instead
// of recomputing 2*pi*k*j/n on every inner-loop iteration, but there is
// no FFTPACK-style factor-4/2/3/5 butterfly decomposition here. For the
// kernel's usage pattern — one transform per bitstream, not a hot inner
// loop — the quadratic cost is acceptable and the simpler implementation
// is far easier to keep correct.
//
// The output layout matches the classic real-FFT convention: X[0] is the
// DC component, then alternating real/imag pairs for frequencies
// 1..n/2-1, with a lone real value for frequency n/2 stored at X[n-1]
// when n is even. The working array is one element longer than n; that
// last element is a padding slot which Forward only ever sets to 0.
package fft

import "math"

// Table holds precomputed twiddle angles for transforms of length n.
type Table struct {
	n    int
	trig []float64
}

// NewTable initializes the twiddle-angle table for transforms of length n
// (spec.md §4.3).
func NewTable(n int) *Table {
	t := &Table{n: n}
	t.trig = make([]float64, n)
	argh := 2.0 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		t.trig[i] = float64(i) * argh
	}
	return t
}

// Forward performs the forward real-to-half-complex transform of x
// in place. x must have length n+1: the final element is the padding slot
// described in the package doc, and Forward sets it to 0.
func (t *Table) Forward(x []float64) {
	n := t.n
	if len(x) != n+1 {
		panic("fft: Forward requires a buffer of length n+1")
	}
	in := make([]float64, n)
	copy(in, x[:n])

	x[0] = sumAll(in)
	half := n / 2
	for k := 1; k < half; k++ {
		var re, im float64
		for j := 0; j < n; j++ {
			angle := t.trig[(k*j)%n]
			re += in[j] * math.Cos(angle)
			im -= in[j] * math.Sin(angle)
		}
		x[2*k-1] = re
		x[2*k] = im
	}
	if n%2 == 0 {
		var re float64
		for j := 0; j < n; j++ {
			if j%2 == 0 {
				re += in[j]
			} else {
				re -= in[j]
			}
		}
		x[n-1] = re
	}
	x[n] = 0.0 // padding slot; always zero
}

func sumAll(v []float64) float64 {
	var s float64
	for _, e := range v {
		s += e
	}
	return s
}
