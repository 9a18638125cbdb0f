// Package analysis computes the auction summaries shown by the viewer and the reader:
// descriptive price statistics, group-by reductions, the price histogram, player lookup
// and the team spending export.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Stats holds the six aggregate statistics over the price column.
type Stats struct {
	Count    int
	Mean     float64
	Median   float64
	Mode     float64
	StdDev   float64
	Variance float64
	Range    float64
}

// ComputeStats summarizes prices. NaN values are skipped. Standard deviation and variance use
// the sample (n-1) denominator and are NaN for fewer than two values; the mode is the smallest
// of the most frequent values. With no values every statistic is NaN.
func ComputeStats(prices []float64) Stats {
	vals := finite(prices)
	nan := math.NaN()
	st := Stats{Count: len(vals), Mean: nan, Median: nan, Mode: nan, StdDev: nan, Variance: nan, Range: nan}
	if len(vals) == 0 {
		return st
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	st.Mean = mean(vals)
	st.Median = medianSorted(sorted)
	st.Mode = modeSorted(sorted)
	st.Range = sorted[len(sorted)-1] - sorted[0]
	if len(vals) > 1 {
		var ss float64
		for _, v := range vals {
			d := v - st.Mean
			ss += d * d
		}
		st.Variance = ss / float64(len(vals)-1)
		st.StdDev = math.Sqrt(st.Variance)
	}
	return st
}

// Text renders the statistics panel.
func (s Stats) Text() string {
	lines := []string{
		"Mean Price: " + fixed2(s.Mean) + " Cr",
		"Median Price: " + fixed2(s.Median) + " Cr",
		"Mode Price: " + fixed2(s.Mode) + " Cr",
		"Standard Deviation: " + fixed2(s.StdDev) + " Cr",
		"Variance: " + fixed2(s.Variance) + " Cr",
		"Price Range: " + fixed2(s.Range) + " Cr",
	}
	return strings.Join(lines, "\n")
}

func finite(in []float64) []float64 {
	out := make([]float64, 0, len(in))
	for _, v := range in {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

func medianSorted(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// modeSorted walks runs of equal values; the first longest run is the smallest mode.
func modeSorted(sorted []float64) float64 {
	best, bestN := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestN {
			best, bestN = sorted[i], j-i
		}
		i = j
	}
	return best
}

func fixed2(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatNumber prints v in shortest round-trip form, keeping a trailing ".0" on integral
// values (16.25 -> "16.25", 2 -> "2.0"). NaN prints as "nan".
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	if math.IsInf(v, 0) {
		if v > 0 {
			return "inf"
		}
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// FormatPrice prints a price the way the loaded column types it: whole numbers without a
// decimal part when the dataset has IntegerPrices, FormatNumber otherwise.
func FormatPrice(v float64, integer bool) string {
	if integer && !math.IsNaN(v) && !math.IsInf(v, 0) && v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return FormatNumber(v)
}
