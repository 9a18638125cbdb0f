package analysis

import "math"

// DefaultHistogramBins matches the price distribution chart.
const DefaultHistogramBins = 20

// kdePoints is the number of evaluation points of the density curve.
const kdePoints = 200

// Histogram is an equal-width binning of the price column with an overlaid density estimate.
// Edges has len(Counts)+1 entries. KDEY is scaled to counts so it shares the Y axis with the bars.
type Histogram struct {
	Edges  []float64
	Counts []int
	Width  float64
	KDEX   []float64
	KDEY   []float64
}

// Centers returns the midpoint of every bin.
func (h Histogram) Centers() []float64 {
	out := make([]float64, len(h.Counts))
	for i := range h.Counts {
		out[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return out
}

// PriceHistogram bins prices into bins equal-width buckets spanning [min, max]; the last bucket
// is closed on the right. A single distinct value uses [v-0.5, v+0.5]. NaN values are skipped.
func PriceHistogram(prices []float64, bins int) Histogram {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	vals := finite(prices)
	if len(vals) == 0 {
		return Histogram{}
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)
	h := Histogram{Edges: make([]float64, bins+1), Counts: make([]int, bins), Width: width}
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[bins] = hi
	for _, v := range vals {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		h.Counts[i]++
	}
	h.KDEX, h.KDEY = kdeCurve(vals, lo, hi, float64(len(vals))*width)
	return h
}

// kdeCurve evaluates a Gaussian kernel density estimate with Scott's bandwidth over [lo, hi],
// multiplied by scale. It returns nil slices when the sample has no spread.
func kdeCurve(vals []float64, lo, hi, scale float64) ([]float64, []float64) {
	n := len(vals)
	if n < 2 {
		return nil, nil
	}
	m := mean(vals)
	var ss float64
	for _, v := range vals {
		ss += (v - m) * (v - m)
	}
	sd := math.Sqrt(ss / float64(n-1))
	if sd == 0 || math.IsNaN(sd) {
		return nil, nil
	}
	bw := sd * math.Pow(float64(n), -0.2)
	norm := 1 / (float64(n) * bw * math.Sqrt(2*math.Pi))
	xs := make([]float64, kdePoints)
	ys := make([]float64, kdePoints)
	step := (hi - lo) / float64(kdePoints-1)
	for i := range xs {
		x := lo + float64(i)*step
		var d float64
		for _, v := range vals {
			z := (x - v) / bw
			d += math.Exp(-0.5 * z * z)
		}
		xs[i] = x
		ys[i] = d * norm * scale
	}
	return xs, ys
}
