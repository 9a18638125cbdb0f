package charts

import (
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
)

// axisSteps are the tick spacings tried per decade, smallest first.
var axisSteps = []float64{1, 2, 2.5, 5, 10}

// maxTicks bounds the tick loop against degenerate steps.
const maxTicks = 64

// axis is a value axis whose bounds sit on tick marks, so the top bar never touches
// the frame and the first and last labels are round numbers.
type axis struct {
	Min, Max, Step float64
}

// newAxis picks the smallest step from axisSteps giving at most n ticks over [lo,hi] and
// snaps both bounds outward onto it. zeroBased pulls Min down to 0, as prices and counts
// start there.
func newAxis(lo, hi float64, n int, zeroBased bool) axis {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		lo, hi = 0, 1
	}
	if zeroBased && lo > 0 {
		lo = 0
	}
	if hi <= lo {
		hi = lo + 1
	}
	if n < 2 {
		n = 2
	}
	raw := (hi - lo) / float64(n-1)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := mag * axisSteps[len(axisSteps)-1]
	for _, m := range axisSteps {
		if m*mag >= raw {
			step = m * mag
			break
		}
	}
	return axis{
		Min:  roundTick(math.Floor(lo/step) * step),
		Max:  roundTick(math.Ceil(hi/step) * step),
		Step: step,
	}
}

func (a axis) Range() *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: a.Min, Max: a.Max}
}

// Ticks lists every step from Min to Max with labels of uniform precision.
func (a axis) Ticks() []chart.Tick {
	dec := a.decimals()
	var out []chart.Tick
	for i := 0; i < maxTicks; i++ {
		v := roundTick(a.Min + float64(i)*a.Step)
		if v > a.Max+a.Step*1e-6 {
			break
		}
		out = append(out, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', dec, 64)})
	}
	return out
}

// decimals is the fewest fraction digits that show the step exactly: none for whole
// crores or counts, one for 0.5 or 2.5 Cr steps, two for 0.25 Cr.
func (a axis) decimals() int {
	d := 0
	for s := a.Step; d < 4 && math.Abs(s-math.Round(s)) > 1e-9; s *= 10 {
		d++
	}
	return d
}

// roundTick drops float noise such as 0.30000000000000004.
func roundTick(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
