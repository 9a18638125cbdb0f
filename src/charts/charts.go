// Package charts renders the auction charts to images with go-chart. Renderers never fail:
// when the chart library rejects the data they return a blank image of the requested size.
package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/AuctionAnalysis/src/analysis"
	"github.com/iafilius/AuctionAnalysis/src/auction"
)

// Kind identifies one of the five auction charts.
type Kind int

const (
	TopPlayers Kind = iota
	TeamSpending
	AverageTeamSpending
	PriceDistribution
	RoleSpending
)

// Kinds lists every chart in display order.
var Kinds = []Kind{TopPlayers, TeamSpending, AverageTeamSpending, PriceDistribution, RoleSpending}

// Title is the heading drawn on the chart.
func (k Kind) Title() string {
	switch k {
	case TopPlayers:
		return "Top Players by Auction Price"
	case TeamSpending:
		return "Total Spending by Team"
	case AverageTeamSpending:
		return "Average Player Price by Team"
	case PriceDistribution:
		return "Distribution of Player Prices"
	case RoleSpending:
		return "Total Spending by Player Role"
	}
	return "Unknown Chart"
}

// FileName is the default PNG name for exports.
func (k Kind) FileName() string {
	switch k {
	case TopPlayers:
		return "top_players.png"
	case TeamSpending:
		return "team_spending.png"
	case AverageTeamSpending:
		return "average_team_spending.png"
	case PriceDistribution:
		return "price_distribution.png"
	case RoleSpending:
		return "role_spending.png"
	}
	return "chart.png"
}

// Options control chart size and content.
type Options struct {
	Width  int
	Height int
	TopN   int    // players in the top players chart; <=0 means 10
	Bins   int    // histogram bins; <=0 means analysis.DefaultHistogramBins
	Hint   string // optional caption drawn at the bottom-left
}

// DefaultOptions matches the viewer's initial chart area.
func DefaultOptions() Options {
	return Options{Width: 1000, Height: 600, TopN: 10, Bins: analysis.DefaultHistogramBins}
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 1000
	}
	if h <= 0 {
		h = 600
	}
	return w, h
}

// Colors used by the bar charts and the Set2 palette of the team pie.
var (
	ColorOrange     = drawing.ColorFromHex("ffa500")
	ColorSkyBlue    = drawing.ColorFromHex("87ceeb")
	ColorLightGreen = drawing.ColorFromHex("90ee90")
	ColorHistogram  = drawing.ColorFromHex("4c72b0")

	set2 = []drawing.Color{
		drawing.ColorFromHex("66c2a5"),
		drawing.ColorFromHex("fc8d62"),
		drawing.ColorFromHex("8da0cb"),
		drawing.ColorFromHex("e78ac3"),
		drawing.ColorFromHex("a6d854"),
		drawing.ColorFromHex("ffd92f"),
		drawing.ColorFromHex("e5c494"),
		drawing.ColorFromHex("b3b3b3"),
	}
)

// Render draws chart k for ds.
func Render(k Kind, ds *auction.Dataset, opts Options) image.Image {
	var img image.Image
	switch k {
	case TopPlayers:
		n := opts.TopN
		if n <= 0 {
			n = 10
		}
		img = renderBars(k.Title(), "Player", "Price (in Crores)", analysis.TopPlayers(ds, n), ColorOrange, opts)
	case TeamSpending:
		img = renderTeamPie(ds, opts)
	case AverageTeamSpending:
		img = renderBars(k.Title(), "Team", "Average Price (in Crores)", analysis.AverageTeamSpending(ds), ColorSkyBlue, opts)
	case PriceDistribution:
		img = renderHistogram(ds, opts)
	case RoleSpending:
		img = renderBars(k.Title(), "Role", "Total Price (in Crores)", analysis.RoleSpending(ds), ColorLightGreen, opts)
	default:
		w, h := opts.size()
		img = Blank(w, h)
	}
	if opts.Hint != "" {
		img = DrawHint(img, opts.Hint)
	}
	return img
}

// barWidth fits n bars and their spacing into the plot width.
func barWidth(n, width int) (int, int) {
	if n <= 0 {
		return 40, 10
	}
	slot := (width - 120) / n
	spacing := slot / 4
	bw := slot - spacing
	if bw > 60 {
		bw = 60
	}
	if bw < 4 {
		bw = 4
	}
	if spacing < 2 {
		spacing = 2
	}
	return bw, spacing
}

func renderBars(title, xName, yName string, groups []analysis.Group, fill drawing.Color, opts Options) image.Image {
	w, h := opts.size()
	bars := make([]chart.Value, 0, len(groups))
	maxY := 0.0
	for _, g := range groups {
		if math.IsNaN(g.Value) {
			continue
		}
		bars = append(bars, chart.Value{
			Label: g.Key,
			Value: g.Value,
			Style: chart.Style{FillColor: fill, StrokeColor: fill.WithAlpha(255), StrokeWidth: 1},
		})
		maxY = math.Max(maxY, g.Value)
	}
	if len(bars) == 0 {
		auction.Debugf("%s: nothing to draw", title)
		return Blank(w, h)
	}
	bw, spacing := barWidth(len(bars), w)
	ya := newAxis(0, maxY, 6, true)
	bc := chart.BarChart{
		Title:      title,
		Width:      w,
		Height:     h,
		BarWidth:   bw,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 110}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: ya.Range(),
			Ticks: ya.Ticks(),
		},
		Bars: bars,
	}
	img := renderPNG(title, w, h, func(out io.Writer) error { return bc.Render(chart.PNG, out) })
	return drawAxisCaption(img, xName)
}

func renderTeamPie(ds *auction.Dataset, opts Options) image.Image {
	w, h := opts.size()
	groups := analysis.TeamSpending(ds)
	total := analysis.Total(groups)
	vals := make([]chart.Value, 0, len(groups))
	for i, g := range groups {
		if g.Value <= 0 || total <= 0 {
			continue
		}
		c := set2[i%len(set2)]
		vals = append(vals, chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", g.Key, g.Value/total*100),
			Value: g.Value,
			Style: chart.Style{FillColor: c, StrokeColor: drawing.ColorWhite, StrokeWidth: 1},
		})
	}
	if len(vals) == 0 {
		return Blank(w, h)
	}
	pc := chart.PieChart{
		Title:      TeamSpending.Title(),
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Values:     vals,
	}
	return renderPNG(pc.Title, w, h, func(out io.Writer) error { return pc.Render(chart.PNG, out) })
}

func renderHistogram(ds *auction.Dataset, opts Options) image.Image {
	w, h := opts.size()
	hist := analysis.PriceHistogram(ds.Prices(), opts.Bins)
	if len(hist.Counts) == 0 {
		return Blank(w, h)
	}
	xs := hist.Centers()
	ys := make([]float64, len(hist.Counts))
	maxY := 0.0
	for i, c := range hist.Counts {
		ys[i] = float64(c)
		maxY = math.Max(maxY, ys[i])
	}
	for _, y := range hist.KDEY {
		maxY = math.Max(maxY, y)
	}
	fill := ColorHistogram.WithAlpha(160)
	series := []chart.Series{
		chart.HistogramSeries{
			Name:        "Frequency",
			Style:       chart.Style{FillColor: fill, StrokeColor: ColorHistogram, StrokeWidth: 1},
			InnerSeries: chart.ContinuousSeries{XValues: xs, YValues: ys},
		},
	}
	if len(hist.KDEX) > 1 {
		series = append(series, chart.ContinuousSeries{
			Name:    "KDE",
			XValues: hist.KDEX,
			YValues: hist.KDEY,
			Style:   chart.Style{StrokeColor: ColorHistogram, StrokeWidth: 2},
		})
	}
	xa := newAxis(hist.Edges[0], hist.Edges[len(hist.Edges)-1], 8, false)
	ya := newAxis(0, maxY, 6, true)
	c := chart.Chart{
		Title:      PriceDistribution.Title(),
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Price (in Crores)",
			Range: xa.Range(),
			Ticks: xa.Ticks(),
		},
		YAxis: chart.YAxis{
			Name:  "Frequency",
			Range: ya.Range(),
			Ticks: ya.Ticks(),
		},
		Series: series,
	}
	return renderPNG(c.Title, w, h, func(out io.Writer) error { return c.Render(chart.PNG, out) })
}

// renderPNG runs a go-chart render and decodes the result, falling back to a blank image.
func renderPNG(title string, w, h int, render func(io.Writer) error) image.Image {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		auction.Warnf("%s render error: %v; showing blank fallback", title, err)
		return Blank(w, h)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		auction.Warnf("%s decode error: %v; showing blank fallback", title, err)
		return Blank(w, h)
	}
	return img
}

// Blank returns a plain light image, used as placeholder and render fallback.
func Blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 245, G: 245, B: 245, A: 255}), image.Point{}, draw.Src)
	return img
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if img == nil {
		return errors.New("no image to encode")
	}
	return png.Encode(w, img)
}

// drawAxisCaption writes the category axis name centered under the rotated bar labels;
// go-chart bar charts have no X axis title.
func drawAxisCaption(img image.Image, text string) image.Image {
	if img == nil || text == "" {
		return img
	}
	rgba := toRGBA(img)
	b := rgba.Bounds()
	x := b.Min.X + (b.Dx()-textWidth(text))/2
	drawText(rgba, x, b.Max.Y-8, text, color.Black)
	return rgba
}

// DrawHint stamps a source footer in the bottom-right corner on a light plate so it stays
// readable over bars and slices.
func DrawHint(img image.Image, text string) image.Image {
	text = strings.TrimSpace(text)
	if img == nil || text == "" {
		return img
	}
	rgba := toRGBA(img)
	b := rgba.Bounds()
	const margin, pad = 6, 4
	face := basicfont.Face7x13
	x := b.Max.X - margin - pad - textWidth(text)
	if x < b.Min.X+pad {
		x = b.Min.X + pad
	}
	y := b.Max.Y - margin - pad
	plate := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, b.Max.X-margin, y+face.Metrics().Descent.Ceil()+pad)
	draw.Draw(rgba, plate, image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 220}), image.Point{}, draw.Over)
	drawText(rgba, x, y, text, color.RGBA{R: 70, G: 70, B: 70, A: 255})
	return rgba
}

func textWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}

// drawText writes text with its baseline starting at (x,y).
func drawText(dst *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}
