// Package auction holds the auction table model: CSV loading, the loaded-dataset holder and the
// package-wide leveled logger.
package auction

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Default column names of the IPL 2023 auction export.
const (
	DefaultPlayerColumn = "Player Name"
	DefaultTeamColumn   = "2023 Squad"
	DefaultRoleColumn   = "Type"
	DefaultPriceColumn  = "Cost in Rs. (CR)"
)

var (
	// ErrNoDataset is returned by Holder.Current before the first successful load.
	ErrNoDataset = errors.New("no dataset loaded")
	// ErrMissingColumn marks a header lacking one of the required columns.
	ErrMissingColumn = errors.New("missing column")
)

// naTokens are the cell values read as missing, the same set pandas.read_csv uses by default.
// Matching is exact after trimming surrounding whitespace.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a raw cell value denotes a missing value.
func IsMissing(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// Columns maps the fields the program consumes to CSV header names.
type Columns struct {
	Player string
	Team   string
	Role   string
	Price  string
}

// DefaultColumns returns the header names used by the auction export.
func DefaultColumns() Columns {
	return Columns{
		Player: DefaultPlayerColumn,
		Team:   DefaultTeamColumn,
		Role:   DefaultRoleColumn,
		Price:  DefaultPriceColumn,
	}
}

// Player is one auctioned player. Empty text fields are missing values; a missing
// price is NaN.
type Player struct {
	Name  string
	Team  string
	Role  string
	Price float64
}

// HasPrice reports whether the price cell was present.
func (p Player) HasPrice() bool { return !math.IsNaN(p.Price) }

// Dataset is a loaded auction table. It is never mutated after ReadCSV returns.
type Dataset struct {
	Source  string
	Columns Columns
	Players []Player
	// IntegerPrices is set when every row has a price written as a whole number ("2",
	// not "2.0" or blank). Such a column prints without a decimal part.
	IntegerPrices bool
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Players)
}

// Prices returns the non-missing prices in row order.
func (d *Dataset) Prices() []float64 {
	if d == nil {
		return nil
	}
	out := make([]float64, 0, len(d.Players))
	for _, p := range d.Players {
		if p.HasPrice() {
			out = append(out, p.Price)
		}
	}
	return out
}

// LoadFile opens path and parses it with ReadCSV. The dataset source is the file's base name.
func LoadFile(path string, cols Columns) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f, filepath.Base(path), cols)
}

// ReadCSV parses an auction CSV. The header row must name every column in cols.
func ReadCSV(r io.Reader, source string, cols Columns) (*Dataset, error) {
	defer TimeTrack(time.Now(), "read "+source)
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.Newf("%s: empty file", source)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s: read header", source)
	}
	idx := map[string]int{}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	col := func(name string) (int, error) {
		i, ok := idx[name]
		if !ok {
			return 0, errors.Wrapf(ErrMissingColumn, "%s: %q", source, name)
		}
		return i, nil
	}
	nameIx, err := col(cols.Player)
	if err != nil {
		return nil, err
	}
	teamIx, err := col(cols.Team)
	if err != nil {
		return nil, err
	}
	roleIx, err := col(cols.Role)
	if err != nil {
		return nil, err
	}
	priceIx, err := col(cols.Price)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Source: source, Columns: cols}
	allInts := true
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "%s: row %d", source, line)
		}
		if blankRecord(rec) {
			continue
		}
		raw := cell(rec, priceIx)
		price, err := parsePrice(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: row %d column %q", source, line, cols.Price)
		}
		allInts = allInts && isIntegerLiteral(raw)
		ds.Players = append(ds.Players, Player{
			Name:  cell(rec, nameIx),
			Team:  cell(rec, teamIx),
			Role:  cell(rec, roleIx),
			Price: price,
		})
	}
	ds.IntegerPrices = allInts && len(ds.Players) > 0
	Debugf("loaded %d rows from %s (integer prices: %v)", len(ds.Players), source, ds.IntegerPrices)
	return ds, nil
}

// cell returns the trimmed value at i; short rows and NA tokens give "".
func cell(rec []string, i int) string {
	if i >= len(rec) || IsMissing(rec[i]) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// isIntegerLiteral reports whether a non-missing price cell is written as a whole number.
func isIntegerLiteral(s string) bool {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parsePrice accepts plain decimals with optional thousands separators. Empty cells and NA
// tokens are missing.
func parsePrice(s string) (float64, error) {
	if IsMissing(s) {
		return math.NaN(), nil
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Newf("invalid price %q", s)
	}
	return v, nil
}
