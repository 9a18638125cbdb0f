package auction

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Player Name,Base Price,Type,Cost in Rs. (CR),2023 Squad
Sam Curran,2.0,All-Rounder,18.5,PBKS
Cameron Green,2.0,All-Rounder,17.5,MI
Ben Stokes,2.0,All-Rounder,16.25,CSK
Unsold Guy,0.5,Batter,,
`

func TestReadCSV_Basic(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV), "auction.csv", DefaultColumns())
	require.NoError(t, err)
	require.Equal(t, 4, ds.Len())
	assert.Equal(t, "auction.csv", ds.Source)
	assert.Equal(t, Player{Name: "Sam Curran", Team: "PBKS", Role: "All-Rounder", Price: 18.5}, ds.Players[0])
	assert.Equal(t, "", ds.Players[3].Team)
	assert.True(t, math.IsNaN(ds.Players[3].Price), "empty price should be missing")
	assert.Equal(t, []float64{18.5, 17.5, 16.25}, ds.Prices())
}

func TestReadCSV_BOMAndThousands(t *testing.T) {
	in := "\ufeffPlayer Name ,2023 Squad,Type,Cost in Rs. (CR)\n\"Rich, Player\",GT,Bowler,\"1,200.5\"\n"
	ds, err := ReadCSV(strings.NewReader(in), "bom.csv", DefaultColumns())
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "Rich, Player", ds.Players[0].Name)
	assert.InDelta(t, 1200.5, ds.Players[0].Price, 1e-9)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	in := "Player Name,Type,Cost in Rs. (CR)\nA,Batter,1\n"
	_, err := ReadCSV(strings.NewReader(in), "x.csv", DefaultColumns())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "2023 Squad")
}

func TestReadCSV_InvalidPrice(t *testing.T) {
	in := "Player Name,2023 Squad,Type,Cost in Rs. (CR)\nA,MI,Batter,1\nB,MI,Batter,abc\n"
	_, err := ReadCSV(strings.NewReader(in), "x.csv", DefaultColumns())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestReadCSV_NATokensAreMissing(t *testing.T) {
	tokens := []string{"NA", "N/A", "n/a", "null", "NULL", "None", "#N/A", "-nan", "NaN", "<NA>", " NA "}
	for _, tok := range tokens {
		t.Run(tok, func(t *testing.T) {
			in := "Player Name,2023 Squad,Type,Cost in Rs. (CR)\n" +
				"A,MI,Batter,1\n" +
				"B," + tok + "," + tok + "," + tok + "\n"
			ds, err := ReadCSV(strings.NewReader(in), "x.csv", DefaultColumns())
			require.NoError(t, err)
			require.Equal(t, 2, ds.Len())
			b := ds.Players[1]
			assert.False(t, b.HasPrice())
			assert.Equal(t, "", b.Team)
			assert.Equal(t, "", b.Role)
			assert.Equal(t, []float64{1}, ds.Prices())
		})
	}
	// Only exact tokens count; "na" and "NA team" are real values.
	in := "Player Name,2023 Squad,Type,Cost in Rs. (CR)\nA,na,NA team,1\n"
	ds, err := ReadCSV(strings.NewReader(in), "x.csv", DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, "na", ds.Players[0].Team)
	assert.Equal(t, "NA team", ds.Players[0].Role)
}

func TestReadCSV_IntegerPrices(t *testing.T) {
	cases := []struct {
		prices string
		want   bool
	}{
		{"2\n3\n", true},
		{"2\n3.0\n", false},
		{"2\n\n", false},
		{"2\nNA\n", false},
		{"\"1,200\"\n4\n", true},
	}
	for _, c := range cases {
		in := "Player Name,2023 Squad,Type,Cost in Rs. (CR)\n"
		for i, p := range strings.Split(strings.TrimSuffix(c.prices, "\n"), "\n") {
			in += string(rune('A'+i)) + ",MI,Batter," + p + "\n"
		}
		ds, err := ReadCSV(strings.NewReader(in), "x.csv", DefaultColumns())
		require.NoError(t, err, c.prices)
		assert.Equal(t, c.want, ds.IntegerPrices, "%q", c.prices)
	}
}

func TestReadCSV_EmptyFile(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "empty.csv", DefaultColumns())
	require.Error(t, err)
}

func TestReadCSV_ShortRowsAndCustomColumns(t *testing.T) {
	cols := Columns{Player: "name", Team: "team", Role: "role", Price: "price"}
	in := "name,team,role,price\nA,X,Batter,3\nB,Y\n"
	ds, err := ReadCSV(strings.NewReader(in), "c.csv", cols)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "", ds.Players[1].Role)
	assert.False(t, ds.Players[1].HasPrice())
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "auction.csv")
	require.NoError(t, os.WriteFile(p, []byte(sampleCSV), 0o644))
	ds, err := LoadFile(p, DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, "auction.csv", ds.Source)

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.csv"), DefaultColumns())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestHolder(t *testing.T) {
	var h Holder
	_, err := h.Current()
	assert.True(t, errors.Is(err, ErrNoDataset))
	assert.False(t, h.Loaded())

	first := &Dataset{Source: "a.csv"}
	h.Set(first)
	h.Set(nil)
	got, err := h.Current()
	require.NoError(t, err)
	assert.Same(t, first, got)

	second := &Dataset{Source: "b.csv"}
	h.Set(second)
	got, _ = h.Current()
	assert.Same(t, second, got)
}
