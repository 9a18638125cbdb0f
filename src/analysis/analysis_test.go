package analysis

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iafilius/AuctionAnalysis/src/auction"
)

// fixture returns a small table with a row lacking a team and a row lacking a price.
func fixture() *auction.Dataset {
	nan := math.NaN()
	return &auction.Dataset{
		Source:  "fixture.csv",
		Columns: auction.DefaultColumns(),
		Players: []auction.Player{
			{Name: "A", Team: "MI", Role: "Batter", Price: 10},
			{Name: "B", Team: "MI", Role: "Bowler", Price: 4},
			{Name: "C", Team: "CSK", Role: "Batter", Price: 6},
			{Name: "D", Team: "CSK", Role: "All-Rounder", Price: 4},
			{Name: "E", Team: "", Role: "Bowler", Price: 2},
			{Name: "F", Team: "GT", Role: "Batter", Price: nan},
		},
	}
}

func keys(gs []Group) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.Key
	}
	return out
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats(fixture().Prices())
	assert.Equal(t, 5, st.Count)
	assert.InDelta(t, 5.2, st.Mean, 1e-9)
	assert.InDelta(t, 4, st.Median, 1e-9)
	assert.InDelta(t, 4, st.Mode, 1e-9)
	assert.InDelta(t, 9.2, st.Variance, 1e-9)
	assert.InDelta(t, math.Sqrt(9.2), st.StdDev, 1e-9)
	assert.InDelta(t, 8, st.Range, 1e-9)

	want := "Mean Price: 5.20 Cr\n" +
		"Median Price: 4.00 Cr\n" +
		"Mode Price: 4.00 Cr\n" +
		"Standard Deviation: 3.03 Cr\n" +
		"Variance: 9.20 Cr\n" +
		"Price Range: 8.00 Cr"
	assert.Equal(t, want, st.Text())
}

func TestComputeStats_EdgeCases(t *testing.T) {
	// ties pick the smallest value; even counts average the middle pair
	st := ComputeStats([]float64{3, 1, 3, 1, 2, math.NaN()})
	assert.Equal(t, 1.0, st.Mode)
	assert.Equal(t, 2.0, st.Median)

	one := ComputeStats([]float64{5})
	assert.Equal(t, 5.0, one.Mean)
	assert.Equal(t, 0.0, one.Range)
	assert.True(t, math.IsNaN(one.StdDev))
	assert.True(t, math.IsNaN(one.Variance))
	assert.Contains(t, one.Text(), "Standard Deviation: nan Cr")

	none := ComputeStats(nil)
	assert.Equal(t, 0, none.Count)
	assert.True(t, math.IsNaN(none.Mean))
	assert.Equal(t, 6, len(strings.Split(none.Text(), "\n")))
}

func TestGroupReductions(t *testing.T) {
	ds := fixture()

	team := TeamSpending(ds)
	assert.Equal(t, []string{"CSK", "GT", "MI"}, keys(team))
	assert.Equal(t, 10.0, team[0].Value)
	assert.Equal(t, 0.0, team[1].Value)
	assert.Equal(t, 0, team[1].Count)
	assert.Equal(t, 14.0, team[2].Value)

	avg := AverageTeamSpending(ds)
	assert.Equal(t, []string{"MI", "CSK", "GT"}, keys(avg))
	assert.Equal(t, 7.0, avg[0].Value)
	assert.Equal(t, 5.0, avg[1].Value)
	assert.True(t, math.IsNaN(avg[2].Value))

	roles := RoleSpending(ds)
	assert.Equal(t, []string{"Batter", "Bowler", "All-Rounder"}, keys(roles))
	assert.Equal(t, 16.0, roles[0].Value)

	top := TopPlayers(ds, 3)
	assert.Equal(t, []string{"A", "C", "B"}, keys(top))
	assert.Len(t, TopPlayers(ds, 0), 6)

	assert.InDelta(t, 24.0, Total(team), 1e-9)
	assert.Nil(t, GroupBy(nil, ByTeam, Sum))
	assert.Equal(t, "2023 Squad", ByTeam.Column(ds))
}

func TestTopPlayers_SumsDuplicateNames(t *testing.T) {
	ds := &auction.Dataset{Players: []auction.Player{
		{Name: "X", Price: 1}, {Name: "Y", Price: 3}, {Name: "X", Price: 2.5},
	}}
	top := TopPlayers(ds, 10)
	require.Len(t, top, 2)
	assert.Equal(t, "X", top[0].Key)
	assert.Equal(t, 3.5, top[0].Value)
	assert.Equal(t, 2, top[0].Count)
}

func TestPriceHistogram(t *testing.T) {
	var prices []float64
	for i := 0; i <= 10; i++ {
		prices = append(prices, float64(i))
	}
	h := PriceHistogram(prices, 5)
	assert.Equal(t, []int{2, 2, 2, 2, 3}, h.Counts)
	assert.Equal(t, 2.0, h.Width)
	assert.Equal(t, []float64{0, 2, 4, 6, 8, 10}, h.Edges)
	assert.Equal(t, []float64{1, 3, 5, 7, 9}, h.Centers())
	require.Len(t, h.KDEX, kdePoints)
	require.Len(t, h.KDEY, kdePoints)
	assert.Equal(t, 0.0, h.KDEX[0])
	assert.InDelta(t, 10.0, h.KDEX[kdePoints-1], 1e-9)
	for _, y := range h.KDEY {
		assert.Greater(t, y, 0.0)
	}

	def := PriceHistogram(prices, 0)
	assert.Len(t, def.Counts, DefaultHistogramBins)

	flat := PriceHistogram([]float64{3, 3}, 4)
	assert.Equal(t, 2.5, flat.Edges[0])
	assert.Equal(t, 3.5, flat.Edges[4])
	total := 0
	for _, c := range flat.Counts {
		total += c
	}
	assert.Equal(t, 2, total)
	assert.Nil(t, flat.KDEY)

	assert.Empty(t, PriceHistogram([]float64{math.NaN()}, 5).Counts)
}

func TestFindPlayer(t *testing.T) {
	ds := fixture()

	res, err := FindPlayer(ds, "  a ")
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, "Player Name: A\nTeam: MI\nRole: Batter\nPrice: 10.0 Crores\n", res.Text())

	res, err = FindPlayer(ds, "ZZ top")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, "No player found with name: Zz top", res.Text())

	res, err = FindPlayer(ds, "e")
	require.NoError(t, err)
	assert.Contains(t, res.Text(), "Team: nan\n")

	res, _ = FindPlayer(ds, "f")
	assert.Contains(t, res.Text(), "Price: nan Crores")

	_, err = FindPlayer(ds, "   ")
	assert.True(t, errors.Is(err, ErrEmptyQuery))
}

func TestFindPlayer_FirstMatchWins(t *testing.T) {
	ds := &auction.Dataset{Players: []auction.Player{
		{Name: "Same", Team: "T1", Price: 1},
		{Name: "SAME", Team: "T2", Price: 2},
	}}
	res, err := FindPlayer(ds, "same")
	require.NoError(t, err)
	assert.Equal(t, "T1", res.Player.Team)
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		2:          "2.0",
		16.25:      "16.25",
		18.5:       "18.5",
		-3:         "-3.0",
		math.NaN(): "nan",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in))
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "2", FormatPrice(2, true))
	assert.Equal(t, "2.0", FormatPrice(2, false))
	assert.Equal(t, "16.25", FormatPrice(16.25, true))
	assert.Equal(t, "nan", FormatPrice(math.NaN(), true))
}

func TestIntegerPricesPrintWithoutDecimal(t *testing.T) {
	in := "Player Name,2023 Squad,Type,Cost in Rs. (CR)\nA,MI,Batter,2\nB,MI,Bowler,3\nC,CSK,Batter,7\n"
	ds, err := auction.ReadCSV(strings.NewReader(in), "ints.csv", auction.DefaultColumns())
	require.NoError(t, err)
	require.True(t, ds.IntegerPrices)

	var buf bytes.Buffer
	require.NoError(t, WriteTeamSpendingCSV(&buf, ds))
	assert.Equal(t, "2023 Squad,Cost in Rs. (CR)\nCSK,7\nMI,5\n", buf.String())

	res, err := FindPlayer(ds, "a")
	require.NoError(t, err)
	assert.Contains(t, res.Text(), "Price: 2 Crores\n")
}

func TestWriteTeamSpendingCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTeamSpendingCSV(&buf, fixture()))
	assert.Equal(t, "2023 Squad,Cost in Rs. (CR)\nCSK,10.0\nGT,0.0\nMI,14.0\n", buf.String())

	err := WriteTeamSpendingCSV(&buf, nil)
	assert.True(t, errors.Is(err, auction.ErrNoDataset))
}

func TestSaveTeamSpendingCSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "team_spending.csv")
	require.NoError(t, SaveTeamSpendingCSV(p, fixture()))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "2023 Squad,"))

	err = SaveTeamSpendingCSV(filepath.Join(t.TempDir(), "missing", "x.csv"), fixture())
	assert.Error(t, err)
}

func TestReportJSON(t *testing.T) {
	r := BuildReport(fixture(), 2)
	assert.Equal(t, 6, r.Rows)
	assert.Len(t, r.TopPlayers, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteReportJSON(&buf, r))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "fixture.csv", decoded["source"])
	stats := decoded["stats"].(map[string]any)
	assert.InDelta(t, 5.2, stats["mean"].(float64), 1e-9)

	avg := decoded["average_team_spending"].([]any)
	require.Len(t, avg, 3)
	last := avg[2].(map[string]any)
	assert.Equal(t, "GT", last["key"])
	assert.Nil(t, last["value"])
}
