package analysis

import (
	"io"
	"math"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/iafilius/AuctionAnalysis/src/auction"
)

// Report bundles every summary of a dataset for machine consumption.
// Numbers that are undefined (NaN) encode as null.
type Report struct {
	Source              string        `json:"source"`
	Rows                int           `json:"rows"`
	Stats               StatsReport   `json:"stats"`
	TopPlayers          []GroupReport `json:"top_players"`
	TeamSpending        []GroupReport `json:"team_spending"`
	AverageTeamSpending []GroupReport `json:"average_team_spending"`
	RoleSpending        []GroupReport `json:"role_spending"`
}

// StatsReport is the JSON form of Stats.
type StatsReport struct {
	Count    int      `json:"count"`
	Mean     *float64 `json:"mean"`
	Median   *float64 `json:"median"`
	Mode     *float64 `json:"mode"`
	StdDev   *float64 `json:"std_dev"`
	Variance *float64 `json:"variance"`
	Range    *float64 `json:"range"`
}

// GroupReport is the JSON form of Group.
type GroupReport struct {
	Key   string   `json:"key"`
	Value *float64 `json:"value"`
	Count int      `json:"count"`
}

// BuildReport computes all summaries of ds. topN limits the top players table (<=0 means 10).
func BuildReport(ds *auction.Dataset, topN int) Report {
	if topN <= 0 {
		topN = 10
	}
	st := ComputeStats(ds.Prices())
	return Report{
		Source: ds.Source,
		Rows:   ds.Len(),
		Stats: StatsReport{
			Count:    st.Count,
			Mean:     num(st.Mean),
			Median:   num(st.Median),
			Mode:     num(st.Mode),
			StdDev:   num(st.StdDev),
			Variance: num(st.Variance),
			Range:    num(st.Range),
		},
		TopPlayers:          groupReports(TopPlayers(ds, topN)),
		TeamSpending:        groupReports(TeamSpending(ds)),
		AverageTeamSpending: groupReports(AverageTeamSpending(ds)),
		RoleSpending:        groupReports(RoleSpending(ds)),
	}
}

// WriteReportJSON encodes r as indented JSON.
func WriteReportJSON(w io.Writer, r Report) error {
	b, err := sonic.ConfigStd.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode report")
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return errors.Wrap(err, "write report")
	}
	return nil
}

func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func groupReports(gs []Group) []GroupReport {
	out := make([]GroupReport, 0, len(gs))
	for _, g := range gs {
		out = append(out, GroupReport{Key: g.Key, Value: num(g.Value), Count: g.Count})
	}
	return out
}
