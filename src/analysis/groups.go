package analysis

import (
	"math"
	"sort"

	"github.com/iafilius/AuctionAnalysis/src/auction"
)

// GroupKey selects the categorical column to partition by.
type GroupKey int

const (
	ByPlayer GroupKey = iota
	ByTeam
	ByRole
)

func (k GroupKey) String() string {
	switch k {
	case ByPlayer:
		return "player"
	case ByTeam:
		return "team"
	case ByRole:
		return "role"
	}
	return "unknown"
}

// Column returns the header name of the key column in ds.
func (k GroupKey) Column(ds *auction.Dataset) string {
	switch k {
	case ByPlayer:
		return ds.Columns.Player
	case ByTeam:
		return ds.Columns.Team
	default:
		return ds.Columns.Role
	}
}

func (k GroupKey) value(p auction.Player) string {
	switch k {
	case ByPlayer:
		return p.Name
	case ByTeam:
		return p.Team
	default:
		return p.Role
	}
}

// Reduction is the per-group price reduction.
type Reduction int

const (
	Sum Reduction = iota
	Mean
)

// Group is one partition of a group-by reduction. Count is the number of priced rows.
type Group struct {
	Key   string
	Value float64
	Count int
}

// GroupBy partitions rows by key and reduces their prices. Rows with a missing key are dropped.
// A group with no priced rows sums to 0 and averages to NaN. Groups are returned in ascending key order.
func GroupBy(ds *auction.Dataset, key GroupKey, red Reduction) []Group {
	if ds == nil {
		return nil
	}
	type acc struct {
		sum float64
		n   int
	}
	byKey := map[string]*acc{}
	for _, p := range ds.Players {
		k := key.value(p)
		if k == "" {
			continue
		}
		a := byKey[k]
		if a == nil {
			a = &acc{}
			byKey[k] = a
		}
		if p.HasPrice() {
			a.sum += p.Price
			a.n++
		}
	}
	out := make([]Group, 0, len(byKey))
	for k, a := range byKey {
		g := Group{Key: k, Count: a.n, Value: a.sum}
		if red == Mean {
			if a.n == 0 {
				g.Value = math.NaN()
			} else {
				g.Value = a.sum / float64(a.n)
			}
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// SortDescending orders groups by value, largest first; ties and NaN fall back to key order
// with NaN values last.
func SortDescending(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Value, groups[j].Value
		an, bn := math.IsNaN(a), math.IsNaN(b)
		switch {
		case an && bn:
			return groups[i].Key < groups[j].Key
		case an:
			return false
		case bn:
			return true
		case a != b:
			return a > b
		}
		return groups[i].Key < groups[j].Key
	})
}

// TopPlayers sums prices per player name and returns the n most expensive.
func TopPlayers(ds *auction.Dataset, n int) []Group {
	g := GroupBy(ds, ByPlayer, Sum)
	SortDescending(g)
	if n > 0 && len(g) > n {
		g = g[:n]
	}
	return g
}

// TeamSpending sums prices per team in team order.
func TeamSpending(ds *auction.Dataset) []Group {
	return GroupBy(ds, ByTeam, Sum)
}

// AverageTeamSpending averages prices per team, most expensive first.
func AverageTeamSpending(ds *auction.Dataset) []Group {
	g := GroupBy(ds, ByTeam, Mean)
	SortDescending(g)
	return g
}

// RoleSpending sums prices per player role, largest first.
func RoleSpending(ds *auction.Dataset) []Group {
	g := GroupBy(ds, ByRole, Sum)
	SortDescending(g)
	return g
}

// Total returns the sum of group values, ignoring NaN.
func Total(groups []Group) float64 {
	var t float64
	for _, g := range groups {
		if !math.IsNaN(g.Value) {
			t += g.Value
		}
	}
	return t
}
