package analysis

import (
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/iafilius/AuctionAnalysis/src/auction"
)

// EmptyQueryMessage is shown when the search box is blank.
const EmptyQueryMessage = "Please enter a valid player name."

// ErrEmptyQuery is returned by FindPlayer for a blank query.
var ErrEmptyQuery = errors.New("empty player name")

// LookupResult is the outcome of a player search.
type LookupResult struct {
	Query  string // normalized (trimmed, lower-cased) query
	Found  bool
	Player auction.Player
	// IntegerPrice mirrors Dataset.IntegerPrices for the price line.
	IntegerPrice bool
}

// FindPlayer does a case-insensitive exact match on the player name column and returns the
// first matching row.
func FindPlayer(ds *auction.Dataset, query string) (LookupResult, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return LookupResult{}, ErrEmptyQuery
	}
	res := LookupResult{Query: q}
	if ds == nil {
		return res, nil
	}
	res.IntegerPrice = ds.IntegerPrices
	for _, p := range ds.Players {
		if p.Name != "" && strings.ToLower(p.Name) == q {
			res.Found = true
			res.Player = p
			break
		}
	}
	auction.Debugf("lookup %q found=%v", q, res.Found)
	return res, nil
}

// Text renders the lookup result for the result label.
func (r LookupResult) Text() string {
	if !r.Found {
		return "No player found with name: " + capitalize(r.Query)
	}
	var b strings.Builder
	b.WriteString("Player Name: " + r.Player.Name + "\n")
	b.WriteString("Team: " + missingText(r.Player.Team) + "\n")
	b.WriteString("Role: " + missingText(r.Player.Role) + "\n")
	b.WriteString("Price: " + FormatPrice(r.Player.Price, r.IntegerPrice) + " Crores\n")
	return b.String()
}

func missingText(s string) string {
	if s == "" {
		return "nan"
	}
	return s
}

// capitalize upper-cases the first letter and lower-cases the rest ("ms DHONI" -> "Ms dhoni").
func capitalize(s string) string {
	rs := []rune(strings.ToLower(s))
	if len(rs) == 0 {
		return ""
	}
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}
