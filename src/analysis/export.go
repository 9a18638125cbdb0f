package analysis

import (
	"encoding/csv"
	"io"
	"math"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/iafilius/AuctionAnalysis/src/auction"
)

// WriteTeamSpendingCSV writes the per-team price sums as a two-column CSV with a header of the
// team and price column names. Teams appear in key order.
func WriteTeamSpendingCSV(w io.Writer, ds *auction.Dataset) error {
	if ds == nil {
		return auction.ErrNoDataset
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ds.Columns.Team, ds.Columns.Price}); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, g := range TeamSpending(ds) {
		v := ""
		if !math.IsNaN(g.Value) {
			v = FormatPrice(g.Value, ds.IntegerPrices)
		}
		if err := cw.Write([]string{g.Key, v}); err != nil {
			return errors.Wrapf(err, "write team %q", g.Key)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush team spending")
}

// SaveTeamSpendingCSV writes the team spending export to path.
func SaveTeamSpendingCSV(path string, ds *auction.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := WriteTeamSpendingCSV(f, ds); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", path)
	}
	auction.Infof("team spending saved to %s", path)
	return nil
}
