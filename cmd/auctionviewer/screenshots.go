package main

import (
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/iafilius/AuctionAnalysis/src/auction"
	"github.com/iafilius/AuctionAnalysis/src/charts"
	"github.com/iafilius/AuctionAnalysis/src/config"
)

// screenshotWidthOverride forces the chart width in headless mode when > 0 (tests).
var screenshotWidthOverride int

// RunScreenshotsMode renders every chart for filePath and writes them as PNGs under outDir.
// It runs headlessly without creating a UI window.
func RunScreenshotsMode(filePath, outDir string, cfg config.Config) error {
	defer auction.TimeTrack(time.Now(), "screenshots")
	if filePath == "" {
		return errors.New("screenshots mode needs -file")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "create out dir")
	}
	ds, err := auction.LoadFile(filePath, cfg.Columns())
	if err != nil {
		return err
	}
	st := &uiState{cfg: cfg}
	st.data.Set(ds)
	opts := chartOptions(st)
	if screenshotWidthOverride > 0 {
		opts.Width = screenshotWidthOverride
	}
	opts.Hint = "Source: " + ds.Source

	pool, err := ants.NewPool(len(charts.Kinds))
	if err != nil {
		return errors.Wrap(err, "create render pool")
	}
	defer pool.Release()

	errs := make(chan error, len(charts.Kinds))
	var workers sync.WaitGroup
	for _, k := range charts.Kinds {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			errs <- writeChartPNG(filepath.Join(outDir, k.FileName()), charts.Render(k, ds, opts))
		}); err != nil {
			workers.Done()
			return errors.Wrap(err, "submit render task")
		}
	}
	workers.Wait()
	close(errs)

	var all []error
	for err := range errs {
		if err != nil {
			all = append(all, err)
		}
	}
	if len(all) == 0 {
		return nil
	}
	return errors.Join(all...)
}

func writeChartPNG(out string, img image.Image) error {
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "create %s", out)
	}
	if err := charts.EncodePNG(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", out)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", out)
	}
	auction.Infof("wrote %s", out)
	return nil
}
