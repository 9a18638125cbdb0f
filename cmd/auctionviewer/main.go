package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/cockroachdb/errors"

	"github.com/iafilius/AuctionAnalysis/cmd/auctionviewer/uihelpers"
	"github.com/iafilius/AuctionAnalysis/src/analysis"
	"github.com/iafilius/AuctionAnalysis/src/auction"
	"github.com/iafilius/AuctionAnalysis/src/charts"
	"github.com/iafilius/AuctionAnalysis/src/config"
)

type uiState struct {
	app      fyne.App
	window   fyne.Window
	cfg      config.Config
	data     auction.Holder
	filePath string

	// chart currently on display; hasChart is false until the first plot
	chartKind charts.Kind
	hasChart  bool

	// notify replaces the information dialog when set (headless tests)
	notify func(title, msg string)

	// widgets
	chartImg    *canvas.Image
	resultLabel *widget.Label
	searchEntry *widget.Entry
	fileLabel   *widget.Label
}

func main() {
	var fileFlag, shotsDir, logLevel string
	flag.StringVar(&fileFlag, "file", "", "Path to an auction CSV to load at start")
	flag.StringVar(&shotsDir, "screenshots", "", "Render all charts for -file into this directory and exit (no window)")
	flag.StringVar(&logLevel, "log-level", "", "Log level override: debug, info, warn, error")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		auction.Warnf("config: %v; using defaults", err)
		cfg = config.Default()
	}
	auction.SetLogLevel(cfg.LogLevel)
	if logLevel != "" {
		if !auction.ValidLogLevel(logLevel) {
			fmt.Fprintf(os.Stderr, "unknown -log-level %q\n", logLevel)
			os.Exit(2)
		}
		auction.SetLogLevel(logLevel)
	}

	if shotsDir != "" {
		if err := RunScreenshotsMode(fileFlag, shotsDir, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.auction.viewer")
	w := a.NewWindow("IPL 2023 Auction Analysis")
	w.Resize(fyne.NewSize(850, 600))

	state := &uiState{app: a, window: w, cfg: cfg}
	w.SetContent(buildContent(state))
	buildMenus(state)
	watchResize(state)

	if f := startupFile(state, fileFlag); f != "" {
		loadPath(state, f, false)
	}
	w.ShowAndRun()
}

// buildContent lays out the scrollable column: chart area first, then the controls.
func buildContent(state *uiState) fyne.CanvasObject {
	state.chartImg = canvas.NewImageFromImage(charts.Blank(10, 10))
	state.chartImg.FillMode = canvas.ImageFillContain
	state.chartImg.Hide()

	state.resultLabel = widget.NewLabel("")
	state.searchEntry = widget.NewEntry()
	state.searchEntry.SetPlaceHolder("Player name")
	state.searchEntry.OnSubmitted = func(string) { searchPlayer(state) }
	state.fileLabel = widget.NewLabel("")

	button := func(label string, imp widget.Importance, fn func()) *widget.Button {
		b := widget.NewButton(label, fn)
		b.Importance = imp
		return b
	}
	plot := func(k charts.Kind) func() { return func() { plotChart(state, k) } }

	column := container.NewVBox(
		state.chartImg,
		button("Upload Dataset", widget.HighImportance, func() { uploadDataset(state) }),
		state.fileLabel,
		state.resultLabel,
		widget.NewLabel("Search Player:"),
		state.searchEntry,
		button("Find Player", widget.SuccessImportance, func() { searchPlayer(state) }),
		widget.NewSeparator(),
		button("Plot Top Players by Auction Price", widget.WarningImportance, plot(charts.TopPlayers)),
		button("Plot Team Spending Analysis", widget.SuccessImportance, plot(charts.TeamSpending)),
		button("Plot Average Player Price by Team", widget.MediumImportance, plot(charts.AverageTeamSpending)),
		button("Plot Price Distribution", widget.HighImportance, plot(charts.PriceDistribution)),
		button("Plot Spending by Player Role", widget.LowImportance, plot(charts.RoleSpending)),
		button("Save Analysis Results", widget.DangerImportance, func() { saveAnalysisResults(state) }),
	)
	return container.NewVScroll(container.NewPadded(column))
}

// menus and shortcuts
func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(uihelpers.TruncatePath(f, 60), func() { loadPath(state, f, true) }))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Upload Dataset…", func() { uploadDataset(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Analysis Results…", func() { saveAnalysisResults(state) }),
		fyne.NewMenuItem("Export Chart PNG…", func() { exportChartPNG(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu))

	canv := state.window.Canvas()
	if canv == nil {
		return
	}
	for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: mod}, func(fyne.Shortcut) { uploadDataset(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: mod}, func(fyne.Shortcut) { saveAnalysisResults(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { state.window.Close() })
	}
}

// watchResize redraws the current chart when the window width changes so it scales with the window.
func watchResize(state *uiState) {
	w := state.window
	if w.Canvas() == nil {
		return
	}
	prevW := int(w.Canvas().Size().Width)
	done := make(chan struct{})
	w.SetOnClosed(func() { close(done) })
	go func() {
		t := time.NewTicker(300 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				c := w.Canvas()
				if c == nil {
					continue
				}
				curW := int(c.Size().Width)
				if curW != prevW {
					prevW = curW
					fyne.Do(func() { redrawChart(state) })
				}
			}
		}
	}()
}

func showMessage(state *uiState, title, msg string) {
	if state.notify != nil {
		state.notify(title, msg)
		return
	}
	dialog.NewInformation(title, msg, state.window).Show()
}

// startupFile picks the dataset to open at launch: the -file flag, else the last file loaded
// in a previous session if it still exists.
func startupFile(state *uiState, fileFlag string) string {
	if fileFlag != "" {
		return fileFlag
	}
	if state.app == nil {
		return ""
	}
	last := state.app.Preferences().StringWithFallback("lastFile", "")
	if last == "" {
		return ""
	}
	if _, err := os.Stat(last); err != nil {
		auction.Debugf("last file %s not reopened: %v", last, err)
		return ""
	}
	return last
}

// writeAndClose runs write against wc and closes it; a failed close fails the save.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	if err := write(wc); err != nil {
		wc.Close()
		return err
	}
	return errors.Wrap(wc.Close(), "close output")
}

// uploadDataset asks for a CSV file and loads it.
func uploadDataset(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		if rc == nil {
			showMessage(state, "File Selection", "No file was selected!")
			return
		}
		defer rc.Close()
		loadReader(state, rc, rc.URI().Name(), rc.URI().Path(), true)
	}, state.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	d.Show()
}

// loadPath loads a CSV from the filesystem (command line flag, recent files menu).
func loadPath(state *uiState, path string, notify bool) {
	f, err := os.Open(path)
	if err != nil {
		showLoadError(state, err)
		return
	}
	defer f.Close()
	loadReader(state, f, filepath.Base(path), path, notify)
}

func loadReader(state *uiState, r io.Reader, name, path string, notify bool) {
	auction.Infof("selected file: %s", path)
	ds, err := auction.ReadCSV(r, name, state.cfg.Columns())
	if err != nil {
		showLoadError(state, err)
		return
	}
	state.data.Set(ds)
	state.filePath = path
	if state.fileLabel != nil {
		state.fileLabel.SetText(fmt.Sprintf("%s (%d rows)", uihelpers.TruncatePath(path, 60), ds.Len()))
	}
	addRecentFile(state, path)
	buildMenus(state)
	if notify {
		showMessage(state, "File Loaded", fmt.Sprintf("Dataset loaded successfully from %s!", name))
	}
	analyzeData(state)
}

func showLoadError(state *uiState, err error) {
	auction.Errorf("load failed: %v", err)
	dialog.ShowError(errors.Newf("Failed to load the dataset. Error: %v", err), state.window)
}

// currentDataset returns the loaded dataset or tells the user to upload one first.
func currentDataset(state *uiState) (*auction.Dataset, bool) {
	ds, err := state.data.Current()
	if err != nil {
		showMessage(state, "Data Not Loaded", "Please upload a dataset first.")
		return nil, false
	}
	return ds, true
}

// analyzeData shows the price statistics in the result label.
func analyzeData(state *uiState) {
	ds, ok := currentDataset(state)
	if !ok {
		return
	}
	st := analysis.ComputeStats(ds.Prices())
	auction.Debugf("stats over %d prices: mean=%.3f median=%.3f", st.Count, st.Mean, st.Median)
	state.resultLabel.SetText(st.Text())
}

func searchPlayer(state *uiState) {
	ds, ok := currentDataset(state)
	if !ok {
		return
	}
	res, err := analysis.FindPlayer(ds, state.searchEntry.Text)
	if errors.Is(err, analysis.ErrEmptyQuery) {
		showMessage(state, "Input Error", analysis.EmptyQueryMessage)
		return
	}
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.resultLabel.SetText(res.Text())
}

// plotChart replaces the displayed chart with chart k.
func plotChart(state *uiState, k charts.Kind) {
	if _, ok := currentDataset(state); !ok {
		return
	}
	state.chartKind = k
	state.hasChart = true
	redrawChart(state)
}

func redrawChart(state *uiState) {
	if !state.hasChart || state.chartImg == nil {
		return
	}
	ds, err := state.data.Current()
	if err != nil {
		return
	}
	opts := chartOptions(state)
	state.chartImg.Image = charts.Render(state.chartKind, ds, opts)
	state.chartImg.SetMinSize(fyne.NewSize(float32(opts.Width), float32(opts.Height)))
	state.chartImg.Show()
	state.chartImg.Refresh()
}

// chartOptions sizes charts from the window width; headless callers get the defaults.
func chartOptions(state *uiState) charts.Options {
	opts := charts.DefaultOptions()
	opts.TopN = state.cfg.TopN
	opts.Bins = state.cfg.HistBins
	if state.window != nil && state.window.Canvas() != nil {
		opts.Width, opts.Height = uihelpers.ComputeChartDimensions(int(state.window.Canvas().Size().Width) - 40)
	}
	return opts
}

// saveAnalysisResults writes the per-team spending table to a user-chosen CSV.
func saveAnalysisResults(state *uiState) {
	ds, ok := currentDataset(state)
	if !ok {
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		if wc == nil {
			return
		}
		if err := writeAndClose(wc, func(w io.Writer) error { return analysis.WriteTeamSpendingCSV(w, ds) }); err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		auction.Infof("analysis results saved to %s", wc.URI().Path())
		showMessage(state, "Save Successful", fmt.Sprintf("Analysis results saved to %s!", wc.URI().Name()))
	}, state.window)
	fs.SetFileName(uihelpers.EnsureExt("team_spending", ".csv"))
	fs.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	fs.Show()
}

// exportChartPNG saves the displayed chart image.
func exportChartPNG(state *uiState) {
	if state.chartImg == nil || state.chartImg.Image == nil || !state.hasChart {
		showMessage(state, "Export", "No chart to export.")
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		img := state.chartImg.Image
		if err := writeAndClose(wc, func(w io.Writer) error { return charts.EncodePNG(w, img) }); err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		auction.Infof("chart exported to %s", wc.URI().Path())
	}, state.window)
	fs.SetFileName(uihelpers.EnsureExt(state.chartKind.FileName(), ".png"))
	fs.Show()
}

// recent files helpers
func recentFiles(state *uiState) []string {
	raw := state.app.Preferences().StringWithFallback("recentFiles", "")
	var out []string
	for _, p := range uihelpers.ParseRecentFiles(raw) {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentFile(state *uiState, path string) {
	if state.app == nil || path == "" {
		return
	}
	list := uihelpers.AddRecentFile(recentFiles(state), path)
	state.app.Preferences().SetString("recentFiles", strings.Join(list, "\n"))
	state.app.Preferences().SetString("lastFile", path)
}

func clearRecentFiles(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}
