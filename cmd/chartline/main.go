package main

import (
	"fmt"
	"os"

	"github.com/raykavin/chartline"
	"github.com/raykavin/chartline/pkg/core"
	"github.com/raykavin/chartline/pkg/drawing"
	"github.com/raykavin/chartline/pkg/feed"
	"github.com/raykavin/chartline/pkg/indicator"
	zeroadapter "github.com/raykavin/chartline/pkg/logger/zerolog"
	"github.com/raykavin/chartline/pkg/render"
	"github.com/raykavin/chartline/pkg/storage"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	// Render command flags
	csvFile    string
	pair       string
	resample   string
	period     string
	drawings   string
	outputFile string
	width      int
	height     int
	smaPeriods []int
	emaPeriods []int
	withRSI    int
	logLevel   string

	// Layout command flags
	dbFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "chartline",
		Short:   "Candlestick chart rendering with drawing annotations",
		Version: "1.0.0",
	}

	rootCmd.AddCommand(buildRenderCmd())
	rootCmd.AddCommand(buildLayoutsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRenderCmd() *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart PNG from a candle CSV file",
		RunE:  runRender,
	}

	renderCmd.Flags().StringVarP(&csvFile, "csv", "c", "", "Candle CSV file (time,open,close,low,high,volume)")
	renderCmd.Flags().StringVarP(&pair, "pair", "p", "UNKNOWN", "Pair label (e.g. BTCUSDT)")
	renderCmd.Flags().StringVar(&resample, "resample", "", "Resample candles to a timeframe (e.g. 15m, 1h, 1d)")
	renderCmd.Flags().StringVarP(&period, "period", "t", "", "Visible period (e.g. 1M, 3M, 1Y, ALL)")
	renderCmd.Flags().StringVarP(&drawings, "drawings", "d", "", "Drawing layout JSON file to overlay")
	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "chart.png", "Output PNG file")
	renderCmd.Flags().IntVar(&width, "width", 1280, "Canvas width in pixels")
	renderCmd.Flags().IntVar(&height, "height", 720, "Canvas height in pixels")
	renderCmd.Flags().IntSliceVar(&smaPeriods, "sma", nil, "SMA overlay periods")
	renderCmd.Flags().IntSliceVar(&emaPeriods, "ema", nil, "EMA overlay periods")
	renderCmd.Flags().IntVar(&withRSI, "rsi", 0, "RSI oscillator period (0 disables)")
	renderCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")

	if err := renderCmd.MarkFlagRequired("csv"); err != nil {
		panic(err)
	}

	return renderCmd
}

func runRender(_ *cobra.Command, _ []string) error {
	log, err := zeroadapter.New(logLevel, false)
	if err != nil {
		return err
	}

	candles, err := feed.LoadCSV(csvFile, pair)
	if err != nil {
		return err
	}

	if resample != "" {
		if candles, err = feed.Resample(candles, resample); err != nil {
			return err
		}
	}

	log.WithFields(map[string]any{"candles": len(candles), "pair": pair}).Info("loaded candle data")

	var indicators []indicator.Indicator
	for _, p := range smaPeriods {
		indicators = append(indicators, indicator.SMA{Period: p})
	}
	for _, p := range emaPeriods {
		indicators = append(indicators, indicator.EMA{Period: p})
	}
	if withRSI > 0 {
		indicators = append(indicators, indicator.RSI{Period: withRSI})
	}

	chart := chartline.New(
		chartline.WithLogger(log),
		chartline.WithIndicators(indicators...),
	)
	chart.SetCandles(candles)
	chart.SetCanvasSize(float64(width), float64(height))

	if period != "" {
		chart.ApplyTimeframe(period)
	}

	if drawings != "" {
		payload, err := os.ReadFile(drawings)
		if err != nil {
			return err
		}
		if !chart.ImportJSON(payload) {
			return fmt.Errorf("drawing layout %s was rejected", drawings)
		}
		log.WithField("objects", chart.Engine().ObjectCount()).Info("imported drawing layout")
	}

	canvas, err := render.NewImageCanvas(width, height)
	if err != nil {
		return err
	}

	chart.RenderTo(canvas)

	out, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := canvas.SavePNG(out); err != nil {
		return err
	}

	log.WithField("file", outputFile).Info("chart rendered")
	return nil
}

func buildLayoutsCmd() *cobra.Command {
	layoutsCmd := &cobra.Command{
		Use:   "layouts",
		Short: "Manage saved drawing layouts",
	}

	layoutsCmd.PersistentFlags().StringVar(&dbFile, "db", "chartline.db", "Layout database file")

	layoutsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved layouts",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := storage.NewFromFile(dbFile)
			if err != nil {
				return err
			}
			defer store.Close()

			names, err := store.List()
			if err != nil {
				return err
			}

			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	})

	layoutsCmd.AddCommand(&cobra.Command{
		Use:   "export <name> <file>",
		Short: "Export a layout to a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := storage.NewFromFile(dbFile)
			if err != nil {
				return err
			}
			defer store.Close()

			data, err := store.LoadJSON(args[0])
			if err != nil {
				return err
			}
			return os.WriteFile(args[1], data, 0o644)
		},
	})

	layoutsCmd.AddCommand(&cobra.Command{
		Use:   "import <name> <file>",
		Short: "Import a layout from a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := storage.NewFromFile(dbFile)
			if err != nil {
				return err
			}
			defer store.Close()

			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			var layout drawing.Layout
			if !importable(data, &layout) {
				return fmt.Errorf("file %s is not a valid layout", args[1])
			}
			return store.Save(args[0], layout)
		},
	})

	layoutsCmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := storage.NewFromFile(dbFile)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Delete(args[0])
		},
	})

	return layoutsCmd
}

// importable validates a layout payload by running it through a scratch
// engine, which applies the same sanitization as a live import.
func importable(data []byte, layout *drawing.Layout) bool {
	probe := drawing.NewEngine(noSpace{}, drawing.DefaultConfig())
	if !probe.ImportObjects(data) {
		return false
	}

	*layout = probe.ExportObjects()
	return true
}

// noSpace is a degenerate coordinate space for offline validation.
type noSpace struct{}

func (noSpace) WorldToScreen(w core.WorldPoint) core.ScreenPoint {
	return core.ScreenPoint{X: float64(w.T), Y: w.P}
}

func (noSpace) ScreenToWorld(s core.ScreenPoint) core.WorldPoint {
	return core.WorldPoint{T: int64(s.X), P: s.Y}
}

func (noSpace) BarTimes() []int64 { return nil }
func (noSpace) PriceRange() (float64, float64) { return 0, 1 }
func (noSpace) Size() (float64, float64) { return 1, 1 }
