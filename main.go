package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tradelingo/api"
	"tradelingo/chart"
	"tradelingo/config"
	"tradelingo/internal/termui"
	"tradelingo/journal"
	"tradelingo/logger"
	"tradelingo/sim"
)

var (
	configPath   string
	port         int
	scenarioPath string
	chartOut     string
	assetID      string
	candleCount  int
	chartWindow  int
)

func main() {
	flag.StringVar(&configPath, "config", "", "config file path (YAML)")
	flag.IntVar(&port, "port", 0, "HTTP port (overrides config)")
	flag.StringVar(&scenarioPath, "scenario", "", "run a headless replay scenario (YAML) and exit")
	flag.StringVar(&chartOut, "chart", "", "render a chart SVG to the given path and exit")
	flag.StringVar(&assetID, "asset", "EUR/USD", "asset for -chart mode")
	flag.IntVar(&candleCount, "candles", 500, "series length for -chart mode")
	flag.IntVar(&chartWindow, "window", 100, "visible candles for -chart mode")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if scenarioPath != "" {
		if err := runScenario(scenarioPath, chartOut); err != nil {
			log.Error("scenario failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if chartOut != "" {
		if err := renderChartFile(chartOut, assetID, candleCount, chartWindow); err != nil {
			log.Error("chart render failed", zap.Error(err))
			os.Exit(1)
		}
		log.Info("chart written", zap.String("path", chartOut))
		return
	}

	serve(cfg, log)
}

func serve(cfg *config.Config, log *zap.Logger) {
	if port != 0 {
		cfg.Server.Port = port
	}

	journalClient := journal.NewClient(cfg.Journal.BaseURL, cfg.Journal.Timeout, log)
	server := api.NewServer(cfg.Server.Port, api.SessionDefaults{
		Candles:       cfg.Replay.Candles,
		InitialOffset: cfg.Replay.InitialOffset,
		Window:        cfg.Replay.Window,
		Balance:       cfg.Replay.Balance,
	}, journalClient, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	if err := server.Shutdown(); err != nil {
		log.Warn("shutdown incomplete", zap.Error(err))
	}
}

// runScenario replays a YAML scenario to the end of its series and prints a
// summary. When chartPath is set the final window is also rendered to SVG.
func runScenario(path, chartPath string) error {
	sc, err := sim.LoadScenario(path)
	if err != nil {
		return err
	}
	res := sim.RunScenario(sc)

	var trades []sim.TradeResult
	for _, ct := range res.Closed {
		trades = append(trades, sim.TradeResult{
			Direction: ct.Side,
			StopLoss:  ct.StopLoss,
			ResultInR: sim.ResultInR(ct.EntryPrice, ct.ExitPrice, ct.StopLoss, ct.Side),
		})
	}

	termui.Render(termui.Snapshot{
		Now:        time.Now(),
		Asset:      res.Instrument,
		Candles:    res.Candles,
		FinalIndex: res.Candles - 1,
		Balance:    res.FinalBalance,
		Equity:     res.FinalEquity,
		Pending:    res.PendingLeft,
		Open:       res.OpenLeft,
		Closed:     res.Closed,
		Score:      sim.Discipline(trades),
	})

	for _, rej := range res.Rejected {
		fmt.Fprintf(os.Stderr, "rejected: %v\n", rej)
	}

	if chartPath != "" {
		// The series is deterministic per instrument, so regenerating it
		// reproduces exactly what the scenario replayed.
		return renderChartFile(chartPath, res.Instrument.ID, res.Candles, chartWindow)
	}
	return nil
}

func renderChartFile(path, asset string, candles, window int) error {
	inst, ok := sim.AssetByID(asset)
	if !ok {
		return fmt.Errorf("unknown asset: %q", asset)
	}
	series := sim.Generate(inst, candles)
	if window <= 0 {
		window = sim.DefaultWindow
	}
	if window > len(series) {
		window = len(series)
	}
	scene, err := chart.BuildScene(chart.View{
		Asset:   inst.ID,
		Candles: series[len(series)-window:],
	}, 980, 520)
	if err != nil {
		return err
	}
	return os.WriteFile(path, chart.RenderSVG(scene), 0o644)
}
