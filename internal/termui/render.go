package termui

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tradelingo/sim"
)

// Snapshot collects everything the replay summary prints.
type Snapshot struct {
	Now        time.Time
	Asset      sim.Instrument
	Candles    int
	FinalIndex int
	Balance    float64
	Equity     float64
	Pending    int
	Open       int
	Closed     []sim.ClosedTrade
	Score      sim.DisciplineScore
}

var printer = message.NewPrinter(language.English)

// Render prints a one-screen replay summary to stdout.
func Render(s Snapshot) {
	now := s.Now
	if now.IsZero() {
		now = time.Now()
	}

	fmt.Println("╔══════════════════════════════════════════════════════════════════════════╗")
	printer.Printf("║  Replay summary  %-12s %-41s ║\n", s.Asset.ID, now.Format("2006-01-02 15:04:05"))
	fmt.Println("╠══════════════════════════════════════════════════════════════════════════╣")
	printer.Printf("║  Candles: %-6d  Cursor: %-6d  Balance: %12.2f  Equity: %12.2f ║\n",
		s.Candles, s.FinalIndex, s.Balance, s.Equity)
	fmt.Println("╠══════════════════════════════════════════════════════════════════════════╣")

	fmt.Println("║  Closed trades                                                           ║")
	fmt.Println("║  Side    Size     Entry        Exit         PnL         Reason           ║")
	fmt.Println("╟──────────────────────────────────────────────────────────────────────────╢")
	closed := append([]sim.ClosedTrade(nil), s.Closed...)
	sort.Slice(closed, func(i, j int) bool { return closed[i].CloseTime.Before(closed[j].CloseTime) })
	if len(closed) == 0 {
		fmt.Println("║  (none)                                                                  ║")
	}
	for _, ct := range closed {
		printer.Printf("║  %-6s  %-7.2f  %-11.5f  %-11.5f  %+10.2f  %-15s  ║\n",
			ct.Side, ct.Size, ct.EntryPrice, ct.ExitPrice, ct.Pnl, ct.Reason)
	}

	fmt.Println("╟──────────────────────────────────────────────────────────────────────────╢")
	printer.Printf("║  Open: %-3d  Pending: %-3d                                                 ║\n",
		s.Open, s.Pending)
	printer.Printf("║  Discipline %5.1f  (stop usage %5.1f%%, violations %5.1f%%, trades %d)",
		s.Score.Score, s.Score.StopUsageRate, s.Score.ViolationRate, s.Score.TotalTrades)
	fmt.Println()
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════╝")
}
