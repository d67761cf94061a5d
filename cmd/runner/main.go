package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/mstrvictor/prosperity3/config"
	"github.com/mstrvictor/prosperity3/gateway"
	"github.com/mstrvictor/prosperity3/logs"
	"github.com/mstrvictor/prosperity3/market"
	"github.com/mstrvictor/prosperity3/metrics"
	"github.com/mstrvictor/prosperity3/monitor"
	"github.com/mstrvictor/prosperity3/risk"
	"github.com/mstrvictor/prosperity3/strategy"
	"github.com/mstrvictor/prosperity3/trader"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "config file path")
	ticksPath := flag.String("ticks", "-", "tick snapshot source: file of JSON lines, or - for stdin")
	wsURL := flag.String("ws", "", "websocket tick feed URL; overrides -ticks when set")
	watch := flag.Bool("watch", false, "hot-reload the config file on change")
	metricsAddr := flag.String("metricsAddr", "", "Prometheus listen address; overrides config when set")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logs.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	addr := cfg.MetricsAddr
	if *metricsAddr != "" {
		addr = *metricsAddr
	}
	if addr != "" {
		metrics.StartServer(addr)
	}

	recorder := monitor.NewRecorder(os.Stderr, logger)
	eng := &engine{
		recorder: recorder,
		metrics:  metrics.NewEngine(nil),
		log:      logger,
		out:      os.Stdout,
	}
	eng.apply(cfg, recorder)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *watch {
		watcher := config.Watcher{Path: *cfgPath}
		go func() {
			err := watcher.Start(ctx, func(next config.AppConfig) {
				eng.apply(next, recorder)
				logger.Info("config reloaded", zap.Int("products", len(next.Products)))
			})
			if err != nil && ctx.Err() == nil {
				logger.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	if *wsURL != "" {
		feed := gateway.NewFeedClient(*wsURL, logger)
		if err := feed.Run(ctx, eng); err != nil && ctx.Err() == nil {
			logger.Fatal("tick feed failed", zap.Error(err))
		}
		return
	}

	if err := runFromLines(ctx, *ticksPath, eng); err != nil {
		logger.Fatal("tick loop failed", zap.Error(err))
	}
}

// engine wires one tick through the trader and reports the result on stdout
// as {"orders", "conversions", "trader_data"}. It carries no state across
// ticks: continuity travels through each snapshot's trader_data field.
type engine struct {
	mu       sync.Mutex
	trader   *trader.Trader
	limits   map[string]int
	recorder *monitor.Recorder
	metrics  *metrics.Engine
	log      *zap.Logger
	out      io.Writer
}

// apply swaps in strategies built from cfg; used at startup and on reload.
func (e *engine) apply(cfg config.AppConfig, sink trader.Sink) {
	symbols := make([]string, 0, len(cfg.Products))
	for symbol := range cfg.Products {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	strategies := make([]strategy.Strategy, 0, len(symbols))
	limits := make(map[string]int, len(symbols))
	for _, symbol := range symbols {
		p := cfg.Products[symbol]
		est, err := strategy.NewEstimator(p.Estimator.Kind, symbol, p.Estimator.Value, p.Estimator.Bias)
		if err != nil {
			// Validate has already rejected unknown kinds.
			e.log.Error("skip product", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		strategies = append(strategies, strategy.NewMarketMaker(symbol, p.Limit, est))
		limits[symbol] = p.Limit
	}

	e.mu.Lock()
	e.trader = trader.New(strategies, sink)
	e.limits = limits
	e.mu.Unlock()
}

func (e *engine) OnTick(state *market.TickState) {
	e.mu.Lock()
	defer e.mu.Unlock()

	orders, conversions, blob := e.trader.Run(state)

	for symbol, list := range orders {
		if limit, ok := e.limits[symbol]; ok {
			if err := risk.CheckOrders(symbol, state.Position(symbol), limit, list); err != nil {
				// A breach is a logic defect; refusing to continue beats
				// emitting orders that violate the exchange contract.
				e.log.Fatal("position limit invariant violated", zap.Error(err))
			}
		}
		e.metrics.ObserveOrders(symbol, list)
	}
	for symbol := range e.limits {
		e.metrics.Position.WithLabelValues(symbol).Set(float64(state.Position(symbol)))
		if _, ok := state.OrderDepths[symbol]; !ok {
			e.metrics.SkippedTicks.WithLabelValues(symbol).Inc()
		}
	}
	e.metrics.TicksTotal.Inc()

	result := struct {
		Orders      map[string][]market.Order `json:"orders"`
		Conversions int                       `json:"conversions"`
		TraderData  string                    `json:"trader_data"`
	}{orders, conversions, blob}
	encoded, err := json.Marshal(result)
	if err != nil {
		e.log.Error("encode tick result", zap.Error(err))
		return
	}
	fmt.Fprintln(e.out, string(encoded))
}

// runFromLines feeds the engine one JSON snapshot per input line.
func runFromLines(ctx context.Context, path string, eng *engine) error {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		state, err := gateway.ParseTick(line)
		if err != nil {
			eng.log.Warn("skip malformed tick", zap.Error(err))
			continue
		}
		eng.OnTick(state)
	}
	return scanner.Err()
}
