package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"main/internal/bus"
	"main/internal/exercise"
	"main/internal/instrument"
	"main/internal/journal"
	"main/internal/market"
	"main/internal/model"
	"main/internal/ops"
	"main/internal/order"
	"main/internal/sizing"
	"main/pkg/conn"
	"main/pkg/sched"
)

type portfolio struct {
	total decimal.Decimal
}

func (p portfolio) TotalValue() decimal.Decimal {
	return p.total
}

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	tickCount := flag.Int("ticks", 500, "Synthetic ticks to load per instrument")
	profileAddr := flag.String("profile-addr", "", "Pyroscope server address (empty=disabled)")
	flag.Parse()

	if *profileAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "sim",
			ServerAddress:   *profileAddr,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	loaded, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := run(context.Background(), loaded, *tickCount); err != nil {
		log.Fatalf("sim failed: %v", err)
	}
}

func run(ctx context.Context, loaded ops.Loaded, tickCount int) error {
	nyse := market.NewYorkEquity()
	spy := instrument.NewEquity("SPY", nyse)
	eurusd := instrument.NewForex("EURUSD", market.FxWeek())
	btcusd := instrument.NewCrypto("BTCUSD", market.TwentyFourSeven(), instrument.Properties{
		PriceIncrement: decimal.NewFromFloat(0.01),
	})
	spx := instrument.NewIndex("SPX", nyse)
	instruments := []*instrument.Instrument{spy, eurusd, btcusd, spx}

	queue := bus.NewQueue(1024)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumeEvents(ctx, queue, loaded)
	}()

	if err := loadTicks(loaded, instruments, tickCount); err != nil {
		return err
	}

	demoExpiry(queue, eurusd)
	demoExercise(queue, spx, nyse)
	demoSizing(loaded, spy, eurusd)

	queue.Close()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-sys.Shutdown():
		logs.Info("shutdown requested")
	case <-ctx.Done():
	}
	return nil
}

// loadTicks drives every instrument's synthetic history through the
// weighted scheduler, consuming one rate-limit token per batch the way a
// real data fetch would.
func loadTicks(loaded ops.Loaded, instruments []*instrument.Instrument, tickCount int) error {
	scheduler := sched.New(loaded.Workers, loaded.Budget)
	scheduler.Start()

	base := time.Now().UTC().AddDate(0, 0, -1)
	var pending sync.WaitGroup
	var failed atomic.Bool
	for idx, inst := range instruments {
		inst := inst
		remaining := int64(tickCount)
		start := decimal.NewFromInt(int64(100 * (idx + 1)))
		pending.Add(1)
		item := &sched.WorkItem{
			Name: inst.Symbol,
			Weight: func() int {
				// instruments with more outstanding history load first
				return int(atomic.LoadInt64(&remaining))
			},
			Step: func(budget int) bool {
				if err := loaded.Bucket.Consume(1, 5*time.Second); err != nil {
					logs.Errorf("rate limit timed out for %s, aborting load", inst.Symbol)
					failed.Store(true)
					pending.Done()
					return false
				}
				n := int64(budget)
				if n > atomic.LoadInt64(&remaining) {
					n = atomic.LoadInt64(&remaining)
				}
				offset := int64(tickCount) - atomic.LoadInt64(&remaining)
				for k := int64(0); k < n; k++ {
					step := offset + k
					price := start.Add(decimal.NewFromFloat(math.Sin(float64(step)/25) * 2))
					inst.ApplyTick(model.Tick{
						Symbol: inst.Symbol,
						Time:   base.Add(time.Duration(step) * time.Minute),
						Price:  price,
						Volume: decimal.NewFromInt(1),
					})
				}
				if atomic.AddInt64(&remaining, -n) > 0 {
					return true
				}
				pending.Done()
				return false
			},
		}
		if err := scheduler.Submit(item); err != nil {
			return err
		}
	}
	pending.Wait()
	scheduler.Close()
	if failed.Load() {
		return fmt.Errorf("historical load incomplete, rate limiter starved")
	}
	logs.Infof("loaded %d ticks for %d instruments", tickCount, len(instruments))
	return nil
}

// demoExpiry shows a good-til-date FX order crossing its New York cutoff.
func demoExpiry(queue *bus.Queue, eurusd *instrument.Instrument) {
	now := time.Now().UTC()
	placed := now.AddDate(0, 0, -3)
	gtd := order.GoodTilDate(placed.AddDate(0, 0, 1))
	o := order.New(1001, eurusd.Symbol, decimal.NewFromInt(1000), decimal.Zero, placed, gtd)

	if gtd.IsExpired(eurusd, o, now) {
		if err := o.SetStatus(order.StatusExpired); err != nil {
			logs.Errorf("expire order %d: %+v", o.ID, err)
			return
		}
		ev := order.NewEvent(o, now, order.StatusExpired, decimal.Zero, decimal.Zero, decimal.Zero, "expired by time in force")
		if err := queue.TryPublishAll(ev); err != nil {
			logs.Errorf("publish expiry event: %+v", err)
		}
	}
}

// demoExercise settles an in-the-money index option held long.
func demoExercise(queue *bus.Queue, spx *instrument.Instrument, nyse *market.Exchange) {
	strike := spx.Price().Sub(decimal.NewFromInt(10))
	expiry := time.Now().UTC().Truncate(24 * time.Hour)
	contract := instrument.NewIndexOption("SPXW", spx, strike, instrument.RightCall, expiry, nyse)
	contract.ApplyFill(decimal.NewFromInt(2), decimal.NewFromInt(3), decimal.Zero)

	o := order.New(1002, contract.Symbol, contract.Holding().Quantity.Neg(), decimal.Zero, time.Now().UTC(), order.GoodTilCanceled())
	events, err := exercise.New().Exercise(contract, o, true, time.Now().UTC())
	if err != nil {
		logs.Errorf("exercise %s: %+v", contract.Symbol, err)
		return
	}
	if err := queue.TryPublishAll(events...); err != nil {
		logs.Errorf("publish exercise events: %+v", err)
	}
}

// demoSizing converts target percents into concrete quantities.
func demoSizing(loaded ops.Loaded, spy, eurusd *instrument.Instrument) {
	sizer := sizing.New(loaded.Sizing)
	view := portfolio{total: decimal.NewFromInt(1_000_000)}

	for _, req := range []struct {
		inst    *instrument.Instrument
		percent decimal.Decimal
	}{
		{spy, decimal.NewFromFloat(0.5)},
		{eurusd, decimal.NewFromFloat(-0.2)},
	} {
		target, err := sizer.Percent(view, req.inst, req.percent, false)
		if err != nil {
			logs.Errorf("sizing %s: %+v", req.inst.Symbol, err)
			continue
		}
		logs.Infof("target %s", target)
	}
}

func consumeEvents(ctx context.Context, queue *bus.Queue, loaded ops.Loaded) {
	var j *journal.Journal
	if loaded.Journal != nil {
		client, err := conn.New(*loaded.Journal)
		if err != nil {
			logs.Errorf("journal database unavailable: %+v", err)
		} else {
			defer client.Close()
			j, err = journal.New(client)
			if err != nil {
				logs.Errorf("journal init failed: %+v", err)
				j = nil
			}
		}
	}

	queue.Run(ctx, func(e order.Event) {
		logs.Infof("order %d %s %s qty=%s price=%s tag=%q",
			e.OrderID, e.Symbol, e.Status, e.FillQuantity, e.FillPrice, e.Message)
		if j != nil {
			if err := j.Append(e); err != nil {
				logs.Errorf("journal append: %+v", err)
			}
		}
	})
}
