package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/Fermi-Capital/trading-streams-research/internal/exchange"
	"github.com/Fermi-Capital/trading-streams-research/internal/indicator"
	"github.com/Fermi-Capital/trading-streams-research/internal/models"
	"github.com/Fermi-Capital/trading-streams-research/internal/modules/config"
	"github.com/Fermi-Capital/trading-streams-research/internal/strategy"
	"github.com/Fermi-Capital/trading-streams-research/internal/tracker"
)

// Консольный сканер сходимости сигналов: раз в 10 секунд печатает
// последний wave- и MACD-сигнал по каждому интервалу свечи. Чем крупнее
// свеча, тем выше порог prominence.

func loadSettings() (*config.Config, map[string]float64, error) {
	v := viper.New()
	v.SetConfigName("signals")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("pair.base", "SOL")
	v.SetDefault("pair.quote", "USD")
	v.SetDefault("intervals", map[string]float64{
		"1": 1.6, "5": 3, "15": 5, "30": 7, "60": 8, "240": 17,
	})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, nil, pkgerrors.Wrap(err, "read signals config")
		}
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "base config")
	}
	cfg.Pair.Base = v.GetString("pair.base")
	cfg.Pair.Quote = v.GetString("pair.quote")

	intervals := make(map[string]float64)
	for k, raw := range v.GetStringMap("intervals") {
		switch val := raw.(type) {
		case float64:
			intervals[k] = val
		case int:
			intervals[k] = float64(val)
		case string:
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				intervals[k] = f
			}
		}
	}
	return cfg, intervals, nil
}

// closeFooter — строка с последней ценой; при полностью пустом проходе
// (все интервалы не достались) печатать нечего.
func closeFooter(lastClose float64) (string, bool) {
	if lastClose <= 0 {
		return "", false
	}
	return fmt.Sprintf("current close price: $%.4f", lastClose), true
}

func main() {
	cfg, intervals, err := loadSettings()
	if err != nil {
		log.Fatal(err)
	}

	mx, err := exchange.NewClient(cfg)
	if err != nil {
		log.Fatal(err)
	}

	keys := make([]string, 0, len(intervals))
	for k := range intervals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})

	trk := tracker.New()
	pair := cfg.PairName()
	ctx := context.Background()

	for {
		log.Println("----------------- Trade Update -----------------")
		var lastClose float64

		for _, interval := range keys {
			series, err := mx.OHLC(ctx, pair, interval)
			if err != nil {
				log.Printf("[SCAN] %s/%s fetch: %v", pair, interval, err)
				continue
			}
			lastClose = series.Last().Close

			wave := strategy.NewWave(strategy.WaveConfig{
				Level:      1,
				Prominence: intervals[interval],
				Distance:   10,
			})
			ev, err := wave.Evaluate(series)
			if err != nil {
				log.Printf("[SCAN] %s/%s evaluate: %v", pair, interval, err)
				continue
			}
			st := trk.Update(pair+":"+interval, series, ev.Signals)

			macd := indicator.MACD(series.Closes())
			macdLast := macd.Position[len(macd.Position)-1]

			bias := "Sell"
			if st.LastNonZero == models.SignalBuy {
				bias = "Buy"
			}
			log.Printf("(%s Minute Candle) Last PV Signal: (%+d): %s | periods since: %d @ %.4f ---- Last MACD Signal: (%d)",
				interval, st.LastNonZero, bias, st.PeriodsSince, st.LastNonZeroPrice, macdLast)
		}

		if line, ok := closeFooter(lastClose); ok {
			log.Println(line)
		}
		time.Sleep(10 * time.Second)
	}
}
