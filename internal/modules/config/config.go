package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const configFilePathENV = "CONFIG_FILE"

// IntervalSpec — один цикл опроса: интервал свечи (минуты, формат Kraken)
// и порог prominence для wave на этом интервале.
type IntervalSpec struct {
	Interval   string  `yaml:"interval"`
	Prominence float64 `yaml:"prominence"`
}

type Config struct {
	Kraken struct {
		Key    string `yaml:"key"`
		Secret string `yaml:"secret"` // base64, как выдаёт Kraken
	} `yaml:"kraken"`

	Pair struct {
		Base  string `yaml:"base"`  // "SOL"
		Quote string `yaml:"quote"` // "USD"
	} `yaml:"pair"`

	Strategy struct {
		Name        string `yaml:"name"` // wave|ema|macd
		Level       int    `yaml:"level"`
		Distance    int    `yaml:"distance"`
		SignalDelay int    `yaml:"signal_delay"`
		EMAShort    int    `yaml:"ema_short"`
		EMALong     int    `yaml:"ema_long"`
	} `yaml:"strategy"`

	Trade struct {
		Volume  float64 `yaml:"volume"`
		Enabled bool    `yaml:"enabled"` // false = сигналим, но не шлём ордера
	} `yaml:"trade"`

	Loop struct {
		Intervals []IntervalSpec `yaml:"intervals"`
		// Пауза между циклами. При Align=true спим до следующей границы
		// Cadence по wall-clock (как "5 секунд после начала минуты").
		Cadence time.Duration `yaml:"cadence"`
		Align   bool          `yaml:"align"`
		Backoff time.Duration `yaml:"backoff"`
		Timeout time.Duration `yaml:"timeout"` // таймаут HTTP-вызовов биржи
	} `yaml:"loop"`

	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`

	Health struct {
		Addr string `yaml:"addr"`
	} `yaml:"health"`

	Stream struct {
		Enabled bool `yaml:"enabled"` // WS-тикер Kraken v2
	} `yaml:"stream"`

	DB string `yaml:"db_dsn"` // пусто = журнал выключен

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`
}

func (c *Config) PairName() string { return c.Pair.Base + c.Pair.Quote }

// WSSymbol — формат v2 WebSocket: "SOL/USD".
func (c *Config) WSSymbol() string { return c.Pair.Base + "/" + c.Pair.Quote }

// NewConfig читает YAML (если задан CONFIG_FILE), затем .env/окружение
// поверх. Значения из окружения всегда побеждают.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path := os.Getenv(configFilePathENV); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if cfg.Strategy.EMAShort >= cfg.Strategy.EMALong {
		return nil, fmt.Errorf("EMA_SHORT must be < EMA_LONG")
	}
	if cfg.Trade.Volume <= 0 {
		return nil, fmt.Errorf("TRADE_VOLUME must be positive")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setStr(&cfg.Kraken.Key, "KRAKEN_API_KEY")
	setStr(&cfg.Kraken.Secret, "KRAKEN_API_SECRET")
	setStr(&cfg.Pair.Base, "PAIR_BASE")
	setStr(&cfg.Pair.Quote, "PAIR_QUOTE")
	setStr(&cfg.Strategy.Name, "STRATEGY")
	setInt(&cfg.Strategy.Level, "WAVELET_LEVEL")
	setInt(&cfg.Strategy.Distance, "EXTREMA_DISTANCE")
	setInt(&cfg.Strategy.SignalDelay, "SIGNAL_DELAY")
	setInt(&cfg.Strategy.EMAShort, "EMA_SHORT")
	setInt(&cfg.Strategy.EMALong, "EMA_LONG")
	setFloat(&cfg.Trade.Volume, "TRADE_VOLUME")
	setBool(&cfg.Trade.Enabled, "TRADE_ENABLED")
	setDur(&cfg.Loop.Cadence, "LOOP_CADENCE")
	setBool(&cfg.Loop.Align, "LOOP_ALIGN")
	setDur(&cfg.Loop.Backoff, "LOOP_BACKOFF")
	setDur(&cfg.Loop.Timeout, "EXCHANGE_TIMEOUT")
	setStr(&cfg.API.Addr, "API_ADDR")
	setStr(&cfg.Health.Addr, "HEALTH_ADDR")
	setBool(&cfg.Stream.Enabled, "STREAM_ENABLED")
	setStr(&cfg.DB, "DATABASE_DSN")
	setStr(&cfg.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	setStr(&cfg.Jaeger.Host, "JAEGER_HOST")
	setInt(&cfg.Jaeger.Port, "JAEGER_PORT")

	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
	// INTERVALS="1:1.6,5:3,15:5" — интервал:prominence через запятую
	if v := os.Getenv("INTERVALS"); v != "" {
		if specs := parseIntervals(v); len(specs) > 0 {
			cfg.Loop.Intervals = specs
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Pair.Base == "" {
		cfg.Pair.Base = "SOL"
	}
	if cfg.Pair.Quote == "" {
		cfg.Pair.Quote = "USD"
	}
	if cfg.Strategy.Name == "" {
		cfg.Strategy.Name = "wave"
	}
	if cfg.Strategy.Level <= 0 {
		cfg.Strategy.Level = 1
	}
	if cfg.Strategy.Distance <= 0 {
		cfg.Strategy.Distance = 10
	}
	if cfg.Strategy.EMAShort <= 0 {
		cfg.Strategy.EMAShort = 12
	}
	if cfg.Strategy.EMALong <= 0 {
		cfg.Strategy.EMALong = 26
	}
	if cfg.Trade.Volume == 0 {
		cfg.Trade.Volume = 0.05
	}
	if len(cfg.Loop.Intervals) == 0 {
		cfg.Loop.Intervals = []IntervalSpec{{Interval: "1", Prominence: 1.1}}
	}
	if cfg.Loop.Cadence <= 0 {
		cfg.Loop.Cadence = 5 * time.Second
	}
	if cfg.Loop.Backoff <= 0 {
		cfg.Loop.Backoff = 10 * time.Second
	}
	if cfg.Loop.Timeout <= 0 {
		cfg.Loop.Timeout = 15 * time.Second
	}
	if cfg.API.Addr == "" {
		cfg.API.Addr = ":8081"
	}
	if cfg.Health.Addr == "" {
		cfg.Health.Addr = ":8080"
	}
}

func parseIntervals(raw string) []IntervalSpec {
	var out []IntervalSpec
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		iv, promStr, found := strings.Cut(part, ":")
		spec := IntervalSpec{Interval: strings.TrimSpace(iv), Prominence: 1.1}
		if found {
			if p, err := strconv.ParseFloat(strings.TrimSpace(promStr), 64); err == nil {
				spec.Prominence = p
			}
		}
		out = append(out, spec)
	}
	return out
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDur(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
