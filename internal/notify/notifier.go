package notify

import (
	"fmt"
	"log"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Fermi-Capital/trading-streams-research/internal/modules/config"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// Telegram — пассивный нотифайер: старт, сигналы, результаты ордеров.
// Nil-safe: без токена все вызовы — no-op.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, msg))
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// Stdout — заглушка, всё в лог.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { log.Println(msg) }
func (s *Stdout) Sendf(format string, args ...any) { log.Printf(format, args...) }

// NewNotifier — Telegram при заданном токене, иначе stdout.
func NewNotifier(cfg *config.Config) Notifier {
	if cfg.Telegram.Token == "" {
		return NewStdout()
	}
	t, err := NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		log.Printf("[NOTIFY] telegram init failed, falling back to stdout: %v", err)
		return NewStdout()
	}
	return t
}
