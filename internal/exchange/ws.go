package exchange

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const wsBase = "wss://ws.kraken.com/v2"

// PriceTick — обновление тикера из WS v2.
type PriceTick struct {
	Symbol string
	Last   float64
	Bid    float64
	Ask    float64
}

// StreamTicker — поток тикера Kraken WS v2 для символов вида "SOL/USD".
// Переподключается сам, последняя цена каждого символа кладётся в кэш
// клиента (GetPrice).
func (c *Client) StreamTicker(ctx context.Context, symbols []string) <-chan PriceTick {
	ch := make(chan PriceTick)
	go func() {
		defer close(ch)

		if len(symbols) == 0 {
			return
		}

		for {
			log.Printf("[WS] connect ticker %v", symbols)
			conn, _, err := c.wsDialer.Dial(c.wsURL, nil)
			if err != nil {
				log.Printf("[WS] dial error: %v", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
				continue
			}

			sub := map[string]any{
				"method": "subscribe",
				"params": map[string]any{
					"channel": "ticker",
					"symbol":  symbols,
				},
			}
			if err := conn.WriteJSON(sub); err != nil {
				log.Printf("[WS] subscribe error: %v", err)
				_ = conn.Close()
				continue
			}

			// отмена контекста должна рвать заблокированный ReadMessage
			stopPing := make(chan struct{})
			go func() {
				select {
				case <-ctx.Done():
					_ = conn.Close()
				case <-stopPing:
				}
			}()

			// keepalive ping каждые 30s, иначе сервер закрывает idle-соединение
			go func() {
				t := time.NewTicker(30 * time.Second)
				defer t.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-stopPing:
						return
					case <-t.C:
						_ = conn.WriteJSON(map[string]string{"method": "ping"})
					}
				}
			}()

			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					log.Printf("[WS] read error: %v", err)
					close(stopPing)
					_ = conn.Close()
					break
				}

				var frame struct {
					Channel string `json:"channel"`
					Data    []struct {
						Symbol string  `json:"symbol"`
						Last   float64 `json:"last"`
						Bid    float64 `json:"bid"`
						Ask    float64 `json:"ask"`
					} `json:"data"`
				}
				if err := json.Unmarshal(msg, &frame); err != nil {
					continue
				}
				if frame.Channel != "ticker" || len(frame.Data) == 0 {
					continue
				}

				for _, d := range frame.Data {
					if d.Last <= 0 {
						continue
					}
					c.SetPrice(d.Symbol, d.Last)
					select {
					case ch <- PriceTick{Symbol: d.Symbol, Last: d.Last, Bid: d.Bid, Ask: d.Ask}:
					case <-ctx.Done():
						_ = conn.Close()
						return
					}
				}
			}

			select {
			case <-ctx.Done():
				return
			default:
				time.Sleep(time.Second)
			}
		}
	}()
	return ch
}
