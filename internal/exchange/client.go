package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Fermi-Capital/trading-streams-research/internal/models"
	"github.com/Fermi-Capital/trading-streams-research/internal/modules/config"
)

const restBase = "https://api.kraken.com"

// Client — REST+WS клиент Kraken. Безопасен для конкурентных вызовов:
// транспорт пулится, подпись stateless, nonce строго растёт через CAS.
type Client struct {
	http     *http.Client
	wsDialer *websocket.Dialer
	baseURL  string
	wsURL    string

	apiKey string
	secret []byte // base64-декодированный API secret

	lastNonce atomic.Int64

	mu     sync.RWMutex
	prices map[string]float64 // последние цены из WS-тикера
}

func NewClient(cfg *config.Config) (*Client, error) {
	c := &Client{
		http:     &http.Client{Timeout: cfg.Loop.Timeout},
		wsDialer: &websocket.Dialer{},
		baseURL:  restBase,
		wsURL:    wsBase,
		apiKey:   cfg.Kraken.Key,
		prices:   make(map[string]float64),
	}
	if cfg.Kraken.Secret != "" {
		secret, err := base64.StdEncoding.DecodeString(cfg.Kraken.Secret)
		if err != nil {
			return nil, fmt.Errorf("decode kraken secret: %w", err)
		}
		c.secret = secret
	}
	return c, nil
}

func (c *Client) SetPrice(symbol string, price float64) {
	c.mu.Lock()
	c.prices[symbol] = price
	c.mu.Unlock()
}

func (c *Client) GetPrice(symbol string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prices[symbol]
}

// nonce — миллисекундный timestamp, строго возрастающий даже при
// конкурентных вызовах (Kraken требует монотонность в рамках ключа).
func (c *Client) nonce() int64 {
	for {
		now := time.Now().UnixMilli()
		last := c.lastNonce.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if c.lastNonce.CompareAndSwap(last, next) {
			return next
		}
	}
}

// sign — схема Kraken: HMAC-SHA512(secret, path + SHA256(nonce+postdata)),
// результат в base64. Должна быть бит-в-бит совместима с биржей.
func (c *Client) sign(path, nonce, postdata string) string {
	sum := sha256.Sum256([]byte(nonce + postdata))
	mac := hmac.New(sha512.New, c.secret)
	mac.Write([]byte(path))
	mac.Write(sum[:])
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

type envelope struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

// public — GET без подписи.
func (c *Client) public(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &models.TransportError{Op: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, path, out)
}

// private — POST с подписью, form-encoded тело (включая nonce).
func (c *Client) private(ctx context.Context, path string, form url.Values, out any) error {
	if form == nil {
		form = url.Values{}
	}
	nonce := strconv.FormatInt(c.nonce(), 10)
	form.Set("nonce", nonce)
	postdata := form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(postdata))
	if err != nil {
		return &models.TransportError{Op: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("API-Key", c.apiKey)
	req.Header.Set("API-Sign", c.sign(path, nonce, postdata))
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &models.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.TransportError{Op: op, Err: err}
	}
	if resp.StatusCode/100 != 2 {
		return &models.TransportError{Op: op, Err: fmt.Errorf("http %d: %s", resp.StatusCode, string(body))}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &models.DataError{Msg: fmt.Sprintf("%s: decode envelope: %v", op, err)}
	}
	if len(env.Error) > 0 {
		return classifyAPIError(op, env.Error)
	}
	if out != nil {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return &models.DataError{Msg: fmt.Sprintf("%s: decode result: %v", op, err)}
		}
	}
	return nil
}

// classifyAPIError — раскладываем строки ошибок Kraken по таксономии:
// EAPI/EAuth — подпись/ключ, EOrder/EFunds — отказ ордера, остальное — данные.
func classifyAPIError(op string, msgs []string) error {
	for _, m := range msgs {
		switch {
		case strings.HasPrefix(m, "EAPI:") || strings.HasPrefix(m, "EAuth:"):
			return &models.AuthError{Op: op, Msg: strings.Join(msgs, "; ")}
		case strings.HasPrefix(m, "EOrder:") || strings.HasPrefix(m, "EFunds:"):
			return &models.RejectedOrderError{Op: op, Msgs: msgs}
		}
	}
	return &models.DataError{Msg: op + ": " + strings.Join(msgs, "; ")}
}

func parseF(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
