package exchange

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

// AddOrder — /0/private/AddOrder. Side/Type приводятся к нижнему регистру,
// price отправляется только для limit-ордеров.
func (c *Client) AddOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	form := url.Values{}
	form.Set("pair", req.Pair)
	form.Set("type", strings.ToLower(string(req.Side)))
	form.Set("ordertype", string(req.Type))
	form.Set("volume", strconv.FormatFloat(req.Volume, 'f', -1, 64))
	if req.Type == models.OrderLimit {
		form.Set("price", strconv.FormatFloat(req.LimitPrice, 'f', -1, 64))
	}

	var raw struct {
		Descr struct {
			Order string `json:"order"`
		} `json:"descr"`
		TxID []string `json:"txid"`
	}
	if err := c.private(ctx, "/0/private/AddOrder", form, &raw); err != nil {
		return models.OrderResult{}, err
	}
	return models.OrderResult{TxIDs: raw.TxID, Description: raw.Descr.Order}, nil
}
