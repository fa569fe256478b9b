package exchange

import (
	"encoding/base64"
	"sync"
	"testing"

	"github.com/Fermi-Capital/trading-streams-research/internal/models"
)

// Официальный контрольный пример подписи из документации Kraken.
func TestSignKnownVector(t *testing.T) {
	secret, err := base64.StdEncoding.DecodeString(
		"kQH5HW/8p1uGOVjbgWA7FunAmGO8lsSUXNsu3eow76sz84Q18fWxnyRzBHCd3pd5nE9qa99HAZtuZuj6F1huXg==")
	if err != nil {
		t.Fatalf("decode secret: %v", err)
	}
	c := &Client{secret: secret}

	path := "/0/private/AddOrder"
	nonce := "1616492376594"
	postdata := "nonce=1616492376594&ordertype=limit&pair=XBTUSD&price=37500&type=buy&volume=1.25"

	want := "4/dpxb3iT4tp/ZCVEwSnEsLxx0bqyhLpdfOpc6fn7OR8+UClSV5n9E6aSS8MPtnRfp32bAb0nmbRn6H8ndwLUQ=="
	if got := c.sign(path, nonce, postdata); got != want {
		t.Errorf("sign mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestNonceStrictlyIncreasing(t *testing.T) {
	c := &Client{}

	prev := c.nonce()
	for i := 0; i < 1000; i++ {
		n := c.nonce()
		if n <= prev {
			t.Fatalf("nonce not increasing: %d after %d", n, prev)
		}
		prev = n
	}
}

func TestNonceConcurrentUnique(t *testing.T) {
	c := &Client{}

	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[int64]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				n := c.nonce()
				mu.Lock()
				if seen[n] {
					mu.Unlock()
					t.Errorf("duplicate nonce %d", n)
					return
				}
				seen[n] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

func TestClassifyAPIError(t *testing.T) {
	cases := []struct {
		msgs []string
		want string
	}{
		{[]string{"EAPI:Invalid key"}, "auth"},
		{[]string{"EAuth:Rate limit exceeded"}, "auth"},
		{[]string{"EOrder:Insufficient funds"}, "rejected"},
		{[]string{"EFunds:Insufficient funds"}, "rejected"},
		{[]string{"EQuery:Unknown asset pair"}, "data"},
	}
	for _, tc := range cases {
		var kind string
		switch classifyAPIError("op", tc.msgs).(type) {
		case *models.AuthError:
			kind = "auth"
		case *models.RejectedOrderError:
			kind = "rejected"
		case *models.DataError:
			kind = "data"
		default:
			kind = "other"
		}
		if kind != tc.want {
			t.Errorf("%v: classified as %s, want %s", tc.msgs, kind, tc.want)
		}
	}
}
