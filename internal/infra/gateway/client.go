package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tableside/internal/pkg/clock"
	"tableside/internal/pkg/config"
	"tableside/internal/pkg/errs"
	"tableside/internal/usecase/commands"
)

// Client talks to the third-party payment gateway. The pipe-delimited MAC
// inputs below are part of the external contract and must match byte-for-byte.
type Client struct {
	cfg   config.GatewayConfig
	clock clock.Clock
	http  *http.Client
}

func NewClient(cfg config.GatewayConfig, clk clock.Clock) *Client {
	return &Client{
		cfg:   cfg,
		clock: clk,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type wireItem struct {
	Name     string `json:"item_name"`
	Price    int64  `json:"item_price"`
	Quantity int32  `json:"item_quantity"`
}

type wireEmbedData struct {
	RedirectURL string `json:"redirecturl"`
}

type createOrderResponse struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
	OrderURL      string `json:"order_url"`
}

// NewTransactionID builds a `<YYMMDD>_<suffix>` transaction id; the date
// prefix is required by the gateway, which scopes uniqueness per calendar day.
func (c *Client) NewTransactionID(now time.Time) string {
	return fmt.Sprintf("%s_%d", now.Format("060102"), randomSuffix())
}

func randomSuffix() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return time.Now().UnixNano() % 1000000
	}
	return n.Int64()
}

func (c *Client) CreateOrder(ctx context.Context, ord commands.GatewayOrder) (string, error) {
	items := make([]wireItem, len(ord.Items))
	for i, it := range ord.Items {
		items[i] = wireItem{Name: it.Name, Price: it.Price, Quantity: it.Quantity}
	}
	itemJSON, err := json.Marshal(items)
	if err != nil {
		return "", errs.Wrap(err, "failed to marshal gateway items")
	}
	embedJSON, err := json.Marshal(wireEmbedData{RedirectURL: c.cfg.RedirectURL})
	if err != nil {
		return "", errs.Wrap(err, "failed to marshal gateway embed data")
	}

	// Same clock as the transaction-id date so the two cannot disagree
	// across a midnight boundary.
	appTime := c.clock.Now().UnixMilli()

	// app_id|app_trans_id|app_user|amount|app_time|embed_data|item, signed with key1
	macData := strings.Join([]string{
		c.cfg.AppID,
		ord.TransactionID,
		ord.AppUser,
		strconv.FormatInt(ord.Amount, 10),
		strconv.FormatInt(appTime, 10),
		string(embedJSON),
		string(itemJSON),
	}, "|")

	params := url.Values{}
	params.Set("app_id", c.cfg.AppID)
	params.Set("app_trans_id", ord.TransactionID)
	params.Set("app_user", ord.AppUser)
	params.Set("app_time", strconv.FormatInt(appTime, 10))
	params.Set("item", string(itemJSON))
	params.Set("embed_data", string(embedJSON))
	params.Set("amount", strconv.FormatInt(ord.Amount, 10))
	params.Set("description", ord.Description)
	params.Set("bank_code", "")
	params.Set("callback_url", c.cfg.CallbackURL)
	params.Set("mac", Sign(macData, c.cfg.Key1))

	// The gateway expects the payload as query parameters on an empty-body POST.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.CreateOrderURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", errs.Wrap(err, "failed to build gateway request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errs.Wrap(err, "gateway order creation request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.Wrap(err, "failed to read gateway response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errs.New(fmt.Sprintf("gateway returned status %d", resp.StatusCode))
	}

	var parsed createOrderResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errs.Wrap(err, "failed to decode gateway response")
	}
	if parsed.OrderURL == "" {
		return "", errs.New(fmt.Sprintf("gateway rejected order: %s", parsed.ReturnMessage))
	}

	return parsed.OrderURL, nil
}

// VerifyCallback recomputes the MAC over the raw data blob with the
// callback-specific secret (key2) and compares in constant time.
func (c *Client) VerifyCallback(data, mac string) bool {
	expected := Sign(data, c.cfg.Key2)
	return hmac.Equal([]byte(expected), []byte(mac))
}

func (c *Client) QueryStatus(ctx context.Context, transactionID string) (json.RawMessage, error) {
	// appid|apptransid|key1, signed with key1
	macData := strings.Join([]string{c.cfg.AppID, transactionID, c.cfg.Key1}, "|")

	form := url.Values{}
	form.Set("appid", c.cfg.AppID)
	form.Set("apptransid", transactionID)
	form.Set("mac", Sign(macData, c.cfg.Key1))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.QueryStatusURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errs.Wrap(err, "failed to build status request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "gateway status request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(err, "failed to read status response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(fmt.Sprintf("gateway returned status %d", resp.StatusCode))
	}

	return json.RawMessage(body), nil
}

// Sign returns the hex-encoded HMAC-SHA256 of data under key.
func Sign(data, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
