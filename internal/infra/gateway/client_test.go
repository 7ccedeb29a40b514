//go:build unit

package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"tableside/internal/infra/gateway"
	"tableside/internal/pkg/clock"
	"tableside/internal/pkg/config"
	"tableside/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(createURL, queryURL string) config.GatewayConfig {
	return config.GatewayConfig{
		AppID:          "2553",
		Key1:           "key-one",
		Key2:           "key-two",
		CreateOrderURL: createURL,
		QueryStatusURL: queryURL,
		RedirectURL:    "https://shop.example/result",
		CallbackURL:    "https://shop.example/api/orders/callback",
		Timeout:        2 * time.Second,
	}
}

var testNow = time.Date(2026, 8, 31, 15, 4, 5, 0, time.UTC)

func testClient(createURL, queryURL string) *gateway.Client {
	return gateway.NewClient(testConfig(createURL, queryURL), clock.NewMockClock(testNow))
}

func TestNewTransactionID(t *testing.T) {
	client := testClient("", "")

	id := client.NewTransactionID(testNow)
	assert.Regexp(t, regexp.MustCompile(`^260831_\d{1,6}$`), id)
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	ord := commands.GatewayOrder{
		TransactionID: "260831_123456",
		AppUser:       "guest-1",
		Amount:        32,
		Items: []commands.GatewayItem{
			{Name: "Pho", Price: 10, Quantity: 2},
			{Name: "Bun cha", Price: 12, Quantity: 1},
		},
		Description: "Payment for 2 orders",
	}

	t.Run("sends a signed empty-body POST with query params", func(t *testing.T) {
		var captured url.Values
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)

			body := make([]byte, 1)
			n, _ := r.Body.Read(body)
			assert.Zero(t, n)

			captured = r.URL.Query()
			w.Write([]byte(`{"return_code":1,"return_message":"success","order_url":"https://pay.example/redirect"}`))
		}))
		defer srv.Close()

		client := testClient(srv.URL, "")
		redirect, err := client.CreateOrder(ctx, ord)
		require.NoError(t, err)
		assert.Equal(t, "https://pay.example/redirect", redirect)

		assert.Equal(t, "2553", captured.Get("app_id"))
		assert.Equal(t, "260831_123456", captured.Get("app_trans_id"))
		assert.Equal(t, "guest-1", captured.Get("app_user"))
		assert.Equal(t, "32", captured.Get("amount"))
		// app_time comes from the injected clock, same source as the
		// transaction-id date prefix.
		assert.Equal(t, strconv.FormatInt(testNow.UnixMilli(), 10), captured.Get("app_time"))
		assert.Equal(t, "https://shop.example/api/orders/callback", captured.Get("callback_url"))
		assert.Contains(t, captured.Get("item"), `"item_name":"Pho"`)
		assert.Contains(t, captured.Get("embed_data"), `"redirecturl":"https://shop.example/result"`)

		// Recompute the MAC over the pipe-joined fields with key1.
		macData := strings.Join([]string{
			captured.Get("app_id"),
			captured.Get("app_trans_id"),
			captured.Get("app_user"),
			captured.Get("amount"),
			captured.Get("app_time"),
			captured.Get("embed_data"),
			captured.Get("item"),
		}, "|")
		assert.Equal(t, gateway.Sign(macData, "key-one"), captured.Get("mac"))
	})

	t.Run("missing order url means rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"return_code":-1,"return_message":"invalid mac"}`))
		}))
		defer srv.Close()

		client := testClient(srv.URL, "")
		_, err := client.CreateOrder(ctx, ord)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid mac")
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := testClient(srv.URL, "")
		_, err := client.CreateOrder(ctx, ord)
		require.Error(t, err)
	})
}

func TestVerifyCallback(t *testing.T) {
	client := testClient("", "")
	data := `{"app_trans_id":"260831_123456","app_user":"guest-1"}`

	t.Run("accepts a mac signed with key2", func(t *testing.T) {
		assert.True(t, client.VerifyCallback(data, gateway.Sign(data, "key-two")))
	})

	t.Run("rejects a mac signed with the wrong key", func(t *testing.T) {
		assert.False(t, client.VerifyCallback(data, gateway.Sign(data, "key-one")))
	})

	t.Run("rejects a tampered blob", func(t *testing.T) {
		mac := gateway.Sign(data, "key-two")
		assert.False(t, client.VerifyCallback(data+" ", mac))
	})
}

func TestQueryStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("form-encoded lookup with its own mac", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			require.NoError(t, r.ParseForm())

			assert.Equal(t, "2553", r.PostForm.Get("appid"))
			assert.Equal(t, "260831_123456", r.PostForm.Get("apptransid"))
			assert.Equal(t, gateway.Sign("2553|260831_123456|key-one", "key-one"), r.PostForm.Get("mac"))

			w.Write([]byte(`{"return_code":1,"is_processing":false}`))
		}))
		defer srv.Close()

		client := testClient("", srv.URL)
		body, err := client.QueryStatus(ctx, "260831_123456")
		require.NoError(t, err)
		assert.JSONEq(t, `{"return_code":1,"is_processing":false}`, string(body))
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := testClient("", srv.URL)
		_, err := client.QueryStatus(ctx, "260831_123456")
		require.Error(t, err)
	})
}
