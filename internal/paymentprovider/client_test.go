package paymentprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	client := NewClient("rzp_test_key", "rzp_test_secret", 5*time.Second)
	client.apiURL = serverURL
	return client
}

func TestClient_CreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", username)
		assert.Equal(t, "rzp_test_secret", password)

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(9900), req.Amount)
		assert.Equal(t, "INR", req.Currency)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Order{
			ID:       "order_MNq3x1",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		Amount:   9900,
		Currency: "INR",
		Receipt:  "rcpt_1",
	})
	require.NoError(t, err)
	assert.Equal(t, "order_MNq3x1", order.ID)
	assert.Equal(t, int64(9900), order.Amount)
}

func TestClient_CreateOrder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{Amount: 9900, Currency: "INR"})
	require.Error(t, err)
	assert.Nil(t, order)
}

func TestClient_FetchPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/payments/pay_MNq3x2", r.URL.Path)

		_ = json.NewEncoder(w).Encode(Payment{
			ID:       "pay_MNq3x2",
			OrderID:  "order_MNq3x1",
			Status:   StatusCaptured,
			Amount:   9900,
			Currency: "INR",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	payment, err := client.FetchPayment(context.Background(), "pay_MNq3x2")
	require.NoError(t, err)
	assert.Equal(t, StatusCaptured, payment.Status)
	assert.Equal(t, "order_MNq3x1", payment.OrderID)
	assert.Equal(t, int64(9900), payment.Amount)
}

func TestClient_FetchPayment_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	payment, err := client.FetchPayment(context.Background(), "pay_unknown")
	require.Error(t, err)
	assert.Nil(t, payment)
}
