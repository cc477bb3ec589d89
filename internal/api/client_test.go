package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, 5*time.Second, func() string { return token })
}

func TestClientSendsAuthAndRequestHeaders(t *testing.T) {
	var gotAuth, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`[]`))
	}, "tok-1")

	_, err := client.ManagedOrders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClientOmitsAuthHeaderWhenLoggedOut(t *testing.T) {
	var sawAuth bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.Write([]byte(`{"token":"t","user":{"id":"u1"}}`))
	}, "")

	_, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.False(t, sawAuth)
}

func TestClientUnauthorizedBecomesAuthError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "stale-token")

	_, err := client.ManagedOrders(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestClientValidationErrorParsing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":   "Validation failed",
			"timeStamp": "2026-03-01T12:00:00",
			"errorList": []string{"email must not be blank", "password too short"},
		})
	}, "")

	_, err := client.Register(context.Background(), RegisterRequest{})
	require.Error(t, err)

	vErr, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Validation failed", vErr.Message)
	assert.Equal(t, []string{"email must not be blank", "password too short"}, vErr.Fields)
	assert.Contains(t, vErr.Error(), "password too short")
}

func TestClientGenericErrorBecomesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "listing no longer available"})
	}, "tok-1")

	_, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		ProdottoID:  "p1",
		IndirizzoID: "a1",
	})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "listing no longer available", apiErr.Message)
}

func TestClientRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"id":"o1","statoOrdine":"IN_ATTESA","dataOrdine":"2026-03-01T12:00:00"}]`))
	}, "tok-1")

	orders, err := client.ManagedOrders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderPending, orders[0].StatoOrdine)
}

func TestClientRetryBodyIsResent(t *testing.T) {
	var bodies []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		bodies = append(bodies, req.Email)

		if len(bodies) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"token":"t","user":{"id":"u1"}}`))
	}, "")

	_, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.c", "a@b.c"}, bodies)
}

func TestClientDecodesBackendTimestamps(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The backend emits zone-less LocalDateTime strings.
		w.Write([]byte(`[{"id":"o1","statoOrdine":"SPEDITO","dataOrdine":"2026-03-01T12:30:45.123"}]`))
	}, "tok-1")

	orders, err := client.ManagedOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	got := orders[0].DataOrdine.Time
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 30, got.Minute())
}

func TestClientUpdateOrderStatusPayload(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":"o1","statoOrdine":"SPEDITO","dataOrdine":"2026-03-01T12:00:00"}`))
	}, "tok-1")

	order, err := client.UpdateOrderStatus(context.Background(), "o1", model.OrderShipped)
	require.NoError(t, err)

	assert.Equal(t, "/ordini/o1/stato", gotPath)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, map[string]string{"nuovoStato": "SPEDITO"}, gotBody)
	assert.Equal(t, model.OrderShipped, order.StatoOrdine)
}
