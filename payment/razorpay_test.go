package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relay/model"
	"relay/relayerr"
)

func TestRazorpayClient_CreateOrder(t *testing.T) {
	var gotBody model.OrderCreate
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_id", user)
		assert.Equal(t, "rzp_secret", pass)

		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"order_9A33XWu170gUtm","entity":"order","amount":500,"currency":"INR","receipt":"r1","status":"created"}`)
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL+"/v1/", "rzp_test_id", "rzp_secret", time.Second)
	order, err := c.CreateOrder(context.Background(), model.OrderCreate{Amount: 500, Currency: "INR", Receipt: "r1"})

	require.NoError(t, err)
	assert.Equal(t, model.OrderCreate{Amount: 500, Currency: "INR", Receipt: "r1"}, gotBody)
	assert.JSONEq(t, `{"id":"order_9A33XWu170gUtm","entity":"order","amount":500,"currency":"INR","receipt":"r1","status":"created"}`, string(order))
}

func TestRazorpayClient_UpstreamErrorDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":"BAD_REQUEST_ERROR","description":"Order amount less than minimum amount allowed"}}`)
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL, "id", "secret", time.Second)
	_, err := c.CreateOrder(context.Background(), model.OrderCreate{Amount: 1, Currency: "INR", Receipt: "r"})

	require.Error(t, err)
	assert.True(t, relayerr.Is(err, relayerr.KindUpstream))
	assert.Equal(t, "Order amount less than minimum amount allowed", relayerr.MessageOf(err))
}

func TestRazorpayClient_GenericMessageWhenBodyUnreadable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `<html>bad gateway</html>`)
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL, "id", "secret", time.Second)
	_, err := c.CreateOrder(context.Background(), model.OrderCreate{Amount: 1, Currency: "INR", Receipt: "r"})

	assert.Equal(t, createOrderFailed, relayerr.MessageOf(err))
}

func TestRazorpayClient_OversizedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"order_1","notes":{"a":"`+strings.Repeat("x", 256)+`"}}`)
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL, "id", "secret", time.Second)
	c.maxBody = 64
	_, err := c.CreateOrder(context.Background(), model.OrderCreate{Amount: 1, Currency: "INR", Receipt: "r"})

	require.Error(t, err)
	assert.Equal(t, createOrderFailed, relayerr.MessageOf(err))
	assert.Contains(t, err.Error(), "exceeds 64 bytes")
}

func TestRazorpayClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL, "id", "secret", 50*time.Millisecond)
	start := time.Now()
	_, err := c.CreateOrder(context.Background(), model.OrderCreate{Amount: 1, Currency: "INR", Receipt: "r"})

	require.Error(t, err)
	assert.Equal(t, createOrderFailed, relayerr.MessageOf(err))
	assert.Less(t, time.Since(start), time.Second)
}
