package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"relay/model"
	"relay/relayerr"
)

const createOrderFailed = "Failed to create order."

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 4 << 20

// OrdersAPI creates orders at the payment provider.
type OrdersAPI interface {
	CreateOrder(ctx context.Context, order model.OrderCreate) (model.OrderDescriptor, error)
}

// RazorpayClient calls the Razorpay Orders API with HTTP basic auth.
type RazorpayClient struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
	maxBody   int64
}

func NewRazorpayClient(baseURL, keyID, keySecret string, timeout time.Duration) *RazorpayClient {
	return &RazorpayClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: timeout},
		maxBody:   maxResponseBytes,
	}
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, order model.OrderCreate) (model.OrderDescriptor, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, relayerr.Upstream(createOrderFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, relayerr.Upstream(createOrderFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, relayerr.Upstream(createOrderFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, relayerr.Upstream(createOrderFailed, err)
	}
	if int64(len(respBody)) > c.maxBody {
		return nil, relayerr.Upstream(createOrderFailed, fmt.Errorf("razorpay response exceeds %d bytes", c.maxBody))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := createOrderFailed
		var rzpErr razorpayError
		if json.Unmarshal(respBody, &rzpErr) == nil && rzpErr.Error.Description != "" {
			msg = rzpErr.Error.Description
		}
		return nil, relayerr.Upstream(msg, fmt.Errorf("razorpay returned status %d", resp.StatusCode))
	}

	if !json.Valid(respBody) {
		return nil, relayerr.Upstream(createOrderFailed, fmt.Errorf("razorpay returned non-JSON body"))
	}
	return model.OrderDescriptor(respBody), nil
}
