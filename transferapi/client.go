package transferapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"walletportal/models"
)

const (
	SendMainPath  = "/api/transactions/send-main"
	SendTokenPath = "/api/transactions/send"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type sendMainBody struct {
	RecipientAddress string  `json:"recipientAddress"`
	Amount           float64 `json:"amount"`
	Note             string  `json:"note"`
}

type sendTokenBody struct {
	RecipientAddress string           `json:"recipientAddress"`
	Amount           float64          `json:"amount"`
	TokenType        models.TokenType `json:"tokenType"`
	Note             string           `json:"note"`
}

// SendMain transfers from the main wallet.
func (c *Client) SendMain(
	ctx context.Context,
	authToken string,
	req models.TransferRequest,
) (models.TransferResponse, error) {
	return c.post(ctx, SendMainPath, authToken, sendMainBody{
		RecipientAddress: req.RecipientAddress,
		Amount:           req.Amount.InexactFloat64(),
		Note:             req.Note,
	})
}

// SendToken transfers req.TokenType.
func (c *Client) SendToken(
	ctx context.Context,
	authToken string,
	req models.TransferRequest,
) (models.TransferResponse, error) {
	return c.post(ctx, SendTokenPath, authToken, sendTokenBody{
		RecipientAddress: req.RecipientAddress,
		Amount:           req.Amount.InexactFloat64(),
		TokenType:        req.TokenType,
		Note:             req.Note,
	})
}

func (c *Client) post(
	ctx context.Context,
	path, authToken string,
	body interface{},
) (models.TransferResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return models.TransferResponse{}, fmt.Errorf("encode %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return models.TransferResponse{}, fmt.Errorf("build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return models.TransferResponse{}, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.TransferResponse{}, fmt.Errorf("post %s: %w: %d", path, ErrUnexpectedStatus, resp.StatusCode)
	}

	var out models.TransferResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.TransferResponse{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}
