package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// BankClient disburses funds through the partner bank's transfer API.
type BankClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewBankClient(baseURL, apiKey string) *BankClient {
	return &BankClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// The bank API throttles aggressively; stay under 5 req/s.
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

type transferRequest struct {
	Reference string `json:"reference"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
}

type transferResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Transfer performs one payment attempt. Any rejection, transport error or
// non-2xx answer surfaces as ErrTransferFailed so the ledger can roll the
// disbursement back.
func (c *BankClient) Transfer(ctx context.Context, to string, amount decimal.Decimal, reference string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	jsonData, err := json.Marshal(transferRequest{
		Reference: reference,
		To:        to,
		Amount:    amount.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transfer request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/transfers", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", reference)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read bank response: %v", ErrTransferFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var tr transferResponse
		if json.Unmarshal(body, &tr) == nil && tr.Error != "" {
			return fmt.Errorf("%w: bank rejected transfer %s: %s", ErrTransferFailed, reference, tr.Error)
		}
		return fmt.Errorf("%w: bank returned status %d for transfer %s", ErrTransferFailed, resp.StatusCode, reference)
	}

	return nil
}
