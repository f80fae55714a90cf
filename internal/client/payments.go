package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// PaymentsClient calls the payments service's internal endpoints. Amounts
// travel as the loose numeric strings the protocol allows; payments does the
// authoritative parsing.
type PaymentsClient struct {
	baseClient
}

func NewPaymentsClient(baseURL, internalKey string, timeout time.Duration) *PaymentsClient {
	return &PaymentsClient{newBaseClient("payments", baseURL, internalKey, timeout)}
}

// Initialize seeds a user's balance. Registration calls this best-effort.
func (c *PaymentsClient) Initialize(ctx context.Context, username, amount string) error {
	var resp struct {
		Status int `json:"status"`
	}
	values := url.Values{"username": {username}, "amount": {amount}}
	if err := c.postForm(ctx, "/initialize", values, &resp); err != nil {
		return err
	}
	if resp.Status != 1 {
		return fmt.Errorf("payments: initialize for %q refused", username)
	}
	return nil
}

// CheckBalance reports whether username holds at least amount. An unknown
// user or any failure reads as "not enough".
func (c *PaymentsClient) CheckBalance(ctx context.Context, username, amount string) (bool, error) {
	var resp struct {
		Status    int  `json:"status"`
		HasEnough bool `json:"has_enough"`
	}
	values := url.Values{"username": {username}, "amount": {amount}}
	if err := c.postForm(ctx, "/check_balance", values, &resp); err != nil {
		return false, err
	}
	if resp.Status != 1 {
		return false, fmt.Errorf("payments: balance check for %q refused", username)
	}
	return resp.HasEnough, nil
}

// Transfer moves funds between two users as one atomic step on the payments
// side. A non-affirmative status is an error; the saga stops on it.
func (c *PaymentsClient) Transfer(ctx context.Context, from, to, amount string) error {
	var resp struct {
		Status int `json:"status"`
	}
	values := url.Values{
		"from_username": {from},
		"to_username":   {to},
		"amount":        {amount},
	}
	if err := c.postForm(ctx, "/transfer", values, &resp); err != nil {
		return err
	}
	if resp.Status != 1 {
		return fmt.Errorf("payments: transfer %s -> %s refused", from, to)
	}
	return nil
}
