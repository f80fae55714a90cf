package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// IdentityClient calls the identity service's internal endpoints. Every
// service that gates a public endpoint on a bearer token delegates the check
// here rather than inspecting the token itself.
type IdentityClient struct {
	baseClient
}

func NewIdentityClient(baseURL, internalKey string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{newBaseClient("identity", baseURL, internalKey, timeout)}
}

// TokenInfo is the identity service's verdict on a presented token.
type TokenInfo struct {
	Valid    int    `json:"valid"`
	Username string `json:"username"`
	IsDriver bool   `json:"is_driver"`
	UserID   string `json:"user_id"`
}

// VerifyToken asks identity to verify a bearer token. A zero Valid field or
// any transport failure means the caller must treat the request as
// unauthenticated.
func (c *IdentityClient) VerifyToken(ctx context.Context, token string) (*TokenInfo, error) {
	var info TokenInfo
	query := url.Values{"token": {token}}
	if err := c.getJSON(ctx, "/internal/verify_jwt", query, &info); err != nil {
		return nil, err
	}
	if info.Valid != 1 {
		return nil, fmt.Errorf("identity rejected token")
	}
	return &info, nil
}

// UserInfo is the internal user summary: role flag plus rating aggregate.
type UserInfo struct {
	Status   int    `json:"status"`
	IsDriver bool   `json:"is_driver"`
	Rating   string `json:"rating"`
}

func (c *IdentityClient) GetUserInfo(ctx context.Context, username string) (*UserInfo, error) {
	var info UserInfo
	values := url.Values{"username": {username}}
	if err := c.postForm(ctx, "/get_user_info", values, &info); err != nil {
		return nil, err
	}
	if info.Status != 1 {
		return nil, fmt.Errorf("identity: no such user %q", username)
	}
	return &info, nil
}

// GetRating returns the user's average rating as the protocol's fixed
// two-decimal string.
func (c *IdentityClient) GetRating(ctx context.Context, username string) (string, error) {
	var resp struct {
		Status int    `json:"status"`
		Rating string `json:"rating"`
	}
	values := url.Values{"username": {username}}
	if err := c.postForm(ctx, "/get_rating", values, &resp); err != nil {
		return "", err
	}
	if resp.Status != 1 {
		return "", fmt.Errorf("identity: no rating for %q", username)
	}
	return resp.Rating, nil
}
