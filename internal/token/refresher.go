package token

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// RefresherConfig configures the HTTP token refresher.
type RefresherConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// HTTPRefresher refreshes tokens against an OAuth provider's token
// endpoint using the refresh_token grant.
type HTTPRefresher struct {
	client   *resty.Client
	tokenURL string
	clientID string
	secret   string
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// NewHTTPRefresher creates an HTTPRefresher.
func NewHTTPRefresher(config RefresherConfig) *HTTPRefresher {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRefresher{
		client:   resty.New().SetTimeout(timeout),
		tokenURL: config.TokenURL,
		clientID: config.ClientID,
		secret:   config.ClientSecret,
	}
}

// Refresh implements Refresher.
func (r *HTTPRefresher) Refresh(ctx context.Context, token OAuthToken) (OAuthToken, error) {
	var body refreshResponse
	res, err := r.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": token.RefreshToken,
			"client_id":     r.clientID,
			"client_secret": r.secret,
		}).
		SetResult(&body).
		Post(r.tokenURL)
	if err != nil {
		return token, fmt.Errorf("client.R.Post > %w", err)
	}
	if res.IsError() {
		return token, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}

	token.AccessToken = body.AccessToken
	if body.RefreshToken != "" {
		token.RefreshToken = body.RefreshToken
	}
	token.ExpiresAt = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return token, nil
}
