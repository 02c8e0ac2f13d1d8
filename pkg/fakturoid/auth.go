package fakturoid

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	httpclient "github.com/michalnik/money-collector/pkg/http"
)

// tokenResponse is the OAuth token exchange response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ensureToken authenticates on first use. Subsequent calls see the held
// token and return immediately, so the token endpoint is hit at most once
// per run.
func (c *Client) ensureToken(ctx context.Context) error {
	if c.token != "" {
		return nil
	}
	_, err := c.Authenticate(ctx)
	return err
}

// Authenticate exchanges the client credentials for a bearer token using
// the OAuth2 client_credentials grant with a Basic authorization header.
// On success the token is stored on the client and reused for the rest of
// the process; there is no expiry tracking and no refresh.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	path, err := c.resolve(endpointToken, nil)
	if err != nil {
		return "", err
	}

	c.logger.Info("Authenticating with Fakturoid",
		zap.String("account", c.config.Account))

	headers := c.headers()
	headers["Content-Type"] = "application/x-www-form-urlencoded"

	resp, err := c.httpClient.Do(httpclient.RequestOptions{
		Method:  "POST",
		URL:     c.config.BaseURL + path,
		Headers: headers,
		Body:    map[string]string{"grant_type": "client_credentials"},
		Context: ctx,
	})
	if err != nil {
		c.logger.Error("Token exchange request failed", zap.Error(err))
		return "", &AuthError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Token exchange rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(resp.Body)))
		return "", &AuthError{Status: resp.StatusCode, Body: string(resp.Body)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(resp.Body, &tok); err != nil {
		c.logger.Error("Failed to parse token response", zap.Error(err))
		return "", &AuthError{Err: fmt.Errorf("failed to parse token response: %w", err)}
	}
	if tok.AccessToken == "" {
		return "", &AuthError{Err: fmt.Errorf("token response carried no access_token")}
	}

	c.token = tok.AccessToken
	c.logger.Info("Successfully authenticated",
		zap.String("token_type", tok.TokenType))

	return tok.AccessToken, nil
}
