// Package fakturoid provides a client for the Fakturoid v3 invoicing API.
//
// The client owns the OAuth2 client-credentials exchange: until the first
// successful authentication requests carry a Basic authorization header
// derived from the client id and secret, afterwards the acquired bearer
// token is reused for the remainder of the process. Endpoints are addressed
// by symbolic name through a closed table; responses are classified into
// one of four shapes (JSON object, JSON array, raw bytes, empty success)
// before any caller sees them.
package fakturoid

import (
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"github.com/michalnik/money-collector/pkg/config"
	httpclient "github.com/michalnik/money-collector/pkg/http"
)

// Client is the main client for interacting with the Fakturoid API.
type Client struct {
	config     *config.FakturoidConfig
	httpClient *httpclient.Client
	endpoints  map[string]endpoint
	logger     *zap.Logger

	// token is written exactly once, by the first successful
	// authentication, and only read afterwards. The run is strictly
	// sequential so no locking is needed.
	token string
}

// NewClient creates a new Fakturoid client with a default production logger.
func NewClient(cfg *config.FakturoidConfig) *Client {
	logger, _ := zap.NewProduction()
	return NewClientWithLogger(cfg, logger)
}

// NewClientWithLogger creates a new Fakturoid client with a custom logger.
func NewClientWithLogger(cfg *config.FakturoidConfig, logger *zap.Logger) *Client {
	return &Client{
		config:     cfg,
		httpClient: httpclient.NewClientWithLogger(logger),
		endpoints:  endpointTable(cfg.Account),
		logger:     logger,
	}
}

// UserAgent returns the identification header Fakturoid requires,
// "ApplicationName (email)".
func (c *Client) UserAgent() string {
	return fmt.Sprintf("%s (%s)", c.config.ApplicationName, c.config.Email)
}

// headers computes the base header set for a request. Bearer auth once a
// token is held; Basic auth exists only before the very first successful
// authentication (the token exchange itself uses it).
func (c *Client) headers() map[string]string {
	h := map[string]string{
		"User-Agent": c.UserAgent(),
		"Accept":     "application/json",
	}
	if c.token != "" {
		h["Authorization"] = "Bearer " + c.token
	} else {
		creds := c.config.ClientID + ":" + c.config.ClientSecret
		h["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
	}
	return h
}
