package iex

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/graham/internal/contracts"
	"github.com/wonny/graham/pkg/config"
	"github.com/wonny/graham/pkg/httputil"
	"github.com/wonny/graham/pkg/logger"
)

// Client handles communication with the IEX Cloud API
// ⭐ SSOT: IEX API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.IEXConfig
}

var _ contracts.DataProvider = (*Client)(nil)

// NewClient creates a new IEX client
func NewClient(cfg config.IEXConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}

// getJSON calls path with params plus the API token and decodes the body into out
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	if c.cfg.Token != "" {
		params.Set("token", c.cfg.Token)
	}

	fullURL := fmt.Sprintf("%s%s", c.cfg.BaseURL, path)
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, encodeQuery(params))
	}

	return c.httpClient.GetJSON(ctx, fullURL, out)
}

// encodeQuery percent-encodes spaces as %20 ("Consumer%20Cyclical").
// Encode turns a literal '+' into %2B, so every remaining '+' is a space.
func encodeQuery(params url.Values) string {
	return strings.ReplaceAll(params.Encode(), "+", "%20")
}
