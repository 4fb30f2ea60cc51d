package fulfillment

import (
	"errors"
	"net/http"
	"net/url"
)

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func (c *Client) validate() error {
	u, err := url.Parse(c.endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("invalid endpoint: must be an absolute URL")
	}

	if c.token == "" {
		return errors.New("invalid token: must not be empty")
	}

	if c.callTimeout <= 0 {
		return errors.New("invalid call timeout: must be > 0")
	}

	if c.httpClient == nil {
		return errors.New("invalid http client: must not be nil")
	}

	if c.log == nil || c.metrics == nil {
		return errors.New("logger and metrics are required")
	}
	return nil
}
