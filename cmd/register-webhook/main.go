// Command register-webhook subscribes the service to order-created events on
// the upstream shop, or lists the shop's current subscriptions.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

const _requestTimeout = 30 * time.Second

type webhook struct {
	ID      int64  `json:"id,omitempty"`
	Topic   string `json:"topic"`
	Address string `json:"address"`
	Format  string `json:"format,omitempty"`
}

type webhookEnvelope struct {
	Webhook webhook `json:"webhook"`
}

type webhookList struct {
	Webhooks []webhook `json:"webhooks"`
}

type adminClient struct {
	base  string
	token string
	http  *http.Client
}

func main() {
	shop := flag.String("shop", os.Getenv("SHOP_DOMAIN"), "Shop domain, e.g. example.myshopify.com")
	token := flag.String("token", os.Getenv("SHOP_ACCESS_TOKEN"), "Admin API access token")
	address := flag.String("address", "", "Public URL of the webhook endpoint")
	topic := flag.String("topic", "orders/create", "Webhook topic to subscribe to")
	apiVersion := flag.String("api-version", "2024-10", "Admin API version")
	list := flag.Bool("list", false, "List existing webhooks instead of registering")

	flag.Parse()

	if *shop == "" || *token == "" {
		log.Fatal("both -shop and -token are required")
	}

	client := &adminClient{
		base:  fmt.Sprintf("https://%s/admin/api/%s", strings.TrimSuffix(*shop, "/"), *apiVersion),
		token: *token,
		http:  &http.Client{Timeout: _requestTimeout},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *list {
		hooks, err := client.list(ctx)
		if err != nil {
			log.Fatalf("list webhooks: %v", err)
		}
		for _, h := range hooks {
			log.Printf("%d\t%s\t%s", h.ID, h.Topic, h.Address)
		}
		return
	}

	if err := validateAddress(*address); err != nil {
		log.Fatalf("invalid -address: %v", err)
	}

	created, err := client.register(ctx, *topic, *address)
	if err != nil {
		log.Fatalf("register webhook: %v", err)
	}
	log.Printf("Registered webhook %d for %s -> %s", created.ID, created.Topic, created.Address)
}

func validateAddress(address string) error {
	u, err := url.Parse(address)
	if err != nil {
		return err
	}
	if u.Scheme != "https" || u.Host == "" {
		return errors.New("must be an absolute https URL")
	}
	return nil
}

func (c *adminClient) register(ctx context.Context, topic, address string) (*webhook, error) {
	payload := webhookEnvelope{Webhook: webhook{Topic: topic, Address: address, Format: "json"}}

	var out webhookEnvelope
	if err := c.do(ctx, http.MethodPost, "/webhooks.json", payload, &out); err != nil {
		return nil, err
	}
	return &out.Webhook, nil
}

func (c *adminClient) list(ctx context.Context) ([]webhook, error) {
	var out webhookList
	if err := c.do(ctx, http.MethodGet, "/webhooks.json", nil, &out); err != nil {
		return nil, err
	}
	return out.Webhooks, nil
}

func (c *adminClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if err = json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
