//nolint:mnd
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpt "github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/transport/http"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// webhookOrder mirrors the upstream wire form, where tags are one
// comma-separated string and ids are numbers.
type webhookOrder struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	OrderNumber   int64          `json:"order_number"`
	Tags          string         `json:"tags"`
	ShippingLines []shippingLine `json:"shipping_lines"`
}

type shippingLine struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

func main() {
	target := flag.String("url", "http://localhost:8080/webhooks/orders/create", "Webhook endpoint to post orders to")
	secret := flag.String("secret", "", "Shared webhook secret used to sign payloads; empty sends unsigned requests")
	topic := flag.String("topic", "orders/create", "Value of the topic header")
	numMessages := flag.Int("count", 1, "Number of orders to send")
	interval := flag.Duration("interval", 1*time.Second, "Interval between sending orders")
	pickupRatio := flag.Float64("pickup-ratio", 0.5, "Share of generated orders that are pickup orders")
	startNumber := flag.Int64("start", 1001, "Order number of the first generated order")

	flag.Parse()

	client := &http.Client{Timeout: 2 * time.Minute}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf(
		"Starting webhook producer. Will send %d orders to '%s' every %v\n",
		*numMessages,
		*target,
		*interval,
	)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for sent := 0; sent < *numMessages; sent++ {
		if sent > 0 {
			select {
			case <-ctx.Done():
				log.Println("Shutting down producer...")
				return
			case <-ticker.C:
			}
		}

		order := generateFakeOrder(*startNumber+int64(sent), gofakeit.Float64() < *pickupRatio)
		sendOrder(ctx, client, *target, *topic, *secret, order)
	}

	log.Printf("Sent all %d orders. Exiting.\n", *numMessages)
}

func sendOrder(ctx context.Context, client *http.Client, target, topic, secret string, order *webhookOrder) {
	body, err := json.Marshal(order)
	if err != nil {
		log.Printf("Failed to marshal order: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		log.Printf("Failed to build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Topic", topic)
	req.Header.Set("X-Shopify-Webhook-Id", uuid.NewString())
	req.Header.Set("X-Shopify-Shop-Domain", "dev-shop.myshopify.com")
	if secret != "" {
		req.Header.Set("X-Shopify-Hmac-Sha256", httpt.Sign(body, []byte(secret)))
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("Failed to send order %s: %v", order.Name, err)
		return
	}
	defer resp.Body.Close()

	summary, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	log.Printf("Order %s (tags %q): %d %s", order.Name, order.Tags, resp.StatusCode, strings.TrimSpace(string(summary)))
}

func generateFakeOrder(number int64, pickup bool) *webhookOrder {
	tags := []string{gofakeit.Word()}
	lines := []shippingLine{{
		Code:   "standard",
		Title:  "Standard Shipping",
		Source: "shopify",
	}}

	if pickup {
		if gofakeit.Bool() {
			tags = append(tags, "pickup-order")
		} else {
			lines[0] = shippingLine{
				Code:   "pickup",
				Title:  fmt.Sprintf("Pick up at %s", gofakeit.City()),
				Source: "shopify",
			}
		}
	}

	return &webhookOrder{
		ID:            int64(gofakeit.Number(100000000, 999999999)) * 10000,
		Name:          fmt.Sprintf("#%d", number),
		OrderNumber:   number,
		Tags:          strings.Join(tags, ", "),
		ShippingLines: lines,
	}
}
