package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/config"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FULFILLMENT_URL", "https://fulfillment.example.com/graphql")
	t.Setenv("FULFILLMENT_TOKEN", "secret-token")
	t.Setenv("FULFILLMENT_PICKUP_WAREHOUSE_ID", "V2FyZWhvdXNlOjEyMw==")
}

func TestLoadEnv_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.LoadEnv()
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "orders/create", cfg.Webhook.Topic)
	require.Equal(t, 10*time.Second, cfg.Reassignment.GracePeriod)
	require.Equal(t, 15*time.Second, cfg.Fulfillment.CallTimeout)
	require.Equal(t, "#", cfg.Reassignment.LookupPrefix)
	require.True(t, cfg.Reassignment.StripPrefix)
	require.Equal(t, 1, cfg.Reassignment.Concurrency)
	require.Equal(t, []string{"pickup"}, cfg.Classifier.TagKeywords)
	require.Equal(t, []string{"pickup", "pick up", "local"}, cfg.Classifier.ShippingKeywords)
	require.False(t, cfg.Kafka.Enabled)
}

func TestLoadEnv_Validation(t *testing.T) {
	testCases := []struct {
		desc string
		env  map[string]string
	}{
		{
			desc: "MissingPickupWarehouse",
			env:  map[string]string{"FULFILLMENT_PICKUP_WAREHOUSE_ID": ""},
		},
		{
			desc: "InvalidURL",
			env:  map[string]string{"FULFILLMENT_URL": "not a url"},
		},
		{
			desc: "WriteTimeoutShorterThanGracePeriod",
			env: map[string]string{
				"REASSIGN_GRACE_PERIOD": "20s",
				"HTTP_WRITE_TIMEOUT":    "15s",
			},
		},
		{
			desc: "WriteTimeoutLeavesNoRoomForResponse",
			env: map[string]string{
				"REASSIGN_GRACE_PERIOD": "20s",
				"HTTP_WRITE_TIMEOUT":    "21s",
			},
		},
		{
			desc: "KafkaEnabledWithoutBrokers",
			env: map[string]string{
				"KAFKA_ENABLED": "true",
				"KAFKA_TOPIC":   "pickup-reassign-outcomes",
			},
		},
		{
			desc: "UnknownEnv",
			env:  map[string]string{"ENV": "qa"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := config.LoadEnv()
			require.Error(t, err)
			require.Nil(t, cfg)
		})
	}
}

func TestLoadPath(t *testing.T) {
	setRequiredEnv(t)
	// values written by the file are restored once the test ends
	t.Setenv("REASSIGN_GRACE_PERIOD", "10s")
	t.Setenv("CLASSIFIER_PICKUP_LOCATION_NAME", "")
	t.Setenv("REASSIGN_CONCURRENCY", "1")

	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "REASSIGN_GRACE_PERIOD=3s\n" +
		"CLASSIFIER_PICKUP_LOCATION_NAME=Main Street Store\n" +
		"REASSIGN_CONCURRENCY=4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.LoadPath(path)
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, cfg.Reassignment.GracePeriod)
	require.Equal(t, "Main Street Store", cfg.Classifier.PickupLocationName)
	require.Equal(t, 4, cfg.Reassignment.Concurrency)
}

func TestLoadPath_MissingFile(t *testing.T) {
	_, err := config.LoadPath(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
}

func TestHTTP_ProcessingBudget(t *testing.T) {
	testCases := []struct {
		desc         string
		writeTimeout time.Duration
		want         time.Duration
	}{
		{desc: "no write timeout", writeTimeout: 0, want: 0},
		{desc: "default", writeTimeout: 90 * time.Second, want: 88 * time.Second},
		{desc: "short timeout keeps a quarter", writeTimeout: time.Second, want: 750 * time.Millisecond},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			h := config.HTTP{WriteTimeout: tc.writeTimeout}
			require.Equal(t, tc.want, h.ProcessingBudget())
		})
	}
}
