package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const settingsKey = "settings:site"

var ErrUnknownSetting = errors.New("unknown setting")

// defaultSettings are the read-through defaults returned for any key that
// has never been written.
var defaultSettings = map[string]string{
	"siteName":                  "PrimeTaxi & Tours",
	"siteDescription":           "Premium taxi and tour services in Iceland",
	"contactEmail":              "info@primetaxi.is",
	"contactPhone":              "+354 555 1234",
	"address":                   "Reykjavik, Iceland",
	"currency":                  "ISK",
	"timezone":                  "Atlantic/Reykjavik",
	"bookingEmailNotifications": "true",
	"autoConfirmBookings":       "false",
}

// SettingsStore is the durable site-configuration store. It replaces a
// process-local cache so that every running instance observes the same
// configuration.
type SettingsStore struct {
	client *redis.Client
}

func NewSettingsStore(client *redis.Client) *SettingsStore {
	return &SettingsStore{client: client}
}

// Get returns all settings, with defaults filled in for unset keys.
func (s *SettingsStore) Get(ctx context.Context) (map[string]string, error) {
	stored, err := s.client.HGetAll(ctx, settingsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %v", err)
	}

	settings := make(map[string]string, len(defaultSettings))
	for key, value := range defaultSettings {
		settings[key] = value
	}
	for key, value := range stored {
		settings[key] = value
	}
	return settings, nil
}

// Set applies a partial update. Unknown keys are rejected.
func (s *SettingsStore) Set(ctx context.Context, partial map[string]string) error {
	if len(partial) == 0 {
		return nil
	}

	fields := make([]interface{}, 0, len(partial)*2)
	for key, value := range partial {
		if _, ok := defaultSettings[key]; !ok {
			return fmt.Errorf("%w %q", ErrUnknownSetting, key)
		}
		fields = append(fields, key, value)
	}

	return s.client.HSet(ctx, settingsKey, fields...).Err()
}

// Currency returns the configured booking currency, falling back to the
// default when the store is unreachable.
func (s *SettingsStore) Currency(ctx context.Context) string {
	settings, err := s.Get(ctx)
	if err != nil {
		return defaultSettings["currency"]
	}
	return settings["currency"]
}
