package api

import (
	"crypto/subtle"
	"errors"
	"strings"

	"shareit/internal/config"
)

const (
	apiKeyHeaderDefault = "x-api-key"
	clientKeyUnknown    = "unknown"

	permReadBookings  = "read:bookings"
	permWriteBookings = "write:bookings"
	permReadItems     = "read:items"
	permWriteItems    = "write:items"
	permReadUsers     = "read:users"
	permWriteUsers    = "write:users"
)

var (
	errMissingAPIKey    = errors.New("missing api key")
	errInvalidAPIKey    = errors.New("invalid api key")
	errPermissionDenied = errors.New("permission denied")
)

// apiKeys authenticates clients of both transports against the configured keys.
type apiKeys struct {
	header  string
	clients []config.APIClientKey
}

func newAPIKeys(cfg config.APIAuthConfig) *apiKeys {
	header := strings.ToLower(strings.TrimSpace(cfg.HeaderAPIKey))
	if header == "" {
		header = apiKeyHeaderDefault
	}
	return &apiKeys{header: header, clients: cfg.APIKeys}
}

func (k *apiKeys) authenticate(key, required string) (config.APIClientKey, error) {
	if key == "" {
		return config.APIClientKey{}, errMissingAPIKey
	}

	for _, c := range k.clients {
		if subtle.ConstantTimeCompare([]byte(c.Key), []byte(key)) == 1 {
			if !permits(c, required) {
				return c, errPermissionDenied
			}
			return c, nil
		}
	}
	return config.APIClientKey{}, errInvalidAPIKey
}

// permits treats an empty permission list as allow-all.
func permits(client config.APIClientKey, required string) bool {
	if required == "" || len(client.Permissions) == 0 {
		return true
	}
	for _, p := range client.Permissions {
		if strings.TrimSpace(p) == required {
			return true
		}
	}
	return false
}
