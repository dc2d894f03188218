package configuration

import (
	"fmt"
	"os"
	"strings"
)

// LightroomConfig represents the Adobe Lightroom integration configuration.
type LightroomConfig struct {
	ClientID      string   `mapstructure:"client_id"`
	ClientSecret  string   `mapstructure:"client_secret"`
	RedirectURL   string   `mapstructure:"redirect_url"`
	Scopes        []string `mapstructure:"scopes"`
	BaseURL       string   `mapstructure:"base_url"`
	AuthURL       string   `mapstructure:"auth_url"`
	TokenURL      string   `mapstructure:"token_url"`
	RenditionType string   `mapstructure:"rendition_type"`
	DefaultPrice  float64  `mapstructure:"default_price"`
}

// GetLightroomConfig returns the Lightroom configuration from the JSON config
// with environment variable fallback. Missing credentials are not an error
// here; the client reports a configuration failure when an operation actually
// needs them, so the rest of the storefront keeps working unconnected.
func GetLightroomConfig() (*LightroomConfig, error) {
	scheme := "http"
	if C.App.TLSEnabled {
		scheme = "https"
	}
	port := C.App.Port
	if port == 0 {
		port = 10001
	}
	defaultRedirect := fmt.Sprintf("%s://localhost:%d/auth/lightroom/callback", scheme, port)

	config := &LightroomConfig{
		ClientID:      getConfigValue(C.Lightroom.ClientID, "LIGHTROOM_CLIENT_ID", ""),
		ClientSecret:  getConfigValue(C.Lightroom.ClientSecret, "LIGHTROOM_CLIENT_SECRET", ""),
		RedirectURL:   getConfigValue(C.Lightroom.RedirectURI, "LIGHTROOM_REDIRECT_URL", defaultRedirect),
		BaseURL:       getConfigValue(C.Lightroom.BaseURL, "LIGHTROOM_BASE_URL", ""),
		AuthURL:       getConfigValue(C.Lightroom.AuthURL, "LIGHTROOM_AUTH_URL", ""),
		TokenURL:      getConfigValue(C.Lightroom.TokenURL, "LIGHTROOM_TOKEN_URL", ""),
		RenditionType: getConfigValue(C.Lightroom.RenditionType, "LIGHTROOM_RENDITION_TYPE", ""),
		Scopes:        C.Lightroom.Scopes,
		DefaultPrice:  C.Store.DefaultPrice,
	}
	return config, nil
}

// getConfigValue gets value from environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}
