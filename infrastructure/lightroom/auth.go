package lightroom

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"photo-store/domain/dto"
	"photo-store/infrastructure/logger"

	"golang.org/x/oauth2"
)

func (c *Client) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		RedirectURL:  c.cfg.RedirectURL,
		Scopes:       c.cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.cfg.AuthURL,
			TokenURL: c.cfg.TokenURL,
		},
	}
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// AuthorizationURL builds the IMS redirect target for the owner's browser.
// An empty state gets a random one; the caller stores it for the callback
// check.
func (c *Client) AuthorizationURL(state string) (string, error) {
	if c.cfg.ClientID == "" {
		return "", newError(KindConfiguration, "Lightroom client id is not configured")
	}
	if state == "" {
		state = randomState()
	}
	return c.oauth2Config().AuthCodeURL(state), nil
}

// ExchangeCode trades an authorization code for tokens and persists them.
// The raw token response is returned for informational logging.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*dto.TokenResponse, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return nil, newError(KindConfiguration, "Lightroom client credentials are not configured")
	}
	if code == "" {
		return nil, newError(KindValidation, "authorization code is required")
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURL)

	tr, err := c.postToken(ctx, form)
	if err != nil {
		return nil, err
	}
	if tr.RefreshToken == "" {
		logger.GetLogger().Warn("Token response carried no refresh token - the connection cannot self-heal after expiry")
	}
	if err := c.tokens.Save(tr.AccessToken, tr.RefreshToken, tr.ExpiresIn); err != nil {
		return nil, err
	}
	return tr, nil
}

// RefreshTokens obtains a new access token with the refresh grant. When the
// provider issues no new refresh token the prior one is preserved. Failures
// propagate; the caller decides whether to fall back.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return nil, newError(KindConfiguration, "Lightroom client credentials are not configured")
	}
	if refreshToken == "" {
		return nil, newError(KindValidation, "refresh token is required")
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("refresh_token", refreshToken)

	tr, err := c.postToken(ctx, form)
	if err != nil {
		return nil, err
	}
	newRefresh := tr.RefreshToken
	if newRefresh == "" {
		newRefresh = refreshToken
	}
	if err := c.tokens.Save(tr.AccessToken, newRefresh, tr.ExpiresIn); err != nil {
		return nil, err
	}
	return tr, nil
}

// postToken performs one form-encoded POST against the token endpoint.
func (c *Client) postToken(ctx context.Context, form url.Values) (*dto.TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, wrapError(KindTransport, "building token request failed", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapError(KindTransport, "token endpoint unreachable", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, wrapError(KindTransport, "reading token response failed", err)
	}

	var tr dto.TokenResponse
	if err := json.Unmarshal(stripGuardPrefix(body), &tr); err != nil {
		return nil, &Error{Kind: KindUpstream, StatusCode: resp.StatusCode, Message: "unexpected token response", Err: err}
	}
	if tr.Error != "" {
		msg := tr.ErrorDescription
		if msg == "" {
			msg = tr.Error
		}
		return nil, &Error{Kind: KindUpstream, StatusCode: resp.StatusCode, Message: msg}
	}
	return &tr, nil
}
