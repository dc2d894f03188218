package lightroom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"photo-store/infrastructure/logger"
)

// guardPrefix is the anti-JSON-hijacking literal the catalog API prepends to
// response bodies; it must be stripped before parsing.
const guardPrefix = "while (1) {}"

// refreshHorizon is how close to expiry a token may get before a request
// proactively refreshes it.
const refreshHorizon = 5 * time.Minute

type apiResult struct {
	Body        []byte
	ContentType string
}

// ensureToken yields a usable access token, refreshing proactively when the
// known expiry is within the horizon. When no access token can be produced the
// operation fails with an authentication error instructing re-authorization.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	rec := c.tokens.Current()

	// Pre-flight freshness check. A token known to be stale would only
	// produce a 401 one round-trip later, so treat it as missing when it
	// cannot be refreshed here.
	if rec != nil && rec.AccessToken != "" && rec.ExpiresAt != nil && time.Until(*rec.ExpiresAt) < refreshHorizon {
		if rec.RefreshToken == "" {
			logger.GetLogger().Warn("Access token near expiry with no refresh token available")
			rec = nil
		} else if _, err := c.RefreshTokens(ctx, rec.RefreshToken); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Proactive token refresh failed")
			rec = nil
		} else {
			rec = c.tokens.Current()
		}
	}

	if rec == nil || rec.AccessToken == "" {
		stored := c.tokens.Current()
		if stored == nil || stored.RefreshToken == "" {
			return "", newError(KindAuthentication, "no Lightroom account connected - authorize the store owner's account first")
		}
		if _, err := c.RefreshTokens(ctx, stored.RefreshToken); err != nil {
			return "", wrapError(KindAuthentication, "access token refresh failed - reconnect the Lightroom account", err)
		}
		rec = c.tokens.Current()
	}
	if rec == nil || rec.AccessToken == "" {
		return "", newError(KindAuthentication, "no usable access token - reconnect the Lightroom account")
	}
	return rec.AccessToken, nil
}

// request issues one authenticated call against the catalog API. On a 401 it
// refreshes and retries through an explicit bounded loop, at most once; a
// second 401 propagates as an authentication error.
func (c *Client) request(ctx context.Context, method, path string, query url.Values) (*apiResult, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	target, err := c.resolveURL(path, query)
	if err != nil {
		return nil, err
	}

	const maxRetries = 1
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, target, nil)
		if err != nil {
			return nil, wrapError(KindTransport, "building catalog request failed", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("X-API-Key", c.cfg.ClientID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, wrapError(KindTransport, fmt.Sprintf("catalog request to %s failed", path), err)
		}
		body, err := readBody(resp)
		resp.Body.Close()
		if err != nil {
			return nil, wrapError(KindTransport, "reading catalog response failed", err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			rec := c.tokens.Current()
			if attempt < maxRetries && rec != nil && rec.RefreshToken != "" {
				logger.GetLogger().WithField("path", path).Info("Catalog API returned 401 - refreshing token and retrying once")
				if _, err := c.RefreshTokens(ctx, rec.RefreshToken); err != nil {
					return nil, wrapError(KindAuthentication, "token refresh after 401 failed - reconnect the Lightroom account", err)
				}
				if rec = c.tokens.Current(); rec != nil {
					token = rec.AccessToken
				}
				continue
			}
			return nil, &Error{Kind: KindAuthentication, StatusCode: resp.StatusCode, Message: "Lightroom rejected the access token - reconnect the account"}
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return &apiResult{
				Body:        stripGuardPrefix(body),
				ContentType: resp.Header.Get("Content-Type"),
			}, nil
		}

		return nil, c.upstreamError(resp.StatusCode, body, path)
	}
}

// resolveURL joins a relative path to the configured base; absolute URLs pass
// through untouched.
func (c *Client) resolveURL(path string, query url.Values) (string, error) {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", wrapError(KindValidation, fmt.Sprintf("invalid request path %q", path), err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// upstreamError turns a non-2xx response into a tagged error, preferring the
// provider's own message when the body parses.
func (c *Client) upstreamError(status int, body []byte, path string) error {
	msg := parseErrorMessage(stripGuardPrefix(body))
	if msg == "" {
		msg = fmt.Sprintf("status %d: %s", status, truncate(string(body), 200))
	}
	if status == http.StatusNotFound && strings.HasSuffix(strings.TrimRight(path, "/"), "/catalogs") {
		msg += " (known causes: the account has no cloud catalog, its plan does not include Lightroom cloud storage, or the catalog was never initialized)"
	}
	return &Error{Kind: KindUpstream, StatusCode: status, Message: msg}
}

func parseErrorMessage(body []byte) string {
	var parsed struct {
		Description      string `json:"description"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	switch {
	case parsed.Description != "":
		return parsed.Description
	case parsed.ErrorDescription != "":
		return parsed.ErrorDescription
	default:
		return parsed.Error
	}
}

// stripGuardPrefix removes the guard literal, tolerating leading whitespace
// and any casing.
func stripGuardPrefix(body []byte) []byte {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) >= len(guardPrefix) && strings.EqualFold(string(trimmed[:len(guardPrefix)]), guardPrefix) {
		return bytes.TrimLeft(trimmed[len(guardPrefix):], " \t\r\n")
	}
	return body
}

func readBody(resp *http.Response) ([]byte, error) {
	return io.ReadAll(resp.Body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
