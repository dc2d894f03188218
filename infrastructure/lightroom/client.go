package lightroom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"photo-store/domain/dto"
	"photo-store/domain/model"
	"photo-store/domain/repository"
	"photo-store/infrastructure/logger"

	"github.com/google/go-querystring/query"
)

const (
	defaultBaseURL  = "https://lr.adobe.io"
	defaultAuthURL  = "https://ims-na1.adobelogin.com/ims/authorize/v2"
	defaultTokenURL = "https://ims-na1.adobelogin.com/ims/token/v3"

	defaultRenditionType = "2048"
	defaultAssetLimit    = 100
)

// Config holds the Lightroom integration settings.
type Config struct {
	ClientID      string   `json:"client_id"`
	ClientSecret  string   `json:"client_secret"`
	RedirectURL   string   `json:"redirect_url"`
	Scopes        []string `json:"scopes"`
	AuthURL       string   `json:"auth_url"`
	TokenURL      string   `json:"token_url"`
	BaseURL       string   `json:"base_url"`
	RenditionType string   `json:"rendition_type"`
	DefaultPrice  float64  `json:"default_price"`
}

// Client is the Lightroom catalog integration client. One instance serves the
// whole process: the storefront exposes a single store owner's catalog.
type Client struct {
	cfg        Config
	tokens     repository.ITokenStore
	httpClient *http.Client

	// refreshMu serializes token refreshes so two concurrent requests that
	// both find a stale token issue one refresh, not two.
	refreshMu sync.Mutex
}

// NewClient creates a Lightroom client. Endpoint URLs default to the Adobe
// production endpoints; tests override them through cfg.
func NewClient(cfg Config, tokens repository.ITokenStore) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.RenditionType == "" {
		cfg.RenditionType = defaultRenditionType
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"openid", "lr_partner_apis", "lr_partner_rendition_apis", "offline_access"}
	}
	return &Client{
		cfg:        cfg,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListCatalogs returns the provider's catalog listing. Executor failures
// propagate unchanged.
func (c *Client) ListCatalogs(ctx context.Context) ([]model.Catalog, error) {
	res, err := c.request(ctx, http.MethodGet, "/v2/catalogs", nil)
	if err != nil {
		return nil, err
	}
	var listing catalogListing
	if err := json.Unmarshal(res.Body, &listing); err != nil {
		return nil, wrapError(KindUpstream, "unexpected catalog listing payload", err)
	}
	catalogs := make([]model.Catalog, 0, len(listing.Resources))
	for _, r := range listing.Resources {
		catalogs = append(catalogs, model.Catalog{ID: r.ID, Name: r.Payload.Name})
	}
	return catalogs, nil
}

// defaultCatalogID resolves the account's default catalog. An account with no
// catalog is a legitimate, if unusual, state: it yields "" with no error.
func (c *Client) defaultCatalogID(ctx context.Context) (string, error) {
	catalogs, err := c.ListCatalogs(ctx)
	if err != nil {
		return "", err
	}
	if len(catalogs) == 0 {
		return "", nil
	}
	return catalogs[0].ID, nil
}

// ListAlbums lists the albums of a catalog; with an empty catalogID the
// default catalog is resolved first (one extra round trip).
func (c *Client) ListAlbums(ctx context.Context, catalogID string) ([]model.Album, error) {
	if catalogID == "" {
		id, err := c.defaultCatalogID(ctx)
		if err != nil {
			return nil, err
		}
		if id == "" {
			return []model.Album{}, nil
		}
		catalogID = id
	}
	res, err := c.request(ctx, http.MethodGet, fmt.Sprintf("/v2/catalogs/%s/albums", catalogID), nil)
	if err != nil {
		return nil, err
	}
	var listing albumListing
	if err := json.Unmarshal(res.Body, &listing); err != nil {
		return nil, wrapError(KindUpstream, "unexpected album listing payload", err)
	}
	albums := make([]model.Album, 0, len(listing.Resources))
	for _, r := range listing.Resources {
		albums = append(albums, model.Album{ID: r.ID, Name: r.Payload.Name})
	}
	return albums, nil
}

// listAssets fetches a page of assets, catalog-wide or album-scoped. Only
// provided options become query parameters; limit always does.
func (c *Client) listAssets(ctx context.Context, catalogID string, req dto.AssetListRequest) ([]assetResource, error) {
	if req.Limit <= 0 {
		req.Limit = defaultAssetLimit
	}
	qs, err := query.Values(req)
	if err != nil {
		return nil, wrapError(KindValidation, "invalid asset listing options", err)
	}
	path := fmt.Sprintf("/v2/catalogs/%s/assets", catalogID)
	if req.AlbumID != "" {
		path = fmt.Sprintf("/v2/catalogs/%s/albums/%s/assets", catalogID, req.AlbumID)
	}
	res, err := c.request(ctx, http.MethodGet, path, qs)
	if err != nil {
		return nil, err
	}
	var listing assetListing
	if err := json.Unmarshal(res.Body, &listing); err != nil {
		return nil, wrapError(KindUpstream, "unexpected asset listing payload", err)
	}
	return listing.Resources, nil
}

// resolveAlbumID scans the catalog's albums for the first whose name matches
// case-insensitively after trimming. A miss is not an error.
func (c *Client) resolveAlbumID(ctx context.Context, catalogID, name string) (string, error) {
	albums, err := c.ListAlbums(ctx, catalogID)
	if err != nil {
		return "", err
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, a := range albums {
		if strings.ToLower(strings.TrimSpace(a.Name)) == want {
			return a.ID, nil
		}
	}
	return "", nil
}

// GetRendition fetches one asset's image bytes at a named rendition size.
// Failures propagate; the API layer decides how to present them.
func (c *Client) GetRendition(ctx context.Context, catalogID, assetID, renditionType string) (*dto.Rendition, error) {
	if catalogID == "" || assetID == "" {
		return nil, newError(KindValidation, "catalog id and asset id are required")
	}
	if renditionType == "" {
		renditionType = c.cfg.RenditionType
	}
	path := fmt.Sprintf("/v2/catalogs/%s/assets/%s/renditions/%s", catalogID, assetID, renditionType)
	res, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	contentType := res.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return &dto.Rendition{Bytes: res.Body, ContentType: contentType}, nil
}

// ListPhotos is the aggregate storefront listing. It never returns an error:
// any failure is logged and degrades to an empty slice, so the API layer can
// fall back to local photos instead of an error page.
func (c *Client) ListPhotos(ctx context.Context, req dto.PhotoListRequest) []model.Photo {
	catalogID, err := c.defaultCatalogID(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Lightroom catalog lookup failed - returning no photos")
		return []model.Photo{}
	}
	if catalogID == "" {
		logger.GetLogger().Info("Connected Lightroom account has no catalog")
		return []model.Photo{}
	}

	albumID := req.AlbumID
	if albumID == "" && req.AlbumName != "" {
		albumID, err = c.resolveAlbumID(ctx, catalogID, req.AlbumName)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Album lookup failed - returning no photos")
			return []model.Photo{}
		}
		if albumID == "" {
			logger.GetLogger().WithField("album_name", req.AlbumName).Info("Album not found - listing without album filter")
		}
	}

	assets, err := c.listAssets(ctx, catalogID, dto.AssetListRequest{
		Limit:   req.Limit,
		Offset:  req.Offset,
		Subtype: req.Subtype,
		AlbumID: albumID,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Lightroom asset listing failed - returning no photos")
		return []model.Photo{}
	}

	if req.MinRating > 0 {
		// The remote API has no server-side rating filter, so this runs
		// after the fetch; the limit applies to pre-filter counts.
		filtered := assets[:0]
		for _, a := range assets {
			if a.rating() >= req.MinRating {
				filtered = append(filtered, a)
			}
		}
		assets = filtered
	}

	price := req.DefaultPrice
	if price == 0 {
		price = c.cfg.DefaultPrice
	}
	photos := make([]model.Photo, 0, len(assets))
	for i, a := range assets {
		photos = append(photos, c.photoFromAsset(a, i, catalogID, price))
	}
	return photos
}

// photoFromAsset maps a remote asset to the storefront Photo shape. The image
// URL is a same-origin proxy path so the bearer token never reaches the
// browser.
func (c *Client) photoFromAsset(a assetResource, position int, catalogID string, price float64) model.Photo {
	asset := a.unwrap()
	title := a.caption()
	if title == "" {
		title = a.fileName()
	}
	if title == "" {
		title = fmt.Sprintf("Photo %d", position+1)
	}
	return model.Photo{
		ID:    asset.ID,
		Title: title,
		URL:   fmt.Sprintf("/photos/rendition/%s/%s?type=%s", catalogID, asset.ID, c.cfg.RenditionType),
		Price: price,
		Metadata: model.PhotoMetadata{
			FileName:  a.fileName(),
			Created:   asset.Created,
			Updated:   asset.Updated,
			CatalogID: catalogID,
		},
	}
}

// IsConnected reports whether an account is connected. A refresh token alone
// counts: it can self-heal into a fresh access token.
func (c *Client) IsConnected() bool {
	rec := c.tokens.Current()
	return rec != nil && (rec.AccessToken != "" || rec.RefreshToken != "")
}

// Disconnect erases the stored tokens.
func (c *Client) Disconnect() error {
	return c.tokens.Clear()
}
