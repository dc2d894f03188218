package repository

import (
	"context"

	"photo-store/domain/dto"
	"photo-store/domain/model"
)

// ITokenStore owns the connected account's credential state. Implementations
// persist synchronously: a successful Save means the record is durable.
type ITokenStore interface {
	// Load reads the persisted record at startup. A missing record means
	// "never connected" and is not an error.
	Load() (*model.AccountToken, error)
	// Save overwrites the record. expiresIn is the issuer's expiry duration
	// in seconds; zero means the issuer omitted an expiry.
	Save(accessToken, refreshToken string, expiresIn int64) error
	// Clear removes the record. Idempotent.
	Clear() error
	// Current returns the in-memory mirror (nil when not connected).
	Current() *model.AccountToken
}

// ILightroom is the third-party photo-catalog integration client consumed by
// the API layer.
type ILightroom interface {
	AuthorizationURL(state string) (string, error)
	ExchangeCode(ctx context.Context, code string) (*dto.TokenResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)

	ListCatalogs(ctx context.Context) ([]model.Catalog, error)
	ListAlbums(ctx context.Context, catalogID string) ([]model.Album, error)
	// ListPhotos never returns an error: any internal failure degrades to an
	// empty slice so the storefront can fall back to local photos.
	ListPhotos(ctx context.Context, req dto.PhotoListRequest) []model.Photo
	GetRendition(ctx context.Context, catalogID, assetID, renditionType string) (*dto.Rendition, error)

	IsConnected() bool
	Disconnect() error
}

// IPhotoStore is the local fallback photo catalog.
type IPhotoStore interface {
	ListPhotos(ctx context.Context) ([]model.Photo, error)
}
