package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"photo-store/domain/dto"
	"photo-store/domain/model"
)

type fakeLightroom struct {
	connected    bool
	photos       []model.Photo
	albums       []model.Album
	disconnected bool
}

func (f *fakeLightroom) AuthorizationURL(state string) (string, error) { return "", nil }
func (f *fakeLightroom) ExchangeCode(ctx context.Context, code string) (*dto.TokenResponse, error) {
	return nil, nil
}
func (f *fakeLightroom) RefreshTokens(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	return nil, nil
}
func (f *fakeLightroom) ListCatalogs(ctx context.Context) ([]model.Catalog, error) { return nil, nil }
func (f *fakeLightroom) ListAlbums(ctx context.Context, catalogID string) ([]model.Album, error) {
	return f.albums, nil
}
func (f *fakeLightroom) ListPhotos(ctx context.Context, req dto.PhotoListRequest) []model.Photo {
	return f.photos
}
func (f *fakeLightroom) GetRendition(ctx context.Context, catalogID, assetID, renditionType string) (*dto.Rendition, error) {
	return &dto.Rendition{Bytes: []byte("jpeg"), ContentType: "image/jpeg"}, nil
}
func (f *fakeLightroom) IsConnected() bool { return f.connected }
func (f *fakeLightroom) Disconnect() error {
	f.disconnected = true
	f.connected = false
	return nil
}

type fakePhotoStore struct {
	photos []model.Photo
	err    error
}

func (f *fakePhotoStore) ListPhotos(ctx context.Context) ([]model.Photo, error) {
	return f.photos, f.err
}

type fakePublisher struct {
	events []string
}

func (f *fakePublisher) Publish(ctx context.Context, eventType string, payload map[string]interface{}) (string, error) {
	f.events = append(f.events, eventType)
	return "msg-1", nil
}

func TestPhotoUsecase_GetPhotos_PrefersConnectedCatalog(t *testing.T) {
	lr := &fakeLightroom{
		connected: true,
		photos:    []model.Photo{{ID: "remote-1", Title: "Remote"}},
	}
	local := &fakePhotoStore{photos: []model.Photo{{ID: "local-1", Title: "Local"}}}
	usecase := NewPhotoUsecase(lr, local, nil, nil)

	photos := usecase.GetPhotos(context.Background(), dto.PhotoListRequest{})

	require.Len(t, photos, 1)
	assert.Equal(t, "remote-1", photos[0].ID)
}

func TestPhotoUsecase_GetPhotos_FallsBackWhenNotConnected(t *testing.T) {
	lr := &fakeLightroom{connected: false}
	local := &fakePhotoStore{photos: []model.Photo{{ID: "local-1", Title: "Local"}}}
	usecase := NewPhotoUsecase(lr, local, nil, nil)

	photos := usecase.GetPhotos(context.Background(), dto.PhotoListRequest{})

	require.Len(t, photos, 1)
	assert.Equal(t, "local-1", photos[0].ID)
}

func TestPhotoUsecase_GetPhotos_FallsBackWhenRemoteEmpty(t *testing.T) {
	lr := &fakeLightroom{connected: true, photos: []model.Photo{}}
	local := &fakePhotoStore{photos: []model.Photo{{ID: "local-1"}}}
	usecase := NewPhotoUsecase(lr, local, nil, nil)

	photos := usecase.GetPhotos(context.Background(), dto.PhotoListRequest{})

	require.Len(t, photos, 1)
	assert.Equal(t, "local-1", photos[0].ID)
}

func TestPhotoUsecase_GetPhotos_LocalErrorDegradesToEmpty(t *testing.T) {
	lr := &fakeLightroom{connected: false}
	local := &fakePhotoStore{err: errors.New("disk gone")}
	usecase := NewPhotoUsecase(lr, local, nil, nil)

	photos := usecase.GetPhotos(context.Background(), dto.PhotoListRequest{})

	assert.NotNil(t, photos)
	assert.Empty(t, photos)
}

func TestPhotoUsecase_PublishesStorefrontEvents(t *testing.T) {
	lr := &fakeLightroom{connected: true, photos: []model.Photo{{ID: "remote-1"}}}
	publisher := &fakePublisher{}
	usecase := NewPhotoUsecase(lr, nil, publisher, nil)

	usecase.GetPhotos(context.Background(), dto.PhotoListRequest{})
	_, err := usecase.GetRendition(context.Background(), "cat-1", "asset-1", "2048")
	require.NoError(t, err)
	require.NoError(t, usecase.Disconnect(context.Background()))

	assert.Equal(t, []string{"catalog.served", "rendition.served", "account.disconnected"}, publisher.events)
}

func TestPhotoUsecase_Status(t *testing.T) {
	usecase := NewPhotoUsecase(&fakeLightroom{connected: true}, nil, nil, nil)
	assert.Equal(t, map[string]interface{}{"connected": true}, usecase.Status())

	usecase = NewPhotoUsecase(&fakeLightroom{connected: false}, nil, nil, nil)
	assert.Equal(t, map[string]interface{}{"connected": false}, usecase.Status())
}

func TestPhotoUsecase_Disconnect(t *testing.T) {
	lr := &fakeLightroom{connected: true}
	usecase := NewPhotoUsecase(lr, nil, nil, nil)

	require.NoError(t, usecase.Disconnect(context.Background()))
	assert.True(t, lr.disconnected)
	assert.Equal(t, map[string]interface{}{"connected": false}, usecase.Status())
}
