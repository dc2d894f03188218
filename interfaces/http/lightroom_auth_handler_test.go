package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"photo-store/domain/dto"
	"photo-store/domain/model"
	"photo-store/infrastructure/cache"
)

type fakeLightroomClient struct {
	exchangedCode string
}

func (f *fakeLightroomClient) AuthorizationURL(state string) (string, error) {
	return "https://ims.example.com/authorize?state=" + state, nil
}

func (f *fakeLightroomClient) ExchangeCode(ctx context.Context, code string) (*dto.TokenResponse, error) {
	f.exchangedCode = code
	return &dto.TokenResponse{AccessToken: "acc", RefreshToken: "ref", ExpiresIn: 3600}, nil
}

func (f *fakeLightroomClient) RefreshTokens(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	return nil, nil
}
func (f *fakeLightroomClient) ListCatalogs(ctx context.Context) ([]model.Catalog, error) {
	return nil, nil
}
func (f *fakeLightroomClient) ListAlbums(ctx context.Context, catalogID string) ([]model.Album, error) {
	return nil, nil
}
func (f *fakeLightroomClient) ListPhotos(ctx context.Context, req dto.PhotoListRequest) []model.Photo {
	return nil
}
func (f *fakeLightroomClient) GetRendition(ctx context.Context, catalogID, assetID, renditionType string) (*dto.Rendition, error) {
	return nil, nil
}
func (f *fakeLightroomClient) IsConnected() bool { return false }
func (f *fakeLightroomClient) Disconnect() error { return nil }

func setupAuthRouter(client *fakeLightroomClient) (*gin.Engine, cache.IStateStore) {
	gin.SetMode(gin.TestMode)
	stateStore := cache.NewStateStore(nil)
	handler := NewLightroomAuthHandler(client, stateStore, nil, nil)
	router := gin.New()
	router.GET("/auth/lightroom", handler.GetAuthURL)
	router.GET("/auth/lightroom/callback", handler.HandleCallback)
	return router, stateStore
}

func TestLightroomAuthHandler_GetAuthURL(t *testing.T) {
	router, stateStore := setupAuthRouter(&fakeLightroomClient{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/lightroom", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["auth_url"], "https://ims.example.com/authorize")
	require.NotEmpty(t, body["state"])

	// The issued state is consumable exactly once.
	assert.True(t, stateStore.Consume(context.Background(), body["state"]))
}

func TestLightroomAuthHandler_Callback(t *testing.T) {
	client := &fakeLightroomClient{}
	router, stateStore := setupAuthRouter(client)
	require.NoError(t, stateStore.Put(context.Background(), "issued-state"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/lightroom/callback?state=issued-state&code=auth-code", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "auth-code", client.exchangedCode)
	// Tokens stay server side.
	assert.NotContains(t, w.Body.String(), "acc")
	assert.Contains(t, w.Body.String(), `"connected":true`)
}

func TestLightroomAuthHandler_Callback_RejectsUnknownState(t *testing.T) {
	client := &fakeLightroomClient{}
	router, _ := setupAuthRouter(client)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/lightroom/callback?state=forged&code=auth-code", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, client.exchangedCode)
}

func TestLightroomAuthHandler_Callback_MissingCode(t *testing.T) {
	router, stateStore := setupAuthRouter(&fakeLightroomClient{})
	require.NoError(t, stateStore.Put(context.Background(), "issued-state"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/lightroom/callback?state=issued-state", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLightroomAuthHandler_Callback_ProviderError(t *testing.T) {
	client := &fakeLightroomClient{}
	router, _ := setupAuthRouter(client)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/lightroom/callback?error=access_denied&error_description=owner+declined", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, client.exchangedCode)
}
