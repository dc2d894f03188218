package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"photo-store/domain/repository"
	"photo-store/infrastructure/cache"
	"photo-store/infrastructure/logger"
	"photo-store/infrastructure/pubsub"
	"photo-store/infrastructure/servicebus"
)

// ILightroomAuthHandler defines the OAuth connect flow for the Lightroom
// account.
type ILightroomAuthHandler interface {
	GetAuthURL(ctx *gin.Context)
	HandleCallback(ctx *gin.Context)
}

type LightroomAuthHandler struct {
	client     repository.ILightroom
	stateStore cache.IStateStore
	publisher  pubsub.IEventPublisher
	notifier   servicebus.INotifier
}

func NewLightroomAuthHandler(
	client repository.ILightroom,
	stateStore cache.IStateStore,
	publisher pubsub.IEventPublisher,
	notifier servicebus.INotifier,
) ILightroomAuthHandler {
	return &LightroomAuthHandler{
		client:     client,
		stateStore: stateStore,
		publisher:  publisher,
		notifier:   notifier,
	}
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// GetAuthURL handles GET /auth/lightroom. The user must approve access in
// the browser.
func (h *LightroomAuthHandler) GetAuthURL(c *gin.Context) {
	state := randomState()

	authURL, err := h.client.AuthorizationURL(state)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while building authorization URL")
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	if err := h.stateStore.Put(c.Request.Context(), state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not persist oauth state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"auth_url": authURL,
		"state":    state,
	})
}

// HandleCallback handles GET /auth/lightroom/callback. Tokens are persisted
// server side only; the browser never sees them.
func (h *LightroomAuthHandler) HandleCallback(c *gin.Context) {
	if errorParam := c.Query("error"); errorParam != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       fmt.Sprintf("OAuth error: %s", errorParam),
			"description": c.Query("error_description"),
		})
		return
	}

	state := c.Query("state")
	if !h.stateStore.Consume(c.Request.Context(), state) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "State parameter missing or not issued by this server",
			"action": "Visit /auth/lightroom to start over",
		})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code not found"})
		return
	}

	tokens, err := h.client.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while exchanging authorization code")
		c.JSON(statusForError(err), gin.H{
			"error":   "Failed to exchange code for token",
			"message": err.Error(),
		})
		return
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyConnectionChange(c.Request.Context(), true); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Connection change notification failed")
		}
	}
	if h.publisher != nil {
		if _, err := h.publisher.Publish(c.Request.Context(), "account.connected", nil); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Event publish failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"connected":         true,
		"has_refresh_token": tokens.RefreshToken != "",
		"expires_in":        tokens.ExpiresIn,
	})
}
