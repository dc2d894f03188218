package server

import (
	"net/http"
	"time"

	"photo-store/domain/repository"
	httpHandler "photo-store/interfaces/http"
	"photo-store/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	photoHandler httpHandler.IPhotoHandler,
	lightroomAuthHandler httpHandler.ILightroomAuthHandler,
	userRepository repository.IUser,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:3000", "https://localhost:4200"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository, secretKey))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)

	// Storefront routes: the photo catalog and rendition proxy are public.
	router.GET("/photos", photoHandler.GetPhotos)
	router.GET("/photos/rendition/:catalogId/:assetId", photoHandler.GetRendition)

	// OAuth connect routes
	if lightroomAuthHandler != nil {
		router.GET("/auth/lightroom", lightroomAuthHandler.GetAuthURL)
		router.GET("/auth/lightroom/callback", lightroomAuthHandler.HandleCallback)
	}

	// Account management requires a logged-in storefront user.
	lightroomGroup := api.Group("/lightroom")
	{
		lightroomGroup.GET("/status", photoHandler.Status)
		lightroomGroup.GET("/albums", photoHandler.GetAlbums)
		lightroomGroup.POST("/disconnect", photoHandler.Disconnect)
	}

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
