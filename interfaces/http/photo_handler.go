package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"photo-store/domain/dto"
	"photo-store/infrastructure/lightroom"
	"photo-store/infrastructure/logger"
	"photo-store/usecase"
)

type IPhotoHandler interface {
	GetPhotos(c *gin.Context)
	GetRendition(c *gin.Context)
	GetAlbums(c *gin.Context)
	Status(c *gin.Context)
	Disconnect(c *gin.Context)
}

type PhotoHandler struct {
	photoUsecase usecase.IPhotoUsecase
}

func NewPhotoHandler(photoUsecase usecase.IPhotoUsecase) IPhotoHandler {
	return &PhotoHandler{photoUsecase: photoUsecase}
}

// GetPhotos handles GET /photos. Listing never fails: any catalog problem
// degrades to the local store or an empty list.
func (photoHandler *PhotoHandler) GetPhotos(c *gin.Context) {
	var req dto.PhotoListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while binding query")
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: err.Error()})
		return
	}

	photos := photoHandler.photoUsecase.GetPhotos(c.Request.Context(), req)

	c.JSON(http.StatusOK, dto.Res{
		ResponseCode:    "00",
		ResponseMessage: "Success",
		Data:            photos,
	})
}

// GetRendition handles GET /photos/rendition/:catalogId/:assetId. It streams
// the image through the server so the catalog bearer token never reaches the
// browser.
func (photoHandler *PhotoHandler) GetRendition(c *gin.Context) {
	catalogID := c.Param("catalogId")
	assetID := c.Param("assetId")
	renditionType := c.Query("type")

	rendition, err := photoHandler.photoUsecase.GetRendition(c.Request.Context(), catalogID, assetID, renditionType)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while fetching rendition")
		status := statusForError(err)
		c.JSON(status, dto.Res{ResponseCode: "KO", ResponseMessage: err.Error()})
		return
	}

	c.Data(http.StatusOK, rendition.ContentType, rendition.Bytes)
}

// GetAlbums handles GET /api/lightroom/albums.
func (photoHandler *PhotoHandler) GetAlbums(c *gin.Context) {
	albums, err := photoHandler.photoUsecase.GetAlbums(c.Request.Context(), c.Query("catalog_id"))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while listing albums")
		c.JSON(statusForError(err), dto.Res{ResponseCode: "KO", ResponseMessage: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.Res{
		ResponseCode:    "00",
		ResponseMessage: "Success",
		Data:            albums,
	})
}

// Status handles GET /api/lightroom/status.
func (photoHandler *PhotoHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.Res{
		ResponseCode:    "00",
		ResponseMessage: "Success",
		Data:            photoHandler.photoUsecase.Status(),
	})
}

// Disconnect handles POST /api/lightroom/disconnect.
func (photoHandler *PhotoHandler) Disconnect(c *gin.Context) {
	if err := photoHandler.photoUsecase.Disconnect(c.Request.Context()); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while disconnecting account")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "00", ResponseMessage: "Disconnected"})
}

// statusForError maps a catalog client failure to an HTTP status.
func statusForError(err error) int {
	kind, ok := lightroom.ErrorKind(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case lightroom.KindConfiguration, lightroom.KindValidation:
		return http.StatusBadRequest
	case lightroom.KindAuthentication:
		return http.StatusUnauthorized
	case lightroom.KindUpstream:
		if e, isErr := err.(*lightroom.Error); isErr && e.StatusCode != 0 {
			return e.StatusCode
		}
		return http.StatusBadGateway
	case lightroom.KindTransport:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
