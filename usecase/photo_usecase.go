package usecase

import (
	"context"

	"photo-store/domain/dto"
	"photo-store/domain/model"
	"photo-store/domain/repository"
	"photo-store/infrastructure/logger"
	"photo-store/infrastructure/pubsub"
	"photo-store/infrastructure/servicebus"
)

type IPhotoUsecase interface {
	// GetPhotos returns the storefront catalog. The connected Lightroom
	// account is preferred; the local store backs it when the account is
	// not connected or returns nothing.
	GetPhotos(ctx context.Context, req dto.PhotoListRequest) []model.Photo
	GetAlbums(ctx context.Context, catalogID string) ([]model.Album, error)
	GetRendition(ctx context.Context, catalogID, assetID, renditionType string) (*dto.Rendition, error)
	Status() map[string]interface{}
	Disconnect(ctx context.Context) error
}

type photoUsecase struct {
	lightroom  repository.ILightroom
	photoStore repository.IPhotoStore
	publisher  pubsub.IEventPublisher
	notifier   servicebus.INotifier
}

func NewPhotoUsecase(
	lightroom repository.ILightroom,
	photoStore repository.IPhotoStore,
	publisher pubsub.IEventPublisher,
	notifier servicebus.INotifier,
) IPhotoUsecase {
	return &photoUsecase{
		lightroom:  lightroom,
		photoStore: photoStore,
		publisher:  publisher,
		notifier:   notifier,
	}
}

func (u *photoUsecase) GetPhotos(ctx context.Context, req dto.PhotoListRequest) []model.Photo {
	if u.lightroom != nil && u.lightroom.IsConnected() {
		photos := u.lightroom.ListPhotos(ctx, req)
		if len(photos) > 0 {
			u.publish(ctx, "catalog.served", map[string]interface{}{
				"source": "lightroom",
				"count":  len(photos),
			})
			return photos
		}
		logger.GetLogger().Info("Connected catalog returned no photos - serving local catalog")
	}

	if u.photoStore == nil {
		return []model.Photo{}
	}
	photos, err := u.photoStore.ListPhotos(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while listing local photos")
		return []model.Photo{}
	}
	u.publish(ctx, "catalog.served", map[string]interface{}{
		"source": "local",
		"count":  len(photos),
	})
	return photos
}

func (u *photoUsecase) GetAlbums(ctx context.Context, catalogID string) ([]model.Album, error) {
	return u.lightroom.ListAlbums(ctx, catalogID)
}

func (u *photoUsecase) GetRendition(ctx context.Context, catalogID, assetID, renditionType string) (*dto.Rendition, error) {
	rendition, err := u.lightroom.GetRendition(ctx, catalogID, assetID, renditionType)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, "rendition.served", map[string]interface{}{
		"catalog_id": catalogID,
		"asset_id":   assetID,
	})
	return rendition, nil
}

func (u *photoUsecase) Status() map[string]interface{} {
	connected := u.lightroom != nil && u.lightroom.IsConnected()
	return map[string]interface{}{
		"connected": connected,
	}
}

func (u *photoUsecase) Disconnect(ctx context.Context) error {
	if err := u.lightroom.Disconnect(); err != nil {
		return err
	}
	if u.notifier != nil {
		if err := u.notifier.NotifyConnectionChange(ctx, false); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Connection change notification failed")
		}
	}
	u.publish(ctx, "account.disconnected", nil)
	return nil
}

func (u *photoUsecase) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	if u.publisher == nil {
		return
	}
	if _, err := u.publisher.Publish(ctx, eventType, payload); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Event publish failed")
	}
}
