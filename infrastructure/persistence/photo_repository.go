package persistence

import (
	"context"
	"encoding/json"
	"os"

	"photo-store/domain/model"
	"photo-store/domain/repository"
	"photo-store/infrastructure/logger"
)

// PhotoRepository serves the storefront's local catalog from a JSON file. It
// backs the /photos listing whenever the Lightroom account is not connected
// or returns nothing.
type PhotoRepository struct {
	path string
}

func NewPhotoRepository(path string) repository.IPhotoStore {
	return &PhotoRepository{path: path}
}

func (r *PhotoRepository) ListPhotos(ctx context.Context) ([]model.Photo, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.GetLogger().WithField("path", r.path).Info("Local photo catalog not found - serving empty catalog")
			return []model.Photo{}, nil
		}
		logger.GetLogger().WithField("error", err).Error("Error while reading local photo catalog")
		return nil, err
	}

	var photos []model.Photo
	if err := json.Unmarshal(data, &photos); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while parsing local photo catalog")
		return nil, err
	}
	if photos == nil {
		photos = []model.Photo{}
	}
	return photos, nil
}
