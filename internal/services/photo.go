package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/princeprakhar/restaurant-directory/internal/models"
	"github.com/princeprakhar/restaurant-directory/pkg/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ImageFile is an image waiting to be stored.
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// StoredImage is where an ImageStore put a file.
type StoredImage struct {
	Key string
	URL string
}

// ImageStore persists photo files outside the database.
type ImageStore interface {
	UploadImages(ctx context.Context, prefix string, files []ImageFile) ([]StoredImage, error)
	DeleteImages(ctx context.Context, keys []string) error
}

type PhotoService struct {
	db    *gorm.DB
	store ImageStore
}

// NewPhotoService accepts a nil store; uploads then fail with
// ErrStorageUnavailable while CreatePhoto keeps working.
func NewPhotoService(db *gorm.DB, store ImageStore) *PhotoService {
	return &PhotoService{db: db, store: store}
}

// CreatePhoto attaches an already stored image to target.
func (s *PhotoService) CreatePhoto(ctx context.Context, uploaderID *uint, target models.Target, image, key string) (*models.Photo, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, ValidationErrors{"image": "This field is required."}
	}

	photo := models.Photo{
		UploadedByID: uploaderID,
		TargetType:   string(target.Kind),
		TargetID:     target.ID,
		Image:        image,
		StorageKey:   key,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTarget(tx, target); err != nil {
			return err
		}
		if err := tx.Create(&photo).Error; err != nil {
			return fmt.Errorf("%w: failed to save photo: %v", ErrDatabaseQuery, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// UploadPhotos stores files and attaches them to target. Uploaded objects
// are removed again when the rows cannot be written.
func (s *PhotoService) UploadPhotos(ctx context.Context, uploaderID *uint, target models.Target, files []ImageFile) ([]models.Photo, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	if len(files) == 0 {
		return nil, ValidationErrors{"images": "At least one image is required."}
	}
	if err := ensureTarget(s.db.WithContext(ctx), target); err != nil {
		return nil, err
	}

	stored, err := s.store.UploadImages(ctx, "photos/"+string(target.Kind), files)
	if err != nil {
		return nil, err
	}

	photos := make([]models.Photo, 0, len(stored))
	for _, image := range stored {
		photos = append(photos, models.Photo{
			UploadedByID: uploaderID,
			TargetType:   string(target.Kind),
			TargetID:     target.ID,
			Image:        image.URL,
			StorageKey:   image.Key,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTarget(tx, target); err != nil {
			return err
		}
		if err := tx.Create(&photos).Error; err != nil {
			return fmt.Errorf("%w: failed to save photos: %v", ErrDatabaseQuery, err)
		}
		return nil
	})
	if err != nil {
		s.discard(stored)
		return nil, err
	}
	return photos, nil
}

func (s *PhotoService) discard(stored []StoredImage) {
	keys := make([]string, 0, len(stored))
	for _, image := range stored {
		keys = append(keys, image.Key)
	}
	// The request context may already be cancelled here.
	if err := s.store.DeleteImages(context.Background(), keys); err != nil {
		logger.WithFields(logrus.Fields{
			"keys":  keys,
			"error": err,
		}).Error("failed to clean up uploaded photos")
	}
}
