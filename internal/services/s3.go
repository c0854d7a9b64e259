package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/princeprakhar/restaurant-directory/pkg/logger"
	"github.com/sirupsen/logrus"
)

const maxImageSize = 10 * 1024 * 1024

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// S3Service stores photo files in a bucket. It implements ImageStore.
type S3Service struct {
	client     *s3.S3
	bucketName string
	region     string
}

func NewS3Service(region, bucketName, accessKey, secretKey string) (*S3Service, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if accessKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %v", err)
	}

	return &S3Service{
		client:     s3.New(sess),
		bucketName: bucketName,
		region:     region,
	}, nil
}

// UploadImages puts every file under prefix/yyyy/mm/dd. If one upload
// fails the files already stored are deleted.
func (s *S3Service) UploadImages(ctx context.Context, prefix string, files []ImageFile) ([]StoredImage, error) {
	var invalid []string
	for i, file := range files {
		if err := validateImage(file); err != nil {
			invalid = append(invalid, fmt.Sprintf("file %d (%s): %v", i+1, file.Name, err))
		}
	}
	if len(invalid) > 0 {
		return nil, ValidationErrors{"images": strings.Join(invalid, "; ")}
	}

	stored := make([]StoredImage, 0, len(files))
	for _, file := range files {
		image, err := s.upload(ctx, prefix, file)
		if err != nil {
			keys := make([]string, 0, len(stored))
			for _, done := range stored {
				keys = append(keys, done.Key)
			}
			if cleanupErr := s.DeleteImages(context.Background(), keys); cleanupErr != nil {
				logger.WithFields(logrus.Fields{
					"keys":  keys,
					"error": cleanupErr,
				}).Error("failed to clean up uploaded images")
			}
			return nil, err
		}
		stored = append(stored, image)
	}
	return stored, nil
}

func (s *S3Service) upload(ctx context.Context, prefix string, file ImageFile) (StoredImage, error) {
	key := imageKey(prefix, file.Name, time.Now())

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucketName),
		Key:          aws.String(key),
		Body:         bytes.NewReader(file.Data),
		ContentType:  aws.String(imageContentType(file)),
		CacheControl: aws.String("max-age=31536000"),
	})
	if err != nil {
		return StoredImage{}, fmt.Errorf("%w: failed to upload to S3: %v", ErrStorageUnavailable, err)
	}

	return StoredImage{
		Key: key,
		URL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, key),
	}, nil
}

func (s *S3Service) DeleteImages(ctx context.Context, keys []string) error {
	var objects []*s3.ObjectIdentifier
	for _, key := range keys {
		if key != "" {
			objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
		}
	}
	if len(objects) == 0 {
		return nil
	}

	_, err := s.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucketName),
		Delete: &s3.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	return err
}

func imageKey(prefix, name string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(name))
	return fmt.Sprintf("%s/%s/%s%s", strings.Trim(prefix, "/"), now.UTC().Format("2006/01/02"), uuid.New().String(), ext)
}

func validateImage(file ImageFile) error {
	if len(file.Data) == 0 {
		return fmt.Errorf("file is empty")
	}
	if int64(len(file.Data)) > maxImageSize {
		return fmt.Errorf("file size too large: %d bytes (max: %d bytes)", len(file.Data), maxImageSize)
	}
	if contentType := imageContentType(file); !validImageTypes[contentType] {
		return fmt.Errorf("invalid file type: %s", contentType)
	}
	return nil
}

// imageContentType prefers the declared type and falls back to the
// extension.
func imageContentType(file ImageFile) string {
	if file.ContentType != "" {
		return strings.ToLower(file.ContentType)
	}
	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
