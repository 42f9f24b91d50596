package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appConfig "github.com/oakhaven-doors/door-orders/config"
	"github.com/oakhaven-doors/door-orders/utils"
)

// PhotoStore is the blob-store contract for order photos: upload returns a
// publicly resolvable URL, delete accepts that URL back.
type PhotoStore interface {
	Upload(fileHeader *multipart.FileHeader, orderID string) (string, error)
	Delete(photoURL string) error
}

// PhotoService stores order photos in an S3 bucket.
type PhotoService struct {
	client *s3.Client
	bucket string
	region string
}

// NewPhotoService builds an S3-backed photo store from the application
// configuration. The caller keeps the instance and passes it down
// explicitly.
func NewPhotoService(cfg *appConfig.Config) (*PhotoService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &PhotoService{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSS3Bucket,
		region: cfg.AWSRegion,
	}, nil
}

// Upload stores the photo under {orderId}-{timestamp}{ext} and returns the
// public object URL.
func (s *PhotoService) Upload(fileHeader *multipart.FileHeader, orderID string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: failed to close file: %v", closeErr)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := utils.PhotoObjectKey(orderID, fileHeader.Filename, time.Now())

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentTypeFor(fileHeader.Filename)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// Delete removes the photo behind a previously returned URL. The
// bucket-relative key is parsed back out of the URL path.
func (s *PhotoService) Delete(photoURL string) error {
	if photoURL == "" {
		return nil
	}

	key, err := objectKeyFromURL(photoURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo from S3: %w", err)
	}
	return nil
}

// objectKeyFromURL extracts the storage-relative key from a public object
// URL.
func objectKeyFromURL(photoURL string) (string, error) {
	parsed, err := url.Parse(photoURL)
	if err != nil {
		return "", fmt.Errorf("invalid photo URL %q: %w", photoURL, err)
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return "", fmt.Errorf("photo URL %q has no object key", photoURL)
	}
	return key, nil
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}
