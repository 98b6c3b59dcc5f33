package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	fibers3 "github.com/gofiber/storage/s3/v2"
	"go.uber.org/zap"
)

const (
	// KeyPrefix is the logical folder every listing image lives under.
	KeyPrefix = "lost-found-items"

	MaxImageSize         = 5 * 1024 * 1024
	DefaultPresignExpiry = time.Hour
	MaxPresignExpiry     = 7 * 24 * time.Hour
)

var (
	ErrNotImage      = errors.New("file must be an image")
	ErrImageTooLarge = errors.New("file size must be less than 5MB")
)

// ObjectAPI is the subset of the S3 client used for uploads and deletes.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

type S3 struct {
	api       ObjectAPI
	presigner Presigner
	bucket    string
	region    string
	endpoint  string
	now       func() time.Time
}

type PresignedUpload struct {
	URL       string `json:"url"`
	Method    string `json:"method"`
	Key       string `json:"key"`
	PublicURL string `json:"publicUrl"`
	ExpiresIn int    `json:"expiresIn"`
}

// NewS3Bucket builds the client with a single attempt per call, so storage
// failures surface to the caller immediately.
func NewS3Bucket(cfg Config) *S3 {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
	}

	storage := fibers3.New(fibers3.Config{
		Endpoint: endpoint,
		Bucket:   cfg.Bucket,
		Region:   cfg.Region,
		Credentials: fibers3.Credentials{
			AccessKey:       cfg.AccessKey,
			SecretAccessKey: cfg.SecretKey,
		},
		MaxAttempts:    1,
		RequestTimeout: time.Second * 10,
		Reset:          false,
	})

	client := storage.Conn()
	return NewS3WithClient(cfg, client, s3.NewPresignClient(client))
}

// NewS3WithClient builds the storage client on top of an existing S3 API.
func NewS3WithClient(cfg Config, api ObjectAPI, presigner Presigner) *S3 {
	return &S3{
		api:       api,
		presigner: presigner,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		now:       time.Now,
	}
}

// Upload stores an image with public-read visibility and returns its public URL.
// Type and size are checked before any request is made.
func (s *S3) Upload(ctx context.Context, data []byte, fileName, contentType string) (string, error) {
	if err := checkContentType(contentType); err != nil {
		return "", err
	}
	if len(data) > MaxImageSize {
		return "", ErrImageTooLarge
	}

	key := s.ObjectKey(fileName)

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        awssdk.String(s.bucket),
		Key:           awssdk.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: awssdk.Int64(int64(len(data))),
		ContentType:   awssdk.String(contentType),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		zap.L().Error("Failed to upload image", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return s.PublicURL(key), nil
}

// Delete removes the object behind a public URL. It reports false on any
// failure, including URLs it cannot derive a key from.
func (s *S3) Delete(ctx context.Context, imageURL string) bool {
	key, ok := KeyFromURL(imageURL)
	if !ok {
		zap.L().Warn("Cannot derive storage key from URL", zap.String("url", imageURL))
		return false
	}

	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: awssdk.String(s.bucket),
		Key:    awssdk.String(key),
	})
	if err != nil {
		zap.L().Error("Failed to delete image", zap.String("key", key), zap.Error(err))
		return false
	}

	return true
}

// PresignUpload issues a time-limited URL a client can PUT the image to directly.
func (s *S3) PresignUpload(ctx context.Context, fileName, contentType string, expiry time.Duration) (PresignedUpload, error) {
	if err := checkContentType(contentType); err != nil {
		return PresignedUpload{}, err
	}
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}
	expiry = min(expiry, MaxPresignExpiry)

	key := s.ObjectKey(fileName)

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(s.bucket),
		Key:         awssdk.String(key),
		ContentType: awssdk.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return PresignedUpload{}, fmt.Errorf("presign %s: %w", key, err)
	}

	return PresignedUpload{
		URL:       req.URL,
		Method:    req.Method,
		Key:       key,
		PublicURL: s.PublicURL(key),
		ExpiresIn: int(expiry.Seconds()),
	}, nil
}

// ObjectKey prefixes the file's base name with the current Unix time in
// milliseconds under KeyPrefix.
func (s *S3) ObjectKey(fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "image"
	}
	return fmt.Sprintf("%s/%d-%s", KeyPrefix, s.now().UnixMilli(), name)
}

func (s *S3) PublicURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// KeyFromURL takes the last two path segments of an image URL, which is
// the folder and the file name.
func KeyFromURL(imageURL string) (string, bool) {
	u, err := url.Parse(imageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 {
		return "", false
	}

	folder, file := segments[len(segments)-2], segments[len(segments)-1]
	if folder == "" || file == "" {
		return "", false
	}
	return folder + "/" + file, true
}

func checkContentType(contentType string) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return ErrNotImage
	}
	return nil
}
