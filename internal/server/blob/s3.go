// Package blob wraps the S3-compatible object store used for device-produced
// assets (photos, clips, thumbnails) and published preview frames. Callers
// only ever see presigned URLs; the server never proxies blob bytes.
package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Seams for tests: wrap the SDK entry points so unit tests can substitute
// failing or recording implementations without a live endpoint.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

type Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
	// URLExpiry bounds the life of presigned URLs.
	URLExpiry time.Duration
}

type Store struct {
	cfg Config
}

func NewStore(cfg Config) *Store {
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = 15 * time.Minute
	}
	return &Store{cfg: cfg}
}

func (s *Store) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey, s.cfg.SecretKey, "")))
	if err != nil {
		return nil, err
	}
	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// PresignPut returns a short-lived URL the device can PUT an asset to.
func (s *Store) PresignPut(ctx context.Context, key string) (string, error) {
	client, err := s.client(ctx)
	if err != nil {
		return "", err
	}
	req, err := presignPutObject(newS3PresignClient(client), ctx, &s3.PutObjectInput{
		Bucket: &s.cfg.Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.cfg.URLExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PresignGet returns a short-lived download URL for the given key.
func (s *Store) PresignGet(ctx context.Context, key string) (string, error) {
	client, err := s.client(ctx)
	if err != nil {
		return "", err
	}
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &s.cfg.Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.cfg.URLExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// Delete removes the given keys. Best-effort by contract: the caller treats
// failures as transient and proceeds.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	client, err := s.client(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		k := key
		if _, err := deleteObject(client, ctx, &s3.DeleteObjectInput{
			Bucket: &s.cfg.Bucket,
			Key:    &k,
		}); err != nil {
			return err
		}
	}
	return nil
}

// AssetKey builds a date-partitioned storage key for a freshly produced
// device asset.
func AssetKey(deviceID, ext string) string {
	d := time.Now()
	return fmt.Sprintf("media/%s/%d/%d/%d/%s%s", deviceID, d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

// PreviewKey is the conventional, predictable key the device overwrites with
// its latest preview frame and the client polls during a preview session.
func PreviewKey(deviceID string) string {
	return "preview/" + deviceID + "/frame.jpg"
}
