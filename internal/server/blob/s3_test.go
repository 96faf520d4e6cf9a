package blob

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubAWSConfig(t *testing.T) {
	t.Helper()
	orig := loadDefaultAWSConfig
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "us-east-1"}, nil
	}
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
}

func newTestStore() *Store {
	return NewStore(Config{
		AccessKey:    "ak",
		SecretKey:    "sk",
		Bucket:       "evcam",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000",
		URLExpiry:    time.Minute,
	})
}

func TestPresignPut_ReturnsURL(t *testing.T) {
	stubAWSConfig(t)

	var gotKey string
	orig := presignPutObject
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotKey = *in.Key
		return &v4.PresignedHTTPRequest{URL: "http://127.0.0.1:9000/evcam/" + *in.Key + "?sig=x"}, nil
	}
	t.Cleanup(func() { presignPutObject = orig })

	url, err := newTestStore().PresignPut(context.Background(), "media/dev1/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "media/dev1/a.jpg", gotKey)
	assert.Contains(t, url, "media/dev1/a.jpg")
}

func TestPresignGet_PropagatesError(t *testing.T) {
	stubAWSConfig(t)

	orig := presignGetObject
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("endpoint down")
	}
	t.Cleanup(func() { presignGetObject = orig })

	_, err := newTestStore().PresignGet(context.Background(), "media/dev1/a.jpg")
	assert.ErrorContains(t, err, "endpoint down")
}

func TestDelete_RemovesEveryKey(t *testing.T) {
	stubAWSConfig(t)

	var deleted []string
	orig := deleteObject
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		deleted = append(deleted, *in.Key)
		return &s3.DeleteObjectOutput{}, nil
	}
	t.Cleanup(func() { deleteObject = orig })

	err := newTestStore().Delete(context.Background(), "media/a.jpg", "media/a.thumb.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"media/a.jpg", "media/a.thumb.jpg"}, deleted)
}

func TestAssetKey_DatePartitioned(t *testing.T) {
	key := AssetKey("dev1", ".jpg")
	assert.True(t, strings.HasPrefix(key, "media/dev1/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
}

func TestPreviewKey_Stable(t *testing.T) {
	assert.Equal(t, "preview/dev1/frame.jpg", PreviewKey("dev1"))
}
