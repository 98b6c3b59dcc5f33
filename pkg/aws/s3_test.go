package aws

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	puts    []*s3.PutObjectInput
	bodies  [][]byte
	deletes []*s3.DeleteObjectInput
	err     error
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	body, _ := io.ReadAll(in.Body)
	f.bodies = append(f.bodies, body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, in)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresigner struct {
	in      *s3.PutObjectInput
	expires time.Duration
}

func (f *fakePresigner) PresignPutObject(_ context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	f.in = in
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{
		URL:    "https://signed.example/" + *in.Key + "?X-Amz-Signature=abc",
		Method: "PUT",
	}, nil
}

func newTestS3(cfg Config) (*S3, *fakeObjectAPI, *fakePresigner) {
	api := &fakeObjectAPI{}
	presigner := &fakePresigner{}
	s := NewS3WithClient(cfg, api, presigner)
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return s, api, presigner
}

var awsConfig = Config{Bucket: "lost-and-found", Region: "eu-west-1"}

func TestUpload(t *testing.T) {
	s, api, _ := newTestS3(awsConfig)

	url, err := s.Upload(context.Background(), []byte("png-bytes"), "wallet.png", "image/png")
	require.NoError(t, err)

	assert.Equal(t, "https://lost-and-found.s3.eu-west-1.amazonaws.com/lost-found-items/1700000000123-wallet.png", url)
	require.Len(t, api.puts, 1)
	put := api.puts[0]
	assert.Equal(t, "lost-and-found", *put.Bucket)
	assert.Equal(t, "lost-found-items/1700000000123-wallet.png", *put.Key)
	assert.Equal(t, "image/png", *put.ContentType)
	assert.Equal(t, types.ObjectCannedACLPublicRead, put.ACL)
	assert.Equal(t, []byte("png-bytes"), api.bodies[0])
}

func TestUpload_RejectsBeforeNetwork(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		contentType string
		wantErr     error
	}{
		{name: "non image type", size: 10, contentType: "application/pdf", wantErr: ErrNotImage},
		{name: "empty type", size: 10, contentType: "", wantErr: ErrNotImage},
		{name: "six megabytes", size: 6 * 1024 * 1024, contentType: "image/jpeg", wantErr: ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, api, _ := newTestS3(awsConfig)

			url, err := s.Upload(context.Background(), make([]byte, tt.size), "file", tt.contentType)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, url)
			assert.Empty(t, api.puts)
		})
	}
}

func TestUpload_ExactlyFiveMegabytesIsAccepted(t *testing.T) {
	s, api, _ := newTestS3(awsConfig)

	_, err := s.Upload(context.Background(), make([]byte, MaxImageSize), "big.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Len(t, api.puts, 1)
}

func TestUpload_StorageFailure(t *testing.T) {
	s, api, _ := newTestS3(awsConfig)
	api.err = errors.New("access denied")

	url, err := s.Upload(context.Background(), []byte("x"), "a.png", "image/png")
	require.Error(t, err)
	assert.Empty(t, url)
	assert.Contains(t, err.Error(), "access denied")
}

func TestPublicURL_CustomEndpoint(t *testing.T) {
	s, _, _ := newTestS3(Config{Endpoint: "http://localhost:9000/", Bucket: "items", Region: "us-east-1"})

	assert.Equal(t, "http://localhost:9000/items/lost-found-items/k.png", s.PublicURL("lost-found-items/k.png"))
}

func TestObjectKey_UsesBaseName(t *testing.T) {
	s, _, _ := newTestS3(awsConfig)

	assert.Equal(t, "lost-found-items/1700000000123-photo.jpg", s.ObjectKey("../../etc/photo.jpg"))
	assert.Equal(t, "lost-found-items/1700000000123-photo.jpg", s.ObjectKey(`C:\Users\me\photo.jpg`))
	assert.Equal(t, "lost-found-items/1700000000123-image", s.ObjectKey(""))
}

func TestDelete(t *testing.T) {
	s, api, _ := newTestS3(awsConfig)

	ok := s.Delete(context.Background(), "https://lost-and-found.s3.eu-west-1.amazonaws.com/lost-found-items/1-wallet.png")
	assert.True(t, ok)
	require.Len(t, api.deletes, 1)
	assert.Equal(t, "lost-found-items/1-wallet.png", *api.deletes[0].Key)
	assert.Equal(t, "lost-and-found", *api.deletes[0].Bucket)
}

func TestDelete_Failures(t *testing.T) {
	s, api, _ := newTestS3(awsConfig)

	assert.False(t, s.Delete(context.Background(), "not a url"))
	assert.False(t, s.Delete(context.Background(), "https://host/only-one"))
	assert.Empty(t, api.deletes)

	api.err = errors.New("boom")
	assert.False(t, s.Delete(context.Background(), "https://host/lost-found-items/a.png"))
}

func TestPresignUpload(t *testing.T) {
	s, api, presigner := newTestS3(awsConfig)

	got, err := s.PresignUpload(context.Background(), "wallet.png", "image/png", 0)
	require.NoError(t, err)

	assert.Equal(t, "lost-found-items/1700000000123-wallet.png", got.Key)
	assert.Equal(t, "PUT", got.Method)
	assert.True(t, strings.HasPrefix(got.URL, "https://signed.example/lost-found-items/"))
	assert.Equal(t, 3600, got.ExpiresIn)
	assert.Equal(t, time.Hour, presigner.expires)
	assert.Equal(t, types.ObjectCannedACLPublicRead, presigner.in.ACL)
	assert.Equal(t, s.PublicURL(got.Key), got.PublicURL)
	assert.Empty(t, api.puts)

	_, err = s.PresignUpload(context.Background(), "doc.pdf", "application/pdf", time.Minute)
	assert.ErrorIs(t, err, ErrNotImage)

	got, err = s.PresignUpload(context.Background(), "a.png", "image/png", 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int(MaxPresignExpiry.Seconds()), got.ExpiresIn)
}
