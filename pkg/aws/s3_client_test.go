package aws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unavailableEndpoint(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	return srv, &attempts
}

func testBucket(endpoint string) *S3 {
	return NewS3Bucket(Config{
		Endpoint:  endpoint,
		Bucket:    "lost-and-found",
		Region:    "us-east-1",
		AccessKey: "test-access-key",
		SecretKey: "test-secret-key",
	})
}

func TestNewS3Bucket_UploadFailsOnFirstAttempt(t *testing.T) {
	srv, attempts := unavailableEndpoint(t)

	_, err := testBucket(srv.URL).Upload(context.Background(), []byte("png"), "wallet.png", "image/png")

	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestNewS3Bucket_DeleteFailsOnFirstAttempt(t *testing.T) {
	srv, attempts := unavailableEndpoint(t)
	storage := testBucket(srv.URL)

	ok := storage.Delete(context.Background(), storage.PublicURL("lost-found-items/1-wallet.png"))

	assert.False(t, ok)
	assert.Equal(t, int32(1), attempts.Load())
}
