package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pixel = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func TestDecodeDataURI(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pixel)

	contentType, ext, data, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, "png", ext)
	assert.Equal(t, pixel, data)

	_, ext, _, err = DecodeDataURI("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(pixel))
	require.NoError(t, err)
	assert.Equal(t, "jpg", ext)
}

func TestDecodeDataURI_Invalid(t *testing.T) {
	cases := map[string]string{
		"NoPrefix":    "image/png;base64,AAAA",
		"NoPayload":   "data:image/png;base64",
		"NotBase64":   "data:image/png,AAAA",
		"NotAnImage":  "data:text/plain;base64,AAAA",
		"BadEncoding": "data:image/png;base64,@@@",
		"Empty":       "data:image/png;base64,",
	}
	for name, uri := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := DecodeDataURI(uri)
			assert.ErrorIs(t, err, ErrInvalidDataURI)
		})
	}
}

func TestNewImageKey(t *testing.T) {
	key := NewImageKey("png")
	assert.True(t, strings.HasPrefix(key, "recipes/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, NewImageKey("png"))
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Save(ctx, "recipes/cake.png", "image/png", pixel)
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/cake.png", url)

	stored, err := os.ReadFile(filepath.Join(dir, "recipes", "cake.png"))
	require.NoError(t, err)
	assert.Equal(t, pixel, stored)

	require.NoError(t, store.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(dir, "recipes", "cake.png"))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice or deleting a foreign URL is fine.
	assert.NoError(t, store.Delete(ctx, url))
	assert.NoError(t, store.Delete(ctx, "https://elsewhere.example.com/x.png"))
	assert.NoError(t, store.Delete(ctx, "/media/../etc/passwd"))
}

type mockObjectAPI struct {
	mock.Mock
}

func (m *mockObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(params)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(params)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestS3Store(t *testing.T) {
	api := new(mockObjectAPI)
	store := newS3Store(api, "foodgram", "https://cdn.example.com/")
	ctx := context.Background()

	api.On("PutObject", mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "foodgram" && *in.Key == "recipes/a.png" && *in.ContentType == "image/png"
	})).Return(nil).Once()

	url, err := store.Save(ctx, "recipes/a.png", "image/png", pixel)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/recipes/a.png", url)

	api.On("DeleteObject", mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "recipes/a.png"
	})).Return(nil).Once()

	require.NoError(t, store.Delete(ctx, url))
	require.NoError(t, store.Delete(ctx, "/media/recipes/a.png"))

	api.AssertExpectations(t)
}
