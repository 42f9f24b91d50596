package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKeyFromURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		key     string
		wantErr bool
	}{
		{
			name: "public object URL",
			url:  "https://order-photos.s3.us-east-1.amazonaws.com/order-1-1735686000.png",
			key:  "order-1-1735686000.png",
		},
		{
			name: "key with path segments",
			url:  "https://order-photos.s3.us-east-1.amazonaws.com/photos/order-1-1735686000.jpg",
			key:  "photos/order-1-1735686000.jpg",
		},
		{
			name:    "no object key in path",
			url:     "https://order-photos.s3.us-east-1.amazonaws.com/",
			wantErr: true,
		},
		{
			name:    "unparseable URL",
			url:     "://not-a-url",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := objectKeyFromURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestPhotoServiceDeleteEmptyURL(t *testing.T) {
	// Deleting an absent photo reference is a no-op, not an error.
	service := &PhotoService{}
	assert.NoError(t, service.Delete(""))
}

func TestMockPhotoStoreDelete(t *testing.T) {
	photos := NewMockPhotoStore()

	url, err := photos.Upload(createTestFileHeader(t, "door.png", []byte("fake png content")), "order-1")
	require.NoError(t, err)
	require.Equal(t, 1, photos.Count())

	require.NoError(t, photos.Delete(url))
	assert.Equal(t, 0, photos.Count())
	assert.False(t, photos.Uploaded(url))

	assert.Error(t, photos.Delete(url), "deleting an unknown photo fails")
}
