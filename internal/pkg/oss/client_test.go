package oss

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/config"
)

func TestExtensionFor(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":      ".jpg",
		"image/jpg":       ".jpg",
		"IMAGE/PNG":       ".png",
		"image/gif":       ".gif",
		"image/heic":      ".heic",
		"image/heif":      ".heif",
		"application/pdf": ".bin",
	}
	for contentType, want := range tests {
		assert.Equal(t, want, ExtensionFor(contentType), contentType)
	}
}

func TestProfilePictureKey(t *testing.T) {
	at := time.Unix(1700000000, 0)
	assert.Equal(t, "profile_pictures/members/12/1700000000.png", ProfilePictureKey("members", 12, "image/png", at))
}

func TestExtractObjectKey(t *testing.T) {
	c := &Client{cdnDomain: "cdn.example.com"}

	assert.Equal(t, "profile_pictures/gym_owners/1/1.jpg",
		c.ExtractObjectKey("https://cdn.example.com/profile_pictures/gym_owners/1/1.jpg"))
	assert.Equal(t, "profile_pictures/members/2/3.png",
		c.ExtractObjectKey("https://bucket.oss-cn-hangzhou.aliyuncs.com/profile_pictures/members/2/3.png"))
}

func TestNewClient_NotConfigured(t *testing.T) {
	client, err := NewClient(&config.OSSConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}
