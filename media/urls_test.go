package media_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrpstudio/media-services/media"
)

func TestBuildURL(t *testing.T) {
	assert.Equal(t,
		"https://cdn.example.com/media/albums/1/pic_full.webp",
		media.BuildURL("https://cdn.example.com/media/", "albums/1/pic_full.webp"))
	assert.Equal(t,
		"https://cdn.example.com/media/albums/1/pic_full.webp",
		media.BuildURL("https://cdn.example.com/media", "/albums/1/pic_full.webp"))
}

func TestKeyFromURL(t *testing.T) {
	key, err := media.KeyFromURL("https://cdn.example.com/media/albums/1/pic_full.webp", "/media/")
	require.Nil(t, err)
	assert.Equal(t, "albums/1/pic_full.webp", key)

	// Relative URLs work too; some older records store only the path.
	key, err = media.KeyFromURL("/media/uploads/avatar.webp", "media")
	require.Nil(t, err)
	assert.Equal(t, "uploads/avatar.webp", key)
}

func TestKeyFromURLRejectsBadInput(t *testing.T) {
	_, err := media.KeyFromURL("", "/media/")
	assert.NotNil(t, err)

	_, err = media.KeyFromURL("https://cdn.example.com/static/site.css", "/media/")
	assert.NotNil(t, err)

	_, err = media.KeyFromURL("https://cdn.example.com/media/../etc/passwd", "/media/")
	assert.NotNil(t, err)
}

func TestBuildAndKeyRoundTrip(t *testing.T) {
	url := media.BuildURL("https://cdn.example.com/media", "albums/99/x_thumb.webp")
	key, err := media.KeyFromURL(url, "/media/")
	require.Nil(t, err)
	assert.Equal(t, "albums/99/x_thumb.webp", key)
}
