package records_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrpstudio/media-services/records"
	"github.com/qrpstudio/media-services/util/testutil"
)

func TestPhotoCRUD(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()

	photo := &records.Photo{
		AlbumID:      42,
		URL:          "https://cdn.example.com/media/albums/1/a_full.webp",
		MediumURL:    "https://cdn.example.com/media/albums/1/a_medium.webp",
		ThumbnailURL: "https://cdn.example.com/media/albums/1/a_thumb.webp",
	}
	err := db.WithTransaction(ctx, func(tx *records.Tx) error {
		return records.InsertPhoto(ctx, tx, photo)
	})
	require.Nil(t, err)
	require.NotZero(t, photo.ID)

	loaded, err := db.PhotoByID(ctx, photo.ID)
	require.Nil(t, err)
	assert.Equal(t, int64(42), loaded.AlbumID)
	assert.Equal(t, photo.URL, loaded.URL)
	assert.Equal(t, photo.MediumURL, loaded.MediumURL)
	assert.Equal(t, photo.ThumbnailURL, loaded.ThumbnailURL)

	photo.URL = "https://cdn.example.com/media/albums/1/b_full.webp"
	photo.MediumURL = "https://cdn.example.com/media/albums/1/b_medium.webp"
	photo.ThumbnailURL = "https://cdn.example.com/media/albums/1/b_thumb.webp"
	err = db.WithTransaction(ctx, func(tx *records.Tx) error {
		return records.UpdatePhotoURLs(ctx, tx, photo)
	})
	require.Nil(t, err)

	loaded, err = db.PhotoByID(ctx, photo.ID)
	require.Nil(t, err)
	assert.Equal(t, photo.URL, loaded.URL)

	err = db.WithTransaction(ctx, func(tx *records.Tx) error {
		return records.DeletePhoto(ctx, tx, photo.ID)
	})
	require.Nil(t, err)

	_, err = db.PhotoByID(ctx, photo.ID)
	assert.NotNil(t, err)
}

func TestPhotosMissingThumbnails(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()

	var legacy, modern *records.Photo
	err := db.WithTransaction(ctx, func(tx *records.Tx) error {
		legacy = &records.Photo{URL: "https://cdn.example.com/media/old/1.jpg"}
		if insertErr := records.InsertPhoto(ctx, tx, legacy); insertErr != nil {
			return insertErr
		}
		modern = &records.Photo{
			URL:          "https://cdn.example.com/media/albums/1/m_full.webp",
			ThumbnailURL: "https://cdn.example.com/media/albums/1/m_thumb.webp",
		}
		return records.InsertPhoto(ctx, tx, modern)
	})
	require.Nil(t, err)

	missing, err := db.PhotosMissingThumbnails(ctx)
	require.Nil(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, legacy.ID, missing[0].ID)
}

func TestTestimonialCRUD(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()

	testimonial := &records.Testimonial{Name: "Ada", Avatar: "uploads/ada.webp"}
	err := db.WithTransaction(ctx, func(tx *records.Tx) error {
		return records.InsertTestimonial(ctx, tx, testimonial)
	})
	require.Nil(t, err)

	loaded, err := db.TestimonialByID(ctx, testimonial.ID)
	require.Nil(t, err)
	assert.Equal(t, "Ada", loaded.Name)

	testimonial.Avatar = "uploads/ada-new.webp"
	err = db.WithTransaction(ctx, func(tx *records.Tx) error {
		return records.UpdateTestimonial(ctx, tx, testimonial)
	})
	require.Nil(t, err)

	loaded, err = db.TestimonialByID(ctx, testimonial.ID)
	require.Nil(t, err)
	assert.Equal(t, "uploads/ada-new.webp", loaded.Avatar)

	err = db.WithTransaction(ctx, func(tx *records.Tx) error {
		return records.DeleteTestimonial(ctx, tx, testimonial.ID)
	})
	require.Nil(t, err)
	_, err = db.TestimonialByID(ctx, testimonial.ID)
	assert.NotNil(t, err)
}
