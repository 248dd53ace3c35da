package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrpstudio/media-services/models/service"
)

func TestDeletionStateJSON(t *testing.T) {
	state := &service.DeletionState{
		Key:         "albums/1/pic_full.webp",
		Attempts:    4,
		Disposition: service.DispositionExhausted,
		LastError:   "file is locked by another process",
		UpdatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	jsonData, err := state.ToJSON()
	require.Nil(t, err)
	assert.Contains(t, jsonData, `"key":"albums/1/pic_full.webp"`)
	assert.Contains(t, jsonData, `"disposition":"exhausted"`)

	restored, err := service.DeletionStateFromJSON(jsonData)
	require.Nil(t, err)
	assert.Equal(t, state, restored)
}

func TestDeletionStateFromBadJSON(t *testing.T) {
	_, err := service.DeletionStateFromJSON("this is not json")
	assert.NotNil(t, err)
}
