package supabase_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jewelry-studio-backend/internal/supabase"
)

func TestObjectPath(t *testing.T) {
	id := uuid.MustParse("6f1c2a9e-0d4b-4c6a-9a53-2f7f3d2b9e11")
	now := time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "images/2026/03/"+id.String()+".png", supabase.ObjectPath("image/png", id, now))
	assert.Equal(t, "images/2026/03/"+id.String()+".jpg", supabase.ObjectPath("image/jpeg", id, now))
	assert.Equal(t, "videos/2026/03/"+id.String()+".mp4", supabase.ObjectPath("video/mp4", id, now))
	assert.Equal(t, "files/2026/03/"+id.String()+".bin", supabase.ObjectPath("application/octet-stream", id, now))
}

func TestStorageClient_URL(t *testing.T) {
	client, err := supabase.NewStorageClient("https://project.supabase.co/", "service-key", "jewelry-assets")
	require.NoError(t, err)

	assert.Equal(t,
		"https://project.supabase.co/storage/v1/object/public/jewelry-assets/images/2026/03/a.png",
		client.URL("images/2026/03/a.png"),
	)
	assert.Empty(t, client.URL(""))
}

func TestNewStorageClient_RequiresBucket(t *testing.T) {
	_, err := supabase.NewStorageClient("https://project.supabase.co", "service-key", "")
	assert.Error(t, err)
}
