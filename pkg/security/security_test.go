package security

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	data := pngBytes(t)

	mime, err := ValidateImage("avatar.png", data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = ValidateImage("avatar.jpg", data)
	assert.ErrorIs(t, err, ErrImageSpoofed)

	_, err = ValidateImage("avatar.pdf", data)
	assert.ErrorIs(t, err, ErrImageExtension)

	_, err = ValidateImage("avatar.png", nil)
	assert.ErrorIs(t, err, ErrImageEmpty)

	_, err = ValidateImage("avatar.png", make([]byte, MaxImageSize+1))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestLoginTracker_BlocksAfterMaxAttempts(t *testing.T) {
	lt := NewLoginTracker(LoginTrackerConfig{MaxAttempts: 3, AttemptWindow: time.Minute, BlockDuration: time.Minute}, nil)
	ctx := context.Background()

	for i := 1; i < 3; i++ {
		blocked, count, err := lt.RecordFailedAttempt(ctx, "ana@example.com", "")
		require.NoError(t, err)
		assert.False(t, blocked)
		assert.Equal(t, i, count)
	}

	remaining, err := lt.RemainingAttempts(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	blocked, _, err := lt.RecordFailedAttempt(ctx, "ana@example.com", "")
	require.NoError(t, err)
	assert.True(t, blocked)

	isBlocked, err := lt.IsBlocked(ctx, "ana@example.com", "")
	require.NoError(t, err)
	assert.True(t, isBlocked)

	other, err := lt.IsBlocked(ctx, "bob@example.com", "")
	require.NoError(t, err)
	assert.False(t, other)
}

func TestLoginTracker_ClearAttempts(t *testing.T) {
	lt := NewLoginTracker(DefaultLoginTrackerConfig(), nil)
	ctx := context.Background()

	_, _, _ = lt.RecordFailedAttempt(ctx, "ana@example.com", "10.0.0.1")
	require.NoError(t, lt.ClearAttempts(ctx, "ana@example.com", "10.0.0.1"))

	remaining, err := lt.RemainingAttempts(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
}

func TestUploadLimiter_InMemory(t *testing.T) {
	ul := NewUploadLimiter(nil, 2, 10)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, _, err := ul.AllowUpload(ctx, "10.0.0.1", "user-1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, retry, err := ul.AllowUpload(ctx, "10.0.0.1", "user-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 60, retry)
}
