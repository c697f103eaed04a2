package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursor(t *testing.T) {
	// Standard value with nanoseconds
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeCursor(createdAt, 981)
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.NotContains(t, token, "=", "Token should be safe in a query string")

	decodedAt, decodedID, err := DecodeCursor(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, createdAt, decodedAt, "Created at should match after decode")
	assert.Equal(t, int64(981), decodedID, "ID should match after decode")

	// Non-UTC input is normalised
	local := time.Date(2023, 5, 15, 21, 30, 45, 0, time.FixedZone("WIB", 7*3600))
	decodedAt, _, err = DecodeCursor(EncodeCursor(local, 1))
	assert.NoError(t, err)
	assert.True(t, local.Equal(decodedAt), "Instant should survive a zone change")
}

func TestDecodeCursorError(t *testing.T) {
	_, _, err := DecodeCursor("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	noSep := base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z"))
	_, _, err = DecodeCursor(noSep)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.RawURLEncoding.EncodeToString([]byte("notadate|12"))
	_, _, err = DecodeCursor(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")

	badID := base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|abc"))
	_, _, err = DecodeCursor(badID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "id parse")
}
