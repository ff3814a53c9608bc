package pagination

import (
	"encoding/base64"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "b7c1f6de-0000-4000-8000-000000000001")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(decodedAt), "Created at time should match after decode")
	assert.Equal(t, "b7c1f6de-0000-4000-8000-000000000001", decodedID)

	// Non-UTC input is normalized
	paris := time.FixedZone("CET", 3600)
	local := time.Date(2026, 5, 15, 15, 30, 45, 0, paris)
	decodedAt, _, err = DecodeToken(EncodeToken(local, "x"))
	require.NoError(t, err)
	assert.True(t, local.Equal(decodedAt))
}

func TestTokenSurvivesQueryString(t *testing.T) {
	createdAt := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

	stdWouldBreak := false
	for _, id := range []string{"~~~", "~~~~", "~~~~~", "??>>??", "\xff\xfe\xfd"} {
		token := EncodeToken(createdAt, id)
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")
		assert.NotContains(t, token, "=")

		std := base64.StdEncoding.EncodeToString([]byte(createdAt.Format(timeFormat) + "|" + id))
		stdWouldBreak = stdWouldBreak || strings.ContainsAny(std, "+/")

		query, err := url.ParseQuery("limit=1&nextToken=" + token)
		require.NoError(t, err)
		decodedAt, decodedID, err := DecodeToken(query.Get("nextToken"))
		require.NoError(t, err, id)
		assert.True(t, createdAt.Equal(decodedAt))
		assert.Equal(t, id, decodedID)
	}
	assert.True(t, stdWouldBreak, "the ids should exercise the URL-unsafe alphabet")
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.RawURLEncoding.EncodeToString([]byte("2026-05-15T00:00:00Z"))
	_, _, err = DecodeToken(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.RawURLEncoding.EncodeToString([]byte("notadate|abc"))
	_, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestIsAfterCursor(t *testing.T) {
	at := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsAfterCursor(at.Add(-time.Second), "z", at, "m"), "older rows come after")
	assert.False(t, IsAfterCursor(at.Add(time.Second), "a", at, "m"), "newer rows come before")
	assert.True(t, IsAfterCursor(at, "a", at, "m"), "same time, smaller id comes after")
	assert.False(t, IsAfterCursor(at, "m", at, "m"), "the cursor row itself is excluded")
}
