package pagination

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeSequenceToken(t *testing.T) {
	for _, seq := range []int64{0, 1, 42, 9007199254740993} {
		token := EncodeSequenceToken(seq)
		assert.NotEmpty(t, token, "Token should not be empty")

		decoded, err := DecodeSequenceToken(token)
		assert.NoError(t, err, "Decoding should not return an error")
		assert.Equal(t, seq, decoded, "Sequence should match after decode")
	}
}

func TestDecodeSequenceTokenError(t *testing.T) {
	// Test invalid base64
	_, err := DecodeSequenceToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test wrong token kind
	_, err = DecodeSequenceToken(EncodeMultiFieldToken("date", "2024-01-01"))
	assert.Error(t, err, "Should reject a token of another kind")
	assert.Contains(t, err.Error(), "split")

	// Test invalid sequence
	bad := base64.URLEncoding.EncodeToString([]byte("seq|abc"))
	_, err = DecodeSequenceToken(bad)
	assert.Error(t, err, "Should return an error for a non-numeric sequence")
	assert.Contains(t, err.Error(), "sequence parse")

	negative := base64.URLEncoding.EncodeToString([]byte("seq|-3"))
	_, err = DecodeSequenceToken(negative)
	assert.Error(t, err, "Should reject a negative sequence")
}

func TestEncodeDecodeMultiFieldToken(t *testing.T) {
	fields := []string{"field1", "field2", "field3"}
	token := EncodeMultiFieldToken(fields...)

	decoded, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err)
	assert.Equal(t, fields, decoded, "Fields should match after decode")
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}
