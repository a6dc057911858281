package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("secret-pin-1234")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret-pin-1234", hash)

	assert.NoError(t, CompareHash(hash, "secret-pin-1234"))
	assert.Error(t, CompareHash(hash, "wrong-pin"))
}

func TestGetHash_SamePasswordDifferentHashes(t *testing.T) {
	first, err := GetHash("password123")
	assert.NoError(t, err)
	second, err := GetHash("password123")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, CompareHash(first, "password123"))
	assert.NoError(t, CompareHash(second, "password123"))
}
