package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("not-a-hash", "correct horse battery staple"))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("password123")
	assert.NoError(t, err)
	h2, err := HashPassword("password123")
	assert.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
