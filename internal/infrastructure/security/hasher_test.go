package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// cheap parameters keep the suite fast
var testArgon2 = Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw123456")
	require.NoError(t, err)
	assert.True(t, h.Recognizes(hash))
	assert.True(t, h.Verify("pw123456", hash))
	assert.False(t, h.Verify("pw1234567", hash))
	assert.False(t, h.Verify("pw123456", "not-a-hash"))

	other, err := h.Hash("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes must be salted")
}

func TestBcryptHasher_CostClamp(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(1).cost)
	assert.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestArgon2Hasher(t *testing.T) {
	h := NewArgon2Hasher(testArgon2)

	hash, err := h.Hash("pw123456")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))
	assert.True(t, h.Verify("pw123456", hash))
	assert.False(t, h.Verify("wrong", hash))
}

func TestArgon2Hasher_MalformedHash(t *testing.T) {
	h := NewArgon2Hasher(testArgon2)
	for _, encoded := range []string{
		"",
		"$argon2id$",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=4194304,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=0,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
	} {
		assert.False(t, h.Verify("pw", encoded), encoded)
	}
}

func TestHashers_RejectEmptyPassword(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
	_, err = NewArgon2Hasher(testArgon2).Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestBcryptHasher_RejectsOverlongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("p", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	hash, err := h.Hash(strings.Repeat("p", 72))
	require.NoError(t, err)
	assert.True(t, h.Verify(strings.Repeat("p", 72), hash))
}

func TestMultiHasher(t *testing.T) {
	bcryptFirst, err := NewMultiHasher(SchemeBcrypt, bcrypt.MinCost, testArgon2)
	require.NoError(t, err)
	argonFirst, err := NewMultiHasher(SchemeArgon2id, bcrypt.MinCost, testArgon2)
	require.NoError(t, err)

	legacy, err := bcryptFirst.Hash("pw123456")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(legacy, "$2a$"))

	current, err := argonFirst.Hash("pw123456")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(current, argon2Prefix))

	// either configuration verifies both schemes
	for _, m := range []*MultiHasher{bcryptFirst, argonFirst} {
		assert.True(t, m.Verify("pw123456", legacy))
		assert.True(t, m.Verify("pw123456", current))
		assert.False(t, m.Verify("nope", legacy))
		assert.False(t, m.Verify("pw123456", "plain"))
	}
}

func TestNewMultiHasher_UnknownScheme(t *testing.T) {
	_, err := NewMultiHasher("md5", 0, testArgon2)
	require.Error(t, err)
}
