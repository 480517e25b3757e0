package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resalelab/carprice/util/crypto"
)

func TestCreateThenVerify(t *testing.T) {
	setupDB(t)
	s := &UserService{}

	require.NoError(t, s.Create("alice", "pw1"))

	ok, err := s.Verify("alice", "pw1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Verify("alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyUnknownUser(t *testing.T) {
	setupDB(t)
	s := &UserService{}

	ok, err := s.Verify("nobody", "pw")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateDuplicateKeepsOriginalHash(t *testing.T) {
	setupDB(t)
	s := &UserService{}

	require.NoError(t, s.Create("alice", "pw1"))
	before, err := s.Find("alice")
	require.NoError(t, err)
	require.NotNil(t, before)

	err = s.Create("alice", "other")
	assert.ErrorIs(t, err, ErrUserExists)

	after, err := s.Find("alice")
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)

	ok, err := s.Verify("alice", "pw1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Verify("alice", "other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateStoresHashNotPassword(t *testing.T) {
	setupDB(t)
	s := &UserService{}

	require.NoError(t, s.Create("bob", "secret"))
	u, err := s.Find("bob")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", u.PasswordHash)
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$2"))
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	setupDB(t)
	s := &UserService{}

	assert.ErrorIs(t, s.Create("", "pw"), ErrEmptyCredentials)
	assert.ErrorIs(t, s.Create("carol", ""), ErrEmptyCredentials)
	assert.ErrorIs(t, s.Create(strings.Repeat("u", maxUsernameLength+1), "pw"), ErrInvalidUsername)
	assert.ErrorIs(t, s.Create("carol", strings.Repeat("p", crypto.MaxPasswordBytes+1)), crypto.ErrPasswordTooLong)

	u, err := s.Find("carol")
	require.NoError(t, err)
	assert.Nil(t, u)
}
