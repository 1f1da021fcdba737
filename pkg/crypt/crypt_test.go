package crypt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudeviagro/backoffice/pkg/crypt"
)

func TestSealOpen(t *testing.T) {
	box, err := crypt.New("test-secret")
	require.NoError(t, err)

	enc, err := box.Seal("ya29.merchant-token")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enc, "v1."))
	assert.NotContains(t, enc, "merchant-token")

	again, err := box.Seal("ya29.merchant-token")
	require.NoError(t, err)
	assert.NotEqual(t, enc, again, "nonce must differ per seal")

	plain, err := box.Open(enc)
	require.NoError(t, err)
	assert.Equal(t, "ya29.merchant-token", plain)
}

func TestOpenRejectsTampering(t *testing.T) {
	box, _ := crypt.New("test-secret")
	other, _ := crypt.New("other-secret")
	enc, _ := box.Seal("token")

	_, err := other.Open(enc)
	assert.ErrorIs(t, err, crypt.ErrDecrypt)

	_, err = box.Open("v1.!!!")
	assert.ErrorIs(t, err, crypt.ErrDecrypt)

	_, err = box.Open("plain-token")
	assert.ErrorIs(t, err, crypt.ErrDecrypt)
}

func TestEmptyValues(t *testing.T) {
	box, _ := crypt.New("test-secret")
	enc, err := box.Seal("")
	require.NoError(t, err)
	assert.Empty(t, enc)

	plain, err := box.Open("")
	require.NoError(t, err)
	assert.Empty(t, plain)

	_, err = crypt.New("")
	assert.ErrorIs(t, err, crypt.ErrNoKey)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", crypt.Mask(""))
	assert.Equal(t, "****", crypt.Mask("abc"))
	assert.Equal(t, "****9xyz", crypt.Mask("ya29-abc9xyz"))
}
