package secretsource

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"
	"filippo.io/age/armor"
	"github.com/stretchr/testify/require"
)

func encrypt(t *testing.T, r age.Recipient, plaintext string, armored bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	var dst io.Writer = &buf
	var aw io.WriteCloser
	if armored {
		aw = armor.NewWriter(&buf)
		dst = aw
	}
	w, err := age.Encrypt(dst, r)
	require.NoError(t, err)
	_, err = io.WriteString(w, plaintext)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	if aw != nil {
		require.NoError(t, aw.Close())
	}
	return buf.Bytes()
}

func TestDecryptBinaryAndArmored(t *testing.T) {
	id, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	for _, armored := range []bool{false, true} {
		ct := encrypt(t, id.Recipient(), "test-secret\n", armored)
		secret, err := Decrypt(bytes.NewReader(ct), id)
		require.NoError(t, err)
		require.Equal(t, "test-secret", secret)
	}
}

func TestDecryptKeepsInnerWhitespace(t *testing.T) {
	id, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	secret, err := Decrypt(bytes.NewReader(encrypt(t, id.Recipient(), " a b\n\n", false)), id)
	require.NoError(t, err)
	require.Equal(t, " a b\n", secret)
}

func TestDecryptWrongIdentity(t *testing.T) {
	id, err := age.GenerateX25519Identity()
	require.NoError(t, err)
	other, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	_, err = Decrypt(bytes.NewReader(encrypt(t, id.Recipient(), "s", false)), other)
	require.Error(t, err)
}

func TestReadFile(t *testing.T) {
	id, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	dir := t.TempDir()
	idPath := filepath.Join(dir, "key.txt")
	secretPath := filepath.Join(dir, "secret.age")
	require.NoError(t, os.WriteFile(idPath, []byte(id.String()+"\n"), 0o600))
	require.NoError(t, os.WriteFile(secretPath, encrypt(t, id.Recipient(), "from-file", true), 0o600))

	secret, err := ReadFile(secretPath, idPath)
	require.NoError(t, err)
	require.Equal(t, "from-file", secret)
}
