// Package secretsource reads the witness secret from an age-encrypted file so
// it never appears on the command line.
package secretsource

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// MaxSecretSize bounds the decrypted secret.
const MaxSecretSize = 64 << 10

var ErrSecretTooLarge = errors.New("secret exceeds maximum size")

// Decrypt decrypts an age file, armored or binary, and returns its contents
// with a single trailing newline removed.
func Decrypt(ciphertext io.Reader, identities ...age.Identity) (string, error) {
	bufReader := bufio.NewReader(ciphertext)
	var reader io.Reader = bufReader
	if peek, _ := bufReader.Peek(len(armor.Header)); string(peek) == armor.Header {
		reader = armor.NewReader(bufReader)
	}

	plain, err := age.Decrypt(reader, identities...)
	if err != nil {
		return "", fmt.Errorf("age decrypt: %w", err)
	}
	data, err := io.ReadAll(io.LimitReader(plain, MaxSecretSize+1))
	if err != nil {
		return "", fmt.Errorf("age decrypt: %w", err)
	}
	if len(data) > MaxSecretSize {
		return "", ErrSecretTooLarge
	}

	secret := string(data)
	if s, ok := strings.CutSuffix(secret, "\n"); ok {
		secret = strings.TrimSuffix(s, "\r")
	}
	return secret, nil
}

// ReadFile decrypts secretPath with the identities in identityPath.
func ReadFile(secretPath, identityPath string) (string, error) {
	idFile, err := os.Open(identityPath)
	if err != nil {
		return "", fmt.Errorf("open identity file: %w", err)
	}
	defer idFile.Close()

	identities, err := age.ParseIdentities(idFile)
	if err != nil {
		return "", fmt.Errorf("parse identities %s: %w", identityPath, err)
	}

	f, err := os.Open(secretPath)
	if err != nil {
		return "", fmt.Errorf("open secret file: %w", err)
	}
	defer f.Close()

	return Decrypt(f, identities...)
}
