// Package secret is the single home for credential material in Streamgate:
// password hashing and verification, stream key generation, and session
// token generation. Everything here draws entropy from RandomBytes, which
// in turn is backed by crypto/rand. No other package touches raw key
// material or hash parameters.
package secret

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters tuned for a self-hosted gatekeeper running on modest
// hardware (2-4 CPU cores, 2-4 GB RAM). These follow OWASP recommendations
// for argon2id: memory=64MB, iterations=3, parallelism=4.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // 64 MB in KiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// Stream key layout: a recognizable prefix plus two independently generated
// alphanumeric runs. The short run makes keys easy to eyeball in logs and
// dashboards; the long run carries the bulk of the entropy. Combined the
// runs hold well over 128 bits (62^32 possibilities).
const (
	streamKeyPrefix   = "sgk_"
	streamKeyShortLen = 6
	streamKeyLongLen  = 26
)

// sessionTokenBytes is the number of random bytes in an opaque session
// token. 48 bytes = 384 bits of entropy, base64url-encoded to 64 characters.
const sessionTokenBytes = 48

// keyAlphabet is the character set for stream key runs.
const keyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomBytes returns n cryptographically secure random bytes. It is the
// sole entropy origin for every credential this package produces.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("reading random bytes: %w", err)
	}
	return b, nil
}

// HashPassword creates an argon2id hash of the given password with a fresh
// random salt. The output format is:
// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
// This PHC string is self-describing, so verification needs no side-channel
// parameter storage.
func HashPassword(password string) (string, error) {
	salt, err := RandomBytes(argonSaltLen)
	if err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads, b64Salt, b64Hash)

	return encoded, nil
}

// VerifyPassword checks a plaintext password against an argon2id hash
// string. Any parse failure counts as a verification failure, never a
// fatal error. Returns true only on a constant-time match.
func VerifyPassword(encodedHash, password string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	return subtle.ConstantTimeCompare(expectedHash, computedHash) == 1
}

// GenerateStreamKey returns a fresh publish key in the form
// sgk_<6 chars>_<26 chars>. The two runs are generated independently.
func GenerateStreamKey() (string, error) {
	short, err := randomRun(streamKeyShortLen)
	if err != nil {
		return "", fmt.Errorf("generating stream key: %w", err)
	}
	long, err := randomRun(streamKeyLongLen)
	if err != nil {
		return "", fmt.Errorf("generating stream key: %w", err)
	}
	return streamKeyPrefix + short + "_" + long, nil
}

// GenerateSessionToken returns a cryptographically random opaque token
// suitable for use as a store-backed session credential.
func GenerateSessionToken() (string, error) {
	b, err := RandomBytes(sessionTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// randomRun returns n characters drawn uniformly from keyAlphabet.
// crypto/rand.Int avoids the modulo bias a naive byte-mask would have.
func randomRun(n int) (string, error) {
	max := big.NewInt(int64(len(keyAlphabet)))
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(keyAlphabet[idx.Int64()])
	}
	return sb.String(), nil
}
