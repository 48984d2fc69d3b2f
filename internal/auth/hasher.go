// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Argon2Params are the argon2id cost parameters used for new digests.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// Upper bounds on argon2id cost, applied to configured parameters and to
// digests read back from storage.
const (
	MaxArgon2Memory uint32 = 1 << 20 // KiB
	MaxArgon2Time   uint32 = 16
)

// DefaultArgon2Params returns the OWASP-recommended argon2id parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
		SaltLen: 16,
		KeyLen:  32,
	}
}

// PasswordHasher provides password hashing and verification.
type PasswordHasher interface {
	// Hash produces a salted digest of the password.
	Hash(password string) (string, error)

	// Verify checks if the password matches the digest.
	// Returns (true, nil) on match, (false, nil) on mismatch, or error on a
	// malformed digest.
	Verify(password, digest string) (bool, error)
}

// Argon2idHasher writes argon2id digests and verifies argon2id and bcrypt
// digests. It applies no strength rules; callers validate passwords first.
type Argon2idHasher struct {
	params Argon2Params
}

// NewArgon2idHasher creates a hasher with DefaultArgon2Params.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{params: DefaultArgon2Params()}
}

// NewArgon2idHasherWithParams creates a hasher with custom cost parameters.
func NewArgon2idHasherWithParams(p Argon2Params) (*Argon2idHasher, error) {
	if p.Time == 0 || p.Memory == 0 || p.Threads == 0 || p.SaltLen == 0 || p.KeyLen == 0 {
		return nil, oops.In("hasher").
			With("params", fmt.Sprintf("%+v", p)).
			Errorf("argon2 parameters must be positive")
	}
	if p.Memory > MaxArgon2Memory || p.Time > MaxArgon2Time {
		return nil, oops.In("hasher").
			With("params", fmt.Sprintf("%+v", p)).
			Errorf("argon2 cost exceeds m=%d,t=%d", MaxArgon2Memory, MaxArgon2Time)
	}
	return &Argon2idHasher{params: p}, nil
}

// Hash produces an argon2id digest in PHC string format.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	p := h.params

	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.In("hasher").With("operation", "generate salt").Wrap(err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Time,
		p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify checks the password against an argon2id or bcrypt digest.
func (h *Argon2idHasher) Verify(password, digest string) (bool, error) {
	if isBcrypt(digest) {
		return verifyBcrypt(password, digest)
	}
	return verifyArgon2id(password, digest)
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

func verifyBcrypt(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, oops.In("hasher").With("algorithm", "bcrypt").Wrap(err)
	}
}

func verifyArgon2id(password, digest string) (bool, error) {
	invalid := oops.In("hasher").With("algorithm", "argon2id")

	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return false, invalid.Errorf("invalid digest format")
	}
	if parts[1] != "argon2id" {
		return false, invalid.Errorf("unsupported digest algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, invalid.Wrap(err)
	}
	if version != argon2.Version {
		return false, invalid.Errorf("unsupported argon2 version %d", version)
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, invalid.Wrap(err)
	}
	if threads == 0 || threads > 255 {
		return false, invalid.Errorf("threads value %d out of range", threads)
	}
	if time == 0 || memory == 0 {
		return false, invalid.Errorf("time and memory must be positive")
	}
	if memory > MaxArgon2Memory || time > MaxArgon2Time {
		return false, invalid.Errorf("cost m=%d,t=%d exceeds m=%d,t=%d", memory, time, MaxArgon2Memory, MaxArgon2Time)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, invalid.Wrap(err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, invalid.Wrap(err)
	}

	keyLen := len(expected)
	if keyLen == 0 || keyLen > 1<<10 {
		return false, invalid.Errorf("invalid key length: %d", keyLen)
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(keyLen))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
