package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"

	"github.com/yukikurage/todo-api/internal/config"
)

var (
	ErrHashFailed      = errors.New("failed to hash password")
	ErrPasswordTooLong = errors.New("password too long")
)

// Hasher turns plaintext passwords into storable digests and checks
// candidates against them.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// BcryptHasher hashes with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("%w: %v", ErrHashFailed, err)
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// Argon2idHasher hashes with argon2id using the library defaults.
type Argon2idHasher struct {
	params *argon2id.Params
}

func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{params: argon2id.DefaultParams}
}

func (h *Argon2idHasher) Hash(plaintext string) (string, error) {
	digest, err := argon2id.CreateHash(plaintext, h.params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashFailed, err)
	}
	return digest, nil
}

func (h *Argon2idHasher) Verify(plaintext, digest string) bool {
	match, err := argon2id.ComparePasswordAndHash(plaintext, digest)
	return err == nil && match
}

// PasswordHasher writes new digests with one algorithm and verifies digests
// of any supported algorithm, picked by the digest prefix. Switching
// PASSWORD_HASHER therefore keeps existing accounts working.
type PasswordHasher struct {
	primary  Hasher
	bcrypt   *BcryptHasher
	argon2id *Argon2idHasher
}

func NewPasswordHasher(cfg config.PasswordConfig) *PasswordHasher {
	h := &PasswordHasher{
		bcrypt:   NewBcryptHasher(cfg.BcryptCost),
		argon2id: NewArgon2idHasher(),
	}
	if cfg.Hasher == config.HasherArgon2id {
		h.primary = h.argon2id
	} else {
		h.primary = h.bcrypt
	}
	return h
}

func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	return h.primary.Hash(plaintext)
}

// Verify returns false for malformed or unknown digests.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		return h.argon2id.Verify(plaintext, digest)
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		return h.bcrypt.Verify(plaintext, digest)
	default:
		return false
	}
}
