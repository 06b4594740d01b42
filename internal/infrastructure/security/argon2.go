package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2Prefix = "$argon2id$"

// Upper bounds on parameters read back from stored hashes.
const (
	maxArgon2Memory     = 1 << 20 // KiB
	maxArgon2Iterations = 16
)

var errArgon2Format = errors.New("invalid argon2id hash")

// Argon2Params configures Argon2id. Memory is in KiB.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns OWASP-recommended defaults for Argon2id.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// withDefaults fills zero fields from DefaultArgon2Params.
func (p Argon2Params) withDefaults() Argon2Params {
	def := DefaultArgon2Params()
	if p.Memory == 0 {
		p.Memory = def.Memory
	}
	if p.Iterations == 0 {
		p.Iterations = def.Iterations
	}
	if p.Parallelism == 0 {
		p.Parallelism = def.Parallelism
	}
	if p.SaltLength == 0 {
		p.SaltLength = def.SaltLength
	}
	if p.KeyLength == 0 {
		p.KeyLength = def.KeyLength
	}
	return p
}

// argon2Hash is a decoded PHC string: $argon2id$v=19$m=..,t=..,p=..$salt$key.
type argon2Hash struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func (a argon2Hash) String() string {
	enc := base64.RawStdEncoding
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s", argon2Prefix, argon2.Version,
		a.memory, a.iterations, a.parallelism, enc.EncodeToString(a.salt), enc.EncodeToString(a.key))
}

func (a argon2Hash) derive(password string) []byte {
	return argon2.IDKey([]byte(password), a.salt, a.iterations, a.memory, a.parallelism, uint32(len(a.key)))
}

func parseArgon2Hash(encoded string) (argon2Hash, error) {
	var a argon2Hash
	fields := strings.Split(strings.TrimPrefix(encoded, argon2Prefix), "$")
	if !strings.HasPrefix(encoded, argon2Prefix) || len(fields) != 4 {
		return a, errArgon2Format
	}
	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil || version != argon2.Version {
		return a, errArgon2Format
	}
	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &a.memory, &a.iterations, &a.parallelism); err != nil {
		return a, errArgon2Format
	}
	if a.memory == 0 || a.memory > maxArgon2Memory || a.iterations == 0 || a.iterations > maxArgon2Iterations || a.parallelism == 0 {
		return a, errArgon2Format
	}
	var err error
	if a.salt, err = base64.RawStdEncoding.DecodeString(fields[2]); err != nil {
		return a, errArgon2Format
	}
	if a.key, err = base64.RawStdEncoding.DecodeString(fields[3]); err != nil || len(a.key) == 0 {
		return a, errArgon2Format
	}
	return a, nil
}

// Argon2Hasher implements ports.PasswordHasher using Argon2id.
type Argon2Hasher struct {
	params Argon2Params
}

func NewArgon2Hasher(params Argon2Params) *Argon2Hasher {
	return &Argon2Hasher{params: params.withDefaults()}
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	a := argon2Hash{
		memory:      h.params.Memory,
		iterations:  h.params.Iterations,
		parallelism: h.params.Parallelism,
		salt:        make([]byte, h.params.SaltLength),
		key:         make([]byte, h.params.KeyLength),
	}
	if _, err := rand.Read(a.salt); err != nil {
		return "", err
	}
	a.key = a.derive(password)
	return a.String(), nil
}

// Verify recomputes the key with the parameters stored in encoded.
func (h *Argon2Hasher) Verify(password, encoded string) bool {
	a, err := parseArgon2Hash(encoded)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(a.key, a.derive(password)) == 1
}

// Recognizes reports whether encoded is an argon2id PHC string.
func (h *Argon2Hasher) Recognizes(encoded string) bool {
	return strings.HasPrefix(encoded, argon2Prefix)
}
