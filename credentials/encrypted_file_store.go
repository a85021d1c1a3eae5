package credentials

import (
	"bytes"
	"context"
	"crypto/rand"

	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var ErrWrongPassphrase = apperrors.ErrWrongPassphrase

var sealedMagic = []byte("GACv1")

// Argon2idParams controls the key derivation used to seal the credentials file.
type Argon2idParams struct {
	MemoryKiB uint32
	Time      uint32
	Threads   uint8
	SaltLen   uint32
}

func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		MemoryKiB: 64 * 1024,
		Time:      1,
		Threads:   4,
		SaltLen:   16,
	}
}

// EncryptedFileStore keeps credentials on disk sealed with a key derived from a passphrase.
// Layout: magic | salt | nonce | XChaCha20-Poly1305 ciphertext.
type EncryptedFileStore struct {
	path       string
	passphrase []byte
	params     Argon2idParams
}

var _ Store = (*EncryptedFileStore)(nil)

func NewEncryptedFileStore(path, passphrase string, params Argon2idParams) (*EncryptedFileStore, error) {
	if passphrase == "" {
		return nil, errors.New("[NewEncryptedFileStore] passphrase is required")
	}
	if path == "" {
		path = DefaultFile
	}
	if params.SaltLen == 0 {
		params = DefaultArgon2idParams()
	}
	return &EncryptedFileStore{path: path, passphrase: []byte(passphrase), params: params}, nil
}

func (e *EncryptedFileStore) Load(_ context.Context) (Credentials, error) {
	sealed, err := readFile(e.path)
	if err != nil {
		return Credentials{}, err
	}
	plain, err := e.open(sealed)
	if err != nil {
		return Credentials{}, err
	}
	return Decode(plain)
}

func (e *EncryptedFileStore) Save(_ context.Context, creds Credentials) error {
	plain, err := Encode(creds)
	if err != nil {
		return errors.Wrap(err, "[EncryptedFileStore.Save] encode")
	}
	sealed, err := e.seal(plain)
	if err != nil {
		return err
	}
	return writeFile(e.path, sealed)
}

func (e *EncryptedFileStore) key(salt []byte) []byte {
	return argon2.IDKey(e.passphrase, salt, e.params.Time, e.params.MemoryKiB, e.params.Threads, chacha20poly1305.KeySize)
}

func (e *EncryptedFileStore) seal(plain []byte) ([]byte, error) {
	salt := make([]byte, e.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "[EncryptedFileStore.seal] salt")
	}
	aead, err := chacha20poly1305.NewX(e.key(salt))
	if err != nil {
		return nil, errors.Wrap(err, "[EncryptedFileStore.seal] cipher")
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "[EncryptedFileStore.seal] nonce")
	}

	out := make([]byte, 0, len(sealedMagic)+len(salt)+len(nonce)+len(plain)+aead.Overhead())
	out = append(out, sealedMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plain, sealedMagic), nil
}

func (e *EncryptedFileStore) open(sealed []byte) ([]byte, error) {
	saltLen := int(e.params.SaltLen)
	header := len(sealedMagic) + saltLen + chacha20poly1305.NonceSizeX
	if len(sealed) < header || !bytes.Equal(sealed[:len(sealedMagic)], sealedMagic) {
		return nil, ErrMalformed
	}
	salt := sealed[len(sealedMagic) : len(sealedMagic)+saltLen]
	nonce := sealed[len(sealedMagic)+saltLen : header]

	aead, err := chacha20poly1305.NewX(e.key(salt))
	if err != nil {
		return nil, errors.Wrap(err, "[EncryptedFileStore.open] cipher")
	}
	plain, err := aead.Open(nil, nonce, sealed[header:], sealedMagic)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plain, nil
}
