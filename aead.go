package cqlstore

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// AEAD is the interface used for sealing session payloads at rest. It
// matches the [github.com/tink-crypto/tink-go/v2/tink.AEAD] interface, so a
// tink keyset can be plugged in directly.
type AEAD interface {
	// Encrypt the plaintext
	Encrypt(plaintext, associatedData []byte) ([]byte, error)

	// Decrypt the ciphertext
	Decrypt(ciphertext, associatedData []byte) ([]byte, error)
}

// Sealed payloads are stored as sealedMagic + base64(nonce || ciphertext).
// The magic marks the column value as sealed, so a store configured with an
// AEAD refuses plaintext rows rather than misreading them.
const sealedMagic = "SE1."

var sealedEncoding = base64.RawStdEncoding

// sealPayload seals an encoded session document for storage, bound to its
// session id so a row copied under another id will not open.
func sealPayload(a AEAD, id string, doc []byte) ([]byte, error) {
	ct, err := a.Encrypt(doc, []byte(id))
	if err != nil {
		return nil, fmt.Errorf("encrypting payload: %w", err)
	}
	return []byte(sealedMagic + sealedEncoding.EncodeToString(ct)), nil
}

// unsealPayload reverses sealPayload. Values without the sealed magic, with
// broken encoding, or that fail to open are all rejected.
func unsealPayload(a AEAD, id string, payload []byte) ([]byte, error) {
	rest, ok := strings.CutPrefix(string(payload), sealedMagic)
	if !ok {
		return nil, errors.New("payload is not sealed")
	}
	ct, err := sealedEncoding.DecodeString(rest)
	if err != nil {
		return nil, fmt.Errorf("decoding sealed payload: %w", err)
	}
	doc, err := a.Decrypt(ct, []byte(id))
	if err != nil {
		return nil, fmt.Errorf("decrypting payload: %w", err)
	}
	return doc, nil
}

// xchaPolyAEAD implements AEAD with XChaCha20-Poly1305 and a random nonce
// prepended to the ciphertext.
type xchaPolyAEAD struct {
	encryptionKey  []byte
	decryptionKeys [][]byte
}

// NewXChaPolyAEAD constructs an XChaCha20-Poly1305 AEAD. Keys must be 32
// bytes. The encryption key is the primary encrypt/decrypt key; additional
// decryption-only keys enable rotation.
func NewXChaPolyAEAD(encryptionKey []byte, additionalDecryptionKeys [][]byte) (AEAD, error) {
	for _, k := range append([][]byte{encryptionKey}, additionalDecryptionKeys...) {
		if len(k) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("keys must be %d bytes", chacha20poly1305.KeySize)
		}
	}

	return &xchaPolyAEAD{
		encryptionKey:  encryptionKey,
		decryptionKeys: additionalDecryptionKeys,
	}, nil
}

func (x *xchaPolyAEAD) Encrypt(plaintext, associatedData []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(x.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("creating XChaCha20-Poly1305 cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		panic(err)
	}

	return append(nonce, aead.Seal(nil, nonce, plaintext, associatedData)...), nil
}

func (x *xchaPolyAEAD) Decrypt(ciphertext, associatedData []byte) ([]byte, error) {
	nonceSize := chacha20poly1305.NonceSizeX
	if len(ciphertext) < nonceSize {
		return nil, errors.New("invalid ciphertext")
	}

	var plaintext []byte
	for _, dk := range append([][]byte{x.encryptionKey}, x.decryptionKeys...) {
		aead, err := chacha20poly1305.NewX(dk)
		if err != nil {
			return nil, fmt.Errorf("creating XChaCha20-Poly1305 cipher: %w", err)
		}

		pt, err := aead.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], associatedData)
		if err != nil {
			continue
		}

		plaintext = pt
		break
	}

	if plaintext == nil {
		return nil, fmt.Errorf("failed to decrypt data")
	}
	return plaintext, nil
}
