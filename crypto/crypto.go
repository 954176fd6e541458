package crypto

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

const KeySize = 32

// Keys holds the independent secrets derived from the configured session key.
type Keys struct {
	SessionAuth []byte // cookie HMAC
	SessionEnc  []byte // cookie AES
	CSRF        []byte
	Token       []byte // API bearer token signing
}

// DeriveKey expands secret into a KeySize key bound to purpose.
// The same inputs always yield the same key.
func DeriveKey(secret, purpose string) []byte {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("vendex/"+purpose))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		// hkdf only fails after 255*32 bytes of output.
		panic(err)
	}
	return key
}

func DeriveKeys(secret string) Keys {
	return Keys{
		SessionAuth: DeriveKey(secret, "session-auth"),
		SessionEnc:  DeriveKey(secret, "session-enc"),
		CSRF:        DeriveKey(secret, "csrf"),
		Token:       DeriveKey(secret, "api-token"),
	}
}
