package ir

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash domain prefixes. Domain separation guarantees a spec hash and a
// document hash can never collide even over identical bytes.
const (
	DomainSpec     = "mjscene/spec/v1"
	DomainDocument = "mjscene/document/v1"
)

// hashWithDomain computes hex(SHA-256(domain || 0x00 || data)).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SpecHash computes the content hash of a scene spec. The spec is
// re-serialized canonically first, so hashes are independent of the
// key order and optional-field spelling of whatever file the spec was
// loaded from.
func SpecHash(spec *SceneSpec) (string, error) {
	data, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("spec hash: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return "", fmt.Errorf("spec hash: %w", err)
	}
	canonical, err := MarshalCanonical(generic)
	if err != nil {
		return "", fmt.Errorf("spec hash: %w", err)
	}
	return hashWithDomain(DomainSpec, canonical), nil
}

// MustSpecHash is SpecHash for specs known to be valid; it panics on
// error.
func MustSpecHash(spec *SceneSpec) string {
	h, err := SpecHash(spec)
	if err != nil {
		panic(err)
	}
	return h
}

// DocumentHash computes the content hash of a compiled document's
// exact bytes.
func DocumentHash(doc []byte) string {
	return hashWithDomain(DomainDocument, doc)
}
