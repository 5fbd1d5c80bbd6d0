package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives cache keys for analysis artifacts.
type Keyer interface {
	// RegistryKey identifies the registry of a program with the given
	// content fingerprint, built under opts.
	RegistryKey(fingerprint string, opts RegistryKeyOpts) string
}

// RegistryKeyOpts holds the build settings that change registry contents.
type RegistryKeyOpts struct {
	Methods  any  `json:"methods"`
	Semantic bool `json:"semantic"`
	Version  int  `json:"version"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RegistryKey returns "registry:<sha256>" over the fingerprint and options.
func (DefaultKeyer) RegistryKey(fingerprint string, opts RegistryKeyOpts) string {
	return hashKey("registry", fingerprint, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
