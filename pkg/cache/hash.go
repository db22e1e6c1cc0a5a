package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
)

// Hash returns the hex SHA-256 of data. Source texts are keyed by it, so two
// uploads of the same words file share their statistics.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v, streamed into the digest. Values
// that cannot be encoded hash like an empty document.
func HashJSON(v any) string {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(v); err != nil {
		h.Reset()
	}
	return digest(h)
}

// hashKey builds "kind:<sha256 of parts>". The kind stays readable so
// `redis-cli --scan --pattern 'artifact:png:*'` finds one format.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	json.NewEncoder(h).Encode(parts)
	return kind + ":" + digest(h)
}

func digest(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}
