package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is bumped when the layout or document encoding changes so
// stale entries are never decoded.
const keyVersion = 2

// hashKey builds "prefix:sha256(version, parts...)".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(append([]any{keyVersion}, parts...))
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Short abbreviates a hash for log output.
func Short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
