package buildplan

import (
	"crypto/sha256"
	"encoding/hex"
)

// stageIdentity computes id_i = sha256(name || parentID || fragment ||
// baseImageTag-if-root), per SPEC_FULL.md §3/§4.6. Grounded on the
// content-hash staleness pattern in griffithind-dcx's
// internal/devcontainer/hashes.go, which uses crypto/sha256 the same way
// to detect when a generated artifact is stale relative to its inputs.
func stageIdentity(name, parentID, fragment, baseImageTag string) string {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(parentID))
	h.Write([]byte{0})
	h.Write([]byte(fragment))
	h.Write([]byte{0})
	h.Write([]byte(baseImageTag))
	return hex.EncodeToString(h.Sum(nil))
}

// contentHash is used for the idempotent-write check: identical content
// hashes to the same value regardless of when it was generated.
func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
