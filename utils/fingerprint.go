package utils

import (
	"hash/fnv"
	"strconv"
)

func FingerprintString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// StatementName derives a server-side statement name from a fingerprint.
// Names stay well under the 63 byte identifier limit.
func StatementName(prefix string, fingerprint uint64) string {
	return prefix + strconv.FormatUint(fingerprint, 16)
}
