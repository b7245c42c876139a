package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Hash returns the hex-encoded SHA-256 of data. The pipeline hashes the raw
// analysis-context bytes with it before key generation.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey folds a label and the key-relevant options into a single digest so
// keys stay fixed-length regardless of title contents.
func hashKey(label string, opts SpecKeyOpts) string {
	h := sha256.New()
	h.Write([]byte(label))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(opts.Width, 'g', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(opts.Height, 'g', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(opts.Title))
	h.Write([]byte{0})
	h.Write([]byte(opts.XTitle))
	h.Write([]byte{0})
	h.Write([]byte(opts.YTitle))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatBool(opts.Interactive)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatBool(opts.Tooltip)))
	return fmt.Sprintf("%x", h.Sum(nil))
}
