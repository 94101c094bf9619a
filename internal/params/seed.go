package params

import (
	"io"

	"golang.org/x/crypto/sha3"
)

const seedDomain = "rescue-block-cipher/parameters/v1"

// NewSeededReader returns an endless deterministic byte stream derived from seed.
// Parameters generated from it can be regenerated by anyone holding the seed.
func NewSeededReader(seed []byte) io.Reader {
	h := sha3.NewShake256()
	h.Write([]byte(seedDomain))
	h.Write(seed)
	return h
}
