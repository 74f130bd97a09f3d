package gostblind

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"math/big"
)

// commitmentTag domain-separates the nonce commitment hash from every
// other use of SHA-256 in this package.
const commitmentTag = "gostblind/rho-commitment/v1"

// nonceCommitment binds a participant to their announced rho before the
// other announcements are revealed, so no participant can pick rho_i as
// a function of the rest.
type nonceCommitment [sha256.Size]byte

func commitNonce(index int, rho *big.Int) nonceCommitment {
	h := sha256.New()
	h.Write([]byte(commitmentTag))
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], uint32(index))
	h.Write(idx[:])
	h.Write(rho.Bytes())
	var c nonceCommitment
	copy(c[:], h.Sum(nil))
	return c
}

func (c nonceCommitment) verify(index int, rho *big.Int) bool {
	expect := commitNonce(index, rho)
	return subtle.ConstantTimeCompare(c[:], expect[:]) == 1
}
