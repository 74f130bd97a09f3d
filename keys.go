package gostblind

import (
	"crypto/rand"
	"crypto/sha256"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

// privateKeyBytes fixes the private key width: 128 random bytes, giving
// x in (0, 2^1024). The signing equations only ever use x mod q, but the
// full-width secret is what gets stored and shared.
const privateKeyBytes = 128

const minSeedBytes = 16

var deriveSalt = []byte("gostblind/key-derivation/v1")

// KeyPair holds one signer's secret x and public y = a^x mod p.
type KeyPair struct {
	private *big.Int
	public  *big.Int
}

// IssueKeyPair draws a fresh private key and computes its public key
// under params.
func IssueKeyPair(params *DomainParameters) (*KeyPair, error) {
	const op = "IssueKeyPair"
	if params == nil {
		return nil, newInvalidParameter(op, "nil parameters")
	}
	buf := make([]byte, privateKeyBytes)
	x := new(big.Int)
	for {
		if _, err := rand.Read(buf); err != nil {
			return nil, newRandomSource(op, err)
		}
		x.SetBytes(buf)
		if x.Sign() > 0 {
			break
		}
	}
	zeroizeBytes(buf)
	return &KeyPair{private: x, public: params.powA(x)}, nil
}

// NewKeyPair wraps an existing private key, recomputing the public half.
// Used when keys are imported rather than issued.
func NewKeyPair(params *DomainParameters, private *big.Int) (*KeyPair, error) {
	const op = "NewKeyPair"
	if params == nil {
		return nil, newInvalidParameter(op, "nil parameters")
	}
	if private == nil || private.Sign() <= 0 {
		return nil, newInvalidParameter(op, "private key must be a positive integer")
	}
	x := new(big.Int).Set(private)
	return &KeyPair{private: x, public: params.powA(x)}, nil
}

// DeriveKeyPair derives a key pair deterministically from seed material
// via HKDF-SHA256. The same seed and info always give the same pair, so
// a signer can be reconstructed from backed-up seed material.
func DeriveKeyPair(params *DomainParameters, seed, info []byte) (*KeyPair, error) {
	const op = "DeriveKeyPair"
	if params == nil {
		return nil, newInvalidParameter(op, "nil parameters")
	}
	if len(seed) < minSeedBytes {
		return nil, newInvalidParameter(op, "seed must be at least %d bytes, got %d", minSeedBytes, len(seed))
	}
	kdf := hkdf.New(sha256.New, seed, deriveSalt, info)
	buf := make([]byte, privateKeyBytes)
	x := new(big.Int)
	for {
		if _, err := io.ReadFull(kdf, buf); err != nil {
			return nil, newRandomSource(op, err)
		}
		x.SetBytes(buf)
		if x.Sign() > 0 {
			break
		}
	}
	zeroizeBytes(buf)
	return &KeyPair{private: x, public: params.powA(x)}, nil
}

// Private returns a copy of the secret key.
func (kp *KeyPair) Private() *big.Int {
	return new(big.Int).Set(kp.private)
}

// Public returns a copy of the public key.
func (kp *KeyPair) Public() *big.Int {
	return new(big.Int).Set(kp.public)
}

// Equal reports whether both pairs hold the same key material.
func (kp *KeyPair) Equal(other *KeyPair) bool {
	if kp == nil || other == nil {
		return kp == other
	}
	return kp.private.Cmp(other.private) == 0 && kp.public.Cmp(other.public) == 0
}

// Zeroize wipes the private key limbs in place. The pair is unusable for
// signing afterwards.
func (kp *KeyPair) Zeroize() {
	if kp == nil || kp.private == nil {
		return
	}
	zeroizeBig(kp.private)
	kp.private = new(big.Int)
}

// AggregatePublicKey folds the participants' public keys into the
// collective key y = y_1 * y_2 * ... * y_m mod p. Every key must lie in
// (0, p).
func AggregatePublicKey(params *DomainParameters, publics []*big.Int) (*big.Int, error) {
	const op = "AggregatePublicKey"
	if params == nil {
		return nil, newInvalidParameter(op, "nil parameters")
	}
	if len(publics) == 0 {
		return nil, newInvalidParameter(op, "no public keys to aggregate")
	}
	y := new(big.Int).Set(bigOne)
	for i, pub := range publics {
		if pub == nil || pub.Sign() <= 0 || pub.Cmp(params.p) >= 0 {
			return nil, newInvalidParameter(op, "public key %d out of range", i+1)
		}
		y.Mul(y, pub)
		y.Mod(y, params.p)
	}
	return y, nil
}

func zeroizeBig(x *big.Int) {
	if x == nil {
		return
	}
	limbs := x.Bits()
	for i := range limbs {
		limbs[i] = 0
	}
	x.SetInt64(0)
}

func zeroizeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
