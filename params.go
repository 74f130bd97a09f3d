package gostblind

import (
	"fmt"
	"math/big"

	"github.com/monnand/dhkx"
)

// DomainParameters fixes the group a collective signature lives in: a
// prime modulus P, a prime order Q dividing P-1 and a generator A of the
// order-Q subgroup of Z_P*.
//
// The type has value semantics: the constructor copies its inputs and the
// accessors hand out copies, so a DomainParameters never changes after it
// is built. The constructor enforces the structural relations only; run
// ValidateDomainParameters for the expensive primality and order checks.
type DomainParameters struct {
	p *big.Int
	q *big.Int
	a *big.Int
}

// NewDomainParameters builds an immutable parameter set from p, q and a.
func NewDomainParameters(p, q, a *big.Int) (*DomainParameters, error) {
	const op = "NewDomainParameters"
	if p == nil || q == nil || a == nil {
		return nil, newInvalidParameter(op, "p, q and a must not be nil")
	}
	if p.Cmp(bigThree) < 0 || p.Bit(0) == 0 {
		return nil, newInvalidParameter(op, "modulus must be an odd number above 2")
	}
	if q.Cmp(bigTwo) < 0 || q.Cmp(p) >= 0 {
		return nil, newInvalidParameter(op, "order must lie in [2, p)")
	}
	pm1 := new(big.Int).Sub(p, bigOne)
	if new(big.Int).Mod(pm1, q).Sign() != 0 {
		return nil, newInvalidParameter(op, "order does not divide p-1")
	}
	if a.Cmp(bigOne) <= 0 || a.Cmp(p) >= 0 {
		return nil, newInvalidParameter(op, "generator must lie in (1, p)")
	}
	return &DomainParameters{
		p: new(big.Int).Set(p),
		q: new(big.Int).Set(q),
		a: new(big.Int).Set(a),
	}, nil
}

// P returns a copy of the prime modulus.
func (dp *DomainParameters) P() *big.Int { return new(big.Int).Set(dp.p) }

// Q returns a copy of the subgroup order.
func (dp *DomainParameters) Q() *big.Int { return new(big.Int).Set(dp.q) }

// A returns a copy of the generator.
func (dp *DomainParameters) A() *big.Int { return new(big.Int).Set(dp.a) }

// BitLen returns the bit length of the modulus.
func (dp *DomainParameters) BitLen() int { return dp.p.BitLen() }

// Clone returns an independent copy.
func (dp *DomainParameters) Clone() *DomainParameters {
	return &DomainParameters{
		p: new(big.Int).Set(dp.p),
		q: new(big.Int).Set(dp.q),
		a: new(big.Int).Set(dp.a),
	}
}

// Equal reports whether both parameter sets hold the same p, q and a.
func (dp *DomainParameters) Equal(other *DomainParameters) bool {
	if dp == nil || other == nil {
		return dp == other
	}
	return dp.p.Cmp(other.p) == 0 && dp.q.Cmp(other.q) == 0 && dp.a.Cmp(other.a) == 0
}

// String renders a short description for logs.
func (dp *DomainParameters) String() string {
	return fmt.Sprintf("DomainParameters(p=%d bits, q=%d bits)", dp.p.BitLen(), dp.q.BitLen())
}

// Exp returns base^exponent mod P. The exponent must be non-negative.
func (dp *DomainParameters) Exp(base, exponent *big.Int) *big.Int {
	return new(big.Int).Exp(base, exponent, dp.p)
}

// MulMod returns x*y mod P.
func (dp *DomainParameters) MulMod(x, y *big.Int) *big.Int {
	z := new(big.Int).Mul(x, y)
	return z.Mod(z, dp.p)
}

// Inverse returns x^-1 mod P.
func (dp *DomainParameters) Inverse(x *big.Int) (*big.Int, error) {
	return ModInverse(x, dp.p)
}

// RandomScalar draws a value from (0, Q) with RandomInRange.
func (dp *DomainParameters) RandomScalar() (*big.Int, error) {
	return RandomInRange(dp.q)
}

// powA returns A^exponent mod P.
func (dp *DomainParameters) powA(exponent *big.Int) *big.Int {
	return new(big.Int).Exp(dp.a, exponent, dp.p)
}

// Preset identifies a well-known safe-prime MODP group usable as domain
// parameters without running the generator.
type Preset int

const (
	// PresetMODP768 is Oakley group 1 (RFC 2409, 768-bit modulus).
	PresetMODP768 Preset = 1
	// PresetMODP1024 is Oakley group 2 (RFC 2409, 1024-bit modulus).
	PresetMODP1024 Preset = 2
	// PresetMODP2048 is group 14 (RFC 3526, 2048-bit modulus).
	PresetMODP2048 Preset = 14
)

// PresetParameters returns domain parameters backed by a well-known MODP
// group. These moduli are safe primes with p ≡ 7 (mod 8), so 2 is a
// quadratic residue and generates the subgroup of prime order (p-1)/2
// exactly.
func PresetParameters(preset Preset) (*DomainParameters, error) {
	const op = "PresetParameters"
	switch preset {
	case PresetMODP768, PresetMODP1024, PresetMODP2048:
	default:
		return nil, newInvalidParameter(op, "unknown preset group %d", int(preset))
	}
	grp, err := dhkx.GetGroup(int(preset))
	if err != nil {
		return nil, newInvalidParameter(op, "preset group %d unavailable", int(preset)).withCause(err)
	}
	p := grp.P()
	q := new(big.Int).Sub(p, bigOne)
	q.Rsh(q, 1)
	return NewDomainParameters(p, q, grp.G())
}
