package gostblind

import (
	"math/big"
)

// maxShares bounds the share count; indexes are serialized as a single
// byte elsewhere and nothing realistic needs more.
const maxShares = 255

// Share is one point (Index, Value) of the sharing polynomial over Z_q.
type Share struct {
	Index int
	Value *big.Int
}

// SplitPrivateKey splits a private key into numShares shares of which any
// threshold recover it. The sharing works in Z_q, so what the shares
// carry is the residue key mod q; every signing equation uses the key
// through that residue only, making the recovered key interchangeable
// with the original.
func SplitPrivateKey(params *DomainParameters, key *big.Int, threshold, numShares int) ([]Share, error) {
	const op = "SplitPrivateKey"
	if params == nil {
		return nil, newInvalidParameter(op, "nil parameters")
	}
	if key == nil || key.Sign() <= 0 {
		return nil, newInvalidParameter(op, "private key must be a positive integer")
	}
	if threshold < 1 {
		return nil, newInvalidParameter(op, "threshold must be at least 1, got %d", threshold)
	}
	if numShares < threshold {
		return nil, newInvalidParameter(op, "share count %d below threshold %d", numShares, threshold)
	}
	if numShares > maxShares {
		return nil, newInvalidParameter(op, "share count %d exceeds maximum %d", numShares, maxShares)
	}

	coeffs := make([]*big.Int, threshold)
	coeffs[0] = new(big.Int).Mod(key, params.q)
	for i := 1; i < threshold; i++ {
		c, err := params.RandomScalar()
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}
	defer func() {
		for _, c := range coeffs {
			zeroizeBig(c)
		}
	}()

	shares := make([]Share, numShares)
	x := new(big.Int)
	for i := 1; i <= numShares; i++ {
		x.SetInt64(int64(i))
		shares[i-1] = Share{Index: i, Value: evalPoly(coeffs, x, params.q)}
	}
	return shares, nil
}

// RecoverPrivateKey rebuilds the key residue mod q from at least
// threshold distinct shares via Lagrange interpolation at zero.
func RecoverPrivateKey(params *DomainParameters, shares []Share, threshold int) (*big.Int, error) {
	const op = "RecoverPrivateKey"
	if params == nil {
		return nil, newInvalidParameter(op, "nil parameters")
	}
	if threshold < 1 {
		return nil, newInvalidParameter(op, "threshold must be at least 1, got %d", threshold)
	}
	if len(shares) < threshold {
		return nil, newInvalidParameter(op, "need %d shares, got %d", threshold, len(shares))
	}
	seen := make(map[int]bool, len(shares))
	for _, s := range shares {
		if s.Value == nil {
			return nil, newInvalidParameter(op, "share %d has no value", s.Index)
		}
		if s.Index < 1 || s.Index > maxShares {
			return nil, newInvalidParameter(op, "share index %d out of range", s.Index)
		}
		if seen[s.Index] {
			return nil, newInvalidParameter(op, "duplicate share index %d", s.Index)
		}
		seen[s.Index] = true
	}

	use := shares[:threshold]
	secret := new(big.Int)
	num := new(big.Int)
	den := new(big.Int)
	xj := new(big.Int)
	xm := new(big.Int)
	for j, sj := range use {
		xj.SetInt64(int64(sj.Index))
		num.SetInt64(1)
		den.SetInt64(1)
		for m, sm := range use {
			if m == j {
				continue
			}
			xm.SetInt64(int64(sm.Index))
			num.Mul(num, xm)
			num.Mod(num, params.q)
			diff := new(big.Int).Sub(xm, xj)
			den.Mul(den, diff.Mod(diff, params.q))
			den.Mod(den, params.q)
		}
		denInv, err := ModInverse(den, params.q)
		if err != nil {
			return nil, err
		}
		term := new(big.Int).Mul(sj.Value, num)
		term.Mod(term, params.q)
		term.Mul(term, denInv)
		secret.Add(secret, term.Mod(term, params.q))
		secret.Mod(secret, params.q)
	}
	return secret, nil
}

// VerifyShares cross-checks a share set: every size-threshold window must
// reconstruct the same secret. Quadratic in the share count, meant for
// post-split sanity checks, not hot paths.
func VerifyShares(params *DomainParameters, shares []Share, threshold int) error {
	const op = "VerifyShares"
	first, err := RecoverPrivateKey(params, shares, threshold)
	if err != nil {
		return err
	}
	for start := 1; start+threshold <= len(shares); start++ {
		window := shares[start : start+threshold]
		got, err := RecoverPrivateKey(params, window, threshold)
		if err != nil {
			return err
		}
		if got.Cmp(first) != 0 {
			return newProtocolViolation(op, "shares %d..%d disagree with the first window",
				window[0].Index, window[threshold-1].Index)
		}
	}
	return nil
}

// evalPoly evaluates the polynomial with the given coefficients at x over
// Z_mod, constant term first, by Horner's rule.
func evalPoly(coeffs []*big.Int, x, mod *big.Int) *big.Int {
	r := new(big.Int)
	for i := len(coeffs) - 1; i >= 0; i-- {
		r.Mul(r, x)
		r.Add(r, coeffs[i])
		r.Mod(r, mod)
	}
	return r
}
