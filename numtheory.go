package gostblind

import (
	"context"
	"crypto/rand"
	"math/big"
)

var (
	bigOne    = big.NewInt(1)
	bigTwo    = big.NewInt(2)
	bigThree  = big.NewInt(3)
	bigFive   = big.NewInt(5)
	bigTwelve = big.NewInt(12)
)

// probablyPrimeRounds is the Miller-Rabin round count used wherever a
// candidate needs confirmation; math/big adds a Baillie-PSW pass on top.
const probablyPrimeRounds = 20

// checkCancel translates a cancelled context into a structured error.
func checkCancel(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return &Error{Kind: KindCancelled, Op: op, Message: "cancelled", Cause: err}
	}
	return nil
}

// ExtendedGCD returns g, x, y with a*x + b*y = g = gcd(a, b). The loop is
// the plain iterative Euclid; inputs must be non-negative.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	r0, r1 := new(big.Int).Set(a), new(big.Int).Set(b)
	x0, x1 := big.NewInt(1), big.NewInt(0)
	y0, y1 := big.NewInt(0), big.NewInt(1)
	q := new(big.Int)
	t := new(big.Int)
	for r1.Sign() != 0 {
		q.Div(r0, r1)
		t.Mul(q, r1)
		r0.Sub(r0, t)
		r0, r1 = r1, r0
		t.Mul(q, x1)
		x0.Sub(x0, t)
		x0, x1 = x1, x0
		t.Mul(q, y1)
		y0.Sub(y0, t)
		y0, y1 = y1, y0
	}
	return r0, x0, y0
}

// ModInverse returns the multiplicative inverse of a modulo m, normalized
// into [0, m). It fails with ErrNotInvertible when gcd(a, m) != 1 and with
// ErrInvalidParameter when m < 2.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	const op = "ModInverse"
	if m == nil || m.Cmp(bigTwo) < 0 {
		return nil, newInvalidParameter(op, "modulus must be at least 2")
	}
	if a == nil {
		return nil, newInvalidParameter(op, "value must not be nil")
	}
	red := new(big.Int).Mod(a, m)
	g, x, _ := ExtendedGCD(red, m)
	if g.Cmp(bigOne) != 0 {
		return nil, newNotInvertible(op, "gcd(%s, %s) = %s", red, m, g)
	}
	return x.Mod(x, m), nil
}

// RandomInRange draws a value from the open interval (0, upper) using the
// system CSPRNG. The byte length of the candidate is itself drawn at
// random from [1, len(upper-1)] so that short values are as likely as
// full-width ones; candidates outside the interval are rejected and the
// draw repeats.
func RandomInRange(upper *big.Int) (*big.Int, error) {
	const op = "RandomInRange"
	if upper == nil || upper.Cmp(bigTwo) < 0 {
		return nil, newInvalidParameter(op, "upper bound must exceed 1")
	}
	maxLen := int64(len(new(big.Int).Sub(upper, bigOne).Bytes()))
	for {
		pick, err := rand.Int(rand.Reader, big.NewInt(maxLen))
		if err != nil {
			return nil, newRandomSource(op, err)
		}
		buf := make([]byte, pick.Int64()+1)
		if _, err := rand.Read(buf); err != nil {
			return nil, newRandomSource(op, err)
		}
		v := new(big.Int).SetBytes(buf)
		if v.Sign() > 0 && v.Cmp(upper) < 0 {
			return v, nil
		}
	}
}

// LowestPrime returns the smallest prime p with 2^(bits-1) <= p < 2^bits.
// Candidates walk upward from 2^(bits-1)+1 on a 2-3-5 wheel, are screened
// by the quadratic-form conditions of the sieve of Atkin and the survivors
// confirmed with ProbablyPrime. The wheel never reports 5 itself, so for
// bits = 3 the answer is 7. bits must be at least 3.
//
// The form scan costs O(2^(bits/2)) per candidate; the function is meant
// for the small seed sizes of the parameter chain.
func LowestPrime(ctx context.Context, bits int) (*big.Int, error) {
	const op = "LowestPrime"
	if bits < 3 {
		return nil, newInvalidParameter(op, "bit length %d below minimum 3", bits)
	}
	hi := new(big.Int).Lsh(bigOne, uint(bits))
	cand := new(big.Int).Lsh(bigOne, uint(bits-1))
	cand.Add(cand, bigOne)
	m := new(big.Int)
	for ; cand.Cmp(hi) < 0; cand.Add(cand, bigTwo) {
		if err := checkCancel(ctx, op); err != nil {
			return nil, err
		}
		if m.Mod(cand, bigThree).Sign() == 0 || m.Mod(cand, bigFive).Sign() == 0 {
			continue
		}
		if !atkinCandidate(cand) {
			continue
		}
		if cand.ProbablyPrime(probablyPrimeRounds) {
			return cand, nil
		}
	}
	return nil, newInvalidParameter(op, "no acceptable prime below 2^%d", bits)
}

// atkinCandidate screens an odd candidate coprime to 15 with the residue
// and form conditions of the sieve of Atkin: 4x²+y² for n ≡ 1 (mod 4),
// 3x²+y² for n ≡ 1 (mod 6), 3x²-y² with x > y for n ≡ 11 (mod 12).
// A representation is necessary for primality but not sufficient, which
// is why LowestPrime confirms survivors.
func atkinCandidate(n *big.Int) bool {
	switch new(big.Int).Mod(n, bigTwelve).Int64() {
	case 1:
		return hasQuadForm(n, 4) || hasQuadForm(n, 3)
	case 5:
		return hasQuadForm(n, 4)
	case 7:
		return hasQuadForm(n, 3)
	case 11:
		return hasPellForm(n)
	}
	return false
}

// hasQuadForm reports whether n = c*x² + y² for some x, y >= 1.
func hasQuadForm(n *big.Int, c int64) bool {
	cc := big.NewInt(c)
	rest := new(big.Int)
	for x := big.NewInt(1); ; x.Add(x, bigOne) {
		rest.Mul(x, x)
		rest.Mul(rest, cc)
		rest.Sub(n, rest)
		if rest.Sign() <= 0 {
			return false
		}
		if isSquare(rest) {
			return true
		}
	}
}

// hasPellForm reports whether n = 3x² - y² for some x > y >= 1. The
// constraints pin x between sqrt(n/3) and sqrt(n/2).
func hasPellForm(n *big.Int) bool {
	x := new(big.Int).Div(n, bigThree)
	x.Sqrt(x)
	limit := new(big.Int).Div(n, bigTwo)
	limit.Sqrt(limit)
	y2 := new(big.Int)
	for ; x.Cmp(limit) <= 0; x.Add(x, bigOne) {
		y2.Mul(x, x)
		y2.Mul(y2, bigThree)
		y2.Sub(y2, n)
		if y2.Sign() <= 0 {
			continue
		}
		if isSquare(y2) {
			return true
		}
	}
	return false
}

func isSquare(n *big.Int) bool {
	rt := new(big.Int).Sqrt(n)
	rt.Mul(rt, rt)
	return rt.Cmp(n) == 0
}
