package gostblind

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"
)

// MinParameterBits is the smallest supported modulus size. Anything this
// small is test-grade only; see ValidateDomainParameters for grading.
const MinParameterBits = 64

// lcgMultiplier drives the 16-bit seed recurrence of the GOST R 34.10-94
// parameter procedure.
const lcgMultiplier = 19381

// ParameterGenerator runs the descending prime-chain construction of
// GOST R 34.10-94: target bit lengths halve down to a small seed prime,
// then each level is lifted to a certified prime of the form
// p = prev*(n+k) + 1, and finally a generator of the order-q subgroup is
// drawn.
type ParameterGenerator struct {
	bits int
	sink EventSink
}

// GeneratorOption configures a ParameterGenerator.
type GeneratorOption func(*ParameterGenerator)

// WithEventSink routes trace events to sink.
func WithEventSink(sink EventSink) GeneratorOption {
	return func(g *ParameterGenerator) {
		if sink != nil {
			g.sink = sink
		}
	}
}

// NewParameterGenerator validates the target modulus size and prepares a
// generator. bits must be at least MinParameterBits.
func NewParameterGenerator(bits int, opts ...GeneratorOption) (*ParameterGenerator, error) {
	const op = "NewParameterGenerator"
	if bits < MinParameterBits {
		return nil, newInvalidParameter(op, "bit length %d below minimum %d", bits, MinParameterBits)
	}
	g := &ParameterGenerator{bits: bits, sink: NullSink{}}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// GenerateParameters builds a fresh parameter set of the given modulus
// size. It is shorthand for NewParameterGenerator followed by Generate.
func GenerateParameters(ctx context.Context, bits int, opts ...GeneratorOption) (*DomainParameters, error) {
	g, err := NewParameterGenerator(bits, opts...)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx)
}

// Generate runs the chain construction. The search loops have no failure
// path of their own; they stop only through ctx or an entropy failure.
func (g *ParameterGenerator) Generate(ctx context.Context) (*DomainParameters, error) {
	start := time.Now()
	chain := bitChain(g.bits)
	last := len(chain) - 1
	primes := make([]*big.Int, len(chain))

	seed, err := LowestPrime(ctx, chain[last])
	if err != nil {
		return nil, err
	}
	primes[last] = seed
	g.sink.Event(Event{Type: EventSeedPrime, Time: time.Now(), Level: last, Bits: chain[last]})
	logger.Debugf("parameter chain seeded with a %d-bit prime", chain[last])

	for i := last - 1; i >= 0; i-- {
		p, err := g.liftLevel(ctx, chain[i], primes[i+1], i)
		if err != nil {
			return nil, err
		}
		primes[i] = p
	}

	a, draws, err := g.findGenerator(ctx, primes[0], primes[1])
	if err != nil {
		return nil, err
	}
	g.sink.Event(Event{Type: EventGeneratorFound, Time: time.Now(), Attempts: draws})

	params, err := NewDomainParameters(primes[0], primes[1], a)
	if err != nil {
		return nil, err
	}
	g.sink.Event(Event{Type: EventParametersReady, Time: time.Now(), Elapsed: time.Since(start)})
	logger.Debugf("generated %s in %v", params, time.Since(start))
	return params, nil
}

// bitChain lists the target bit lengths from the modulus down: each next
// level is ceil(t/2), and the chain stops before dropping to 16 bits or
// below. For any bits >= MinParameterBits the chain has at least two
// levels, so the subgroup order is the level-1 prime.
func bitChain(bits int) []int {
	chain := []int{bits}
	for t := bits; ; {
		t = (t + 1) / 2
		if t <= 16 {
			break
		}
		chain = append(chain, t)
	}
	return chain
}

// liftLevel searches for a prime of the target bit length of the form
// prev*(n+k)+1, k = 0, 2, 4, ... Acceptance is the certificate pair
// 2^(prev*(n+k)) ≡ 1 and 2^(n+k) ≠ 1 (mod candidate), which by
// Pocklington's criterion proves primality given prev prime. When the
// candidate would outgrow 2^bits the level draws a fresh seed and starts
// over.
func (g *ParameterGenerator) liftLevel(ctx context.Context, bits int, prev *big.Int, level int) (*big.Int, error) {
	const op = "liftLevel"
	lo := new(big.Int).Lsh(bigOne, uint(bits-1))
	hi := new(big.Int).Lsh(bigOne, uint(bits))
	step := new(big.Int).Mul(prev, bigTwo)
	attempts := 0
	for restarts := 0; ; restarts++ {
		if err := checkCancel(ctx, op); err != nil {
			return nil, err
		}
		n, err := candidateBase(lo, prev, bits)
		if err != nil {
			return nil, err
		}
		nk := new(big.Int).Set(n)
		cand := new(big.Int).Mul(prev, n)
		cand.Add(cand, bigOne)
		for cand.Cmp(hi) < 0 {
			if err := checkCancel(ctx, op); err != nil {
				return nil, err
			}
			attempts++
			if certified(cand, prev, nk) {
				g.sink.Event(Event{
					Type: EventChainPrime, Time: time.Now(),
					Level: level, Bits: bits, Attempts: attempts, Restarts: restarts,
				})
				logger.Debugf("level %d: %d-bit prime after %d candidates, %d restarts",
					level, bits, attempts, restarts)
				return cand, nil
			}
			nk.Add(nk, bigTwo)
			cand.Add(cand, step)
		}
		g.sink.Event(Event{Type: EventSeedRestart, Time: time.Now(), Level: level, Bits: bits})
	}
}

// certified checks the two-condition primality certificate for
// cand = prev*nk + 1.
func certified(cand, prev, nk *big.Int) bool {
	e := new(big.Int).Mul(prev, nk)
	if new(big.Int).Exp(bigTwo, e, cand).Cmp(bigOne) != 0 {
		return false
	}
	return new(big.Int).Exp(bigTwo, nk, cand).Cmp(bigOne) != 0
}

// candidateBase derives the even starting multiplier for one level: the
// least multiplier whose product with prev clears lo = 2^(bits-1), plus a
// seeded offset spreading candidates over the rest of the range.
func candidateBase(lo, prev *big.Int, bits int) (*big.Int, error) {
	blocks := (bits + 15) / 16
	y, err := seedValue(blocks)
	if err != nil {
		return nil, err
	}
	n, rem := new(big.Int).DivMod(lo, prev, new(big.Int))
	if rem.Sign() != 0 {
		n.Add(n, bigOne)
	}
	spread := new(big.Int).Mul(lo, y)
	den := new(big.Int).Lsh(prev, uint(16*blocks))
	spread.Div(spread, den)
	n.Add(n, spread)
	if n.Bit(0) == 1 {
		n.Add(n, bigOne)
	}
	return n, nil
}

// seedValue expands two fresh crypto-random 16-bit values through the
// linear congruential recurrence next = (19381*prev + c) mod 2^16 and
// concatenates the produced blocks, block i sitting at bit 16*i.
func seedValue(blocks int) (*big.Int, error) {
	var raw [4]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return nil, newRandomSource("seedValue", err)
	}
	x := uint32(raw[0])<<8 | uint32(raw[1])
	c := uint32(raw[2])<<8 | uint32(raw[3]) | 1
	y := new(big.Int)
	block := new(big.Int)
	for i := 0; i < blocks; i++ {
		x = (lcgMultiplier*x + c) & 0xFFFF
		block.SetUint64(uint64(x))
		block.Lsh(block, uint(16*i))
		y.Or(y, block)
	}
	return y, nil
}

// findGenerator draws random group elements f and keeps a = f^((p-1)/q)
// mod p, retrying while the power collapses to 1.
func (g *ParameterGenerator) findGenerator(ctx context.Context, p, q *big.Int) (*big.Int, int, error) {
	const op = "findGenerator"
	e := new(big.Int).Sub(p, bigOne)
	e.Div(e, q)
	for draws := 1; ; draws++ {
		if err := checkCancel(ctx, op); err != nil {
			return nil, 0, err
		}
		f, err := RandomInRange(p)
		if err != nil {
			return nil, 0, err
		}
		a := new(big.Int).Exp(f, e, p)
		if a.Cmp(bigOne) != 0 {
			return a, draws, nil
		}
	}
}
