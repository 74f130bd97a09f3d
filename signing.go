package gostblind

import (
	"context"
	"math/big"

	"golang.org/x/sync/errgroup"
)

type sessionStage int

const (
	stageNew sessionStage = iota
	stageCommitted
	stageChallenged
	stageDone
)

// participant is one signer's per-session state. The nonce k lives only
// between the commitment round and the share round.
type participant struct {
	keyPair    *KeyPair
	k          *big.Int
	rho        *big.Int
	commitment nonceCommitment
	share      *big.Int
}

// contribute draws the session nonce k in [1, q), announces rho = a^k
// mod p and binds it with a commitment.
func (pt *participant) contribute(params *DomainParameters, index int) error {
	k, err := params.RandomScalar()
	if err != nil {
		return err
	}
	pt.k = k
	pt.rho = params.powA(k)
	pt.commitment = commitNonce(index, pt.rho)
	return nil
}

// finalizeShare computes s = (k + x*rLink) mod q and retires the nonce.
func (pt *participant) finalizeShare(params *DomainParameters, rLink *big.Int) {
	s := new(big.Int).Mod(pt.keyPair.private, params.q)
	s.Mul(s, rLink)
	s.Add(s, pt.k)
	s.Mod(s, params.q)
	pt.share = s
	zeroizeBig(pt.k)
	pt.k = nil
}

// SigningSession drives one collective blind signature: a commitment
// round where every signer announces a nonce power, a challenge round
// where the requester blinds the aggregate and links in the document
// digest, and a share round where the signers' responses fold into the
// final signature. Rounds must run in order; each may run once.
type SigningSession struct {
	params       *DomainParameters
	digest       *big.Int
	participants []*participant
	stage        sessionStage

	y         *big.Int
	rho       *big.Int
	eps       *big.Int
	rLink     *big.Int
	firstPart *big.Int
}

// NewSigningSession prepares a session for the given signers and document
// digest. The digest must be positive; a digest with no inverse modulo
// the subgroup order surfaces later, in the challenge round.
func NewSigningSession(params *DomainParameters, keyPairs []*KeyPair, digest *big.Int) (*SigningSession, error) {
	const op = "NewSigningSession"
	if params == nil {
		return nil, newInvalidParameter(op, "nil parameters")
	}
	if len(keyPairs) == 0 {
		return nil, newInvalidParameter(op, "at least one signer is required")
	}
	if digest == nil || digest.Sign() <= 0 {
		return nil, newInvalidParameter(op, "digest must be a positive integer")
	}
	publics := make([]*big.Int, len(keyPairs))
	participants := make([]*participant, len(keyPairs))
	for i, kp := range keyPairs {
		if kp == nil || kp.private == nil {
			return nil, newInvalidParameter(op, "signer %d has no key pair", i+1)
		}
		publics[i] = kp.public
		participants[i] = &participant{keyPair: kp}
	}
	y, err := AggregatePublicKey(params, publics)
	if err != nil {
		return nil, err
	}
	return &SigningSession{
		params:       params,
		digest:       new(big.Int).Set(digest),
		participants: participants,
		y:            y,
	}, nil
}

// CollectiveKey returns a copy of the aggregated public key.
func (ss *SigningSession) CollectiveKey() *big.Int {
	return new(big.Int).Set(ss.y)
}

// CommitmentRound has every signer draw a nonce and announce rho = a^k.
// The per-signer exponentiations run concurrently. Reveals are checked
// against the commitments before the aggregate rho is formed.
func (ss *SigningSession) CommitmentRound(ctx context.Context) error {
	const op = "CommitmentRound"
	if ss.stage != stageNew {
		return newProtocolViolation(op, "commitment round already completed")
	}
	g, gctx := errgroup.WithContext(ctx)
	for i, pt := range ss.participants {
		i, pt := i, pt
		g.Go(func() error {
			if err := checkCancel(gctx, op); err != nil {
				return err
			}
			return pt.contribute(ss.params, i+1)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ss.verifyReveals(); err != nil {
		return err
	}
	rho := new(big.Int).Set(bigOne)
	for _, pt := range ss.participants {
		rho.Mul(rho, pt.rho)
		rho.Mod(rho, ss.params.p)
	}
	ss.rho = rho
	ss.stage = stageCommitted
	logger.Debugf("commitment round done with %d signers", len(ss.participants))
	return nil
}

// verifyReveals rechecks every announced rho against its commitment.
func (ss *SigningSession) verifyReveals() error {
	const op = "CommitmentRound"
	for i, pt := range ss.participants {
		if pt.rho == nil || !pt.commitment.verify(i+1, pt.rho) {
			return newProtocolViolation(op, "signer %d revealed a value that does not match its commitment", i+1)
		}
	}
	return nil
}

// ChallengeRound blinds the aggregate commitment with fresh u and eps,
// fixes the signature's first part, and derives the challenge
// rLink = (firstPart * digest^-1 + u) mod q handed to the signers. A
// digest that is not invertible modulo q fails here.
func (ss *SigningSession) ChallengeRound() error {
	const op = "ChallengeRound"
	if ss.stage != stageCommitted {
		return newProtocolViolation(op, "challenge round requires a completed commitment round")
	}
	u, err := ss.params.RandomScalar()
	if err != nil {
		return err
	}
	eps, err := ss.params.RandomScalar()
	if err != nil {
		return err
	}

	blinded := new(big.Int).Exp(ss.y, u, ss.params.p)
	blinded.Mul(blinded, ss.rho)
	blinded.Mod(blinded, ss.params.p)
	blinded.Mul(blinded, ss.params.powA(eps))
	blinded.Mod(blinded, ss.params.p)
	firstPart := new(big.Int).Mod(blinded, ss.params.q)

	hInv, err := ModInverse(ss.digest, ss.params.q)
	if err != nil {
		return err
	}
	rLink := new(big.Int).Mul(firstPart, hInv)
	rLink.Add(rLink, u)
	rLink.Mod(rLink, ss.params.q)
	zeroizeBig(u)

	ss.eps = eps
	ss.firstPart = firstPart
	ss.rLink = rLink
	ss.stage = stageChallenged
	return nil
}

// ShareRound collects the signers' responses s_i = (k_i + x_i*rLink)
// mod q, folds them into the second signature part, and checks the
// finished signature before handing it out.
func (ss *SigningSession) ShareRound(ctx context.Context) (*Signature, *VerificationRecord, error) {
	const op = "ShareRound"
	if ss.stage != stageChallenged {
		return nil, nil, newProtocolViolation(op, "share round requires a completed challenge round")
	}
	if err := checkCancel(ctx, op); err != nil {
		return nil, nil, err
	}
	for _, pt := range ss.participants {
		pt.finalizeShare(ss.params, ss.rLink)
	}
	// Nonces are spent now; the round cannot run again either way.
	ss.stage = stageDone

	sum := new(big.Int)
	for _, pt := range ss.participants {
		sum.Add(sum, pt.share)
		sum.Mod(sum, ss.params.q)
	}
	sum.Add(sum, ss.eps)
	sum.Mod(sum, ss.params.q)
	secondPart := new(big.Int).Mod(ss.digest, ss.params.q)
	secondPart.Mul(secondPart, sum)
	secondPart.Mod(secondPart, ss.params.q)
	zeroizeBig(ss.eps)
	ss.eps = nil

	sig := &Signature{
		R: new(big.Int).Set(ss.firstPart),
		S: secondPart,
	}
	record := ss.buildRecord()
	if !Verify(ss.digest, sig, record) {
		return nil, nil, newProtocolViolation(op, "produced signature failed verification")
	}
	logger.Debugf("signature complete: R %d bits, S %d bits", sig.R.BitLen(), sig.S.BitLen())
	return sig, record, nil
}

func (ss *SigningSession) buildRecord() *VerificationRecord {
	publics := make([]*big.Int, len(ss.participants))
	for i, pt := range ss.participants {
		publics[i] = new(big.Int).Set(pt.keyPair.public)
	}
	return &VerificationRecord{
		Y:          new(big.Int).Set(ss.y),
		A:          ss.params.A(),
		P:          ss.params.P(),
		Q:          ss.params.Q(),
		PublicKeys: publics,
	}
}

// Execute runs the three rounds back to back.
func (ss *SigningSession) Execute(ctx context.Context) (*Signature, *VerificationRecord, error) {
	if err := ss.CommitmentRound(ctx); err != nil {
		return nil, nil, err
	}
	if err := ss.ChallengeRound(); err != nil {
		return nil, nil, err
	}
	return ss.ShareRound(ctx)
}

// Zeroize wipes whatever secret round state the session still holds.
// Abandoned sessions should call it.
func (ss *SigningSession) Zeroize() {
	for _, pt := range ss.participants {
		if pt.k != nil {
			zeroizeBig(pt.k)
			pt.k = nil
		}
	}
	if ss.eps != nil {
		zeroizeBig(ss.eps)
		ss.eps = nil
	}
}

// Sign runs a full collective blind signing session over the digest and
// returns the signature with its verification record.
func Sign(ctx context.Context, params *DomainParameters, keyPairs []*KeyPair, digest *big.Int) (*Signature, *VerificationRecord, error) {
	ss, err := NewSigningSession(params, keyPairs, digest)
	if err != nil {
		return nil, nil, err
	}
	defer ss.Zeroize()
	return ss.Execute(ctx)
}
