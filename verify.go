package gostblind

import (
	"math/big"
	"strings"
)

// Verify checks a collective blind signature against a document digest
// and its verification record. It is a pure predicate: malformed or
// out-of-range inputs yield false, never an error or panic.
//
// The accepted equation is
//
//	((y^-1)^(r*H^-1) * a^(s*H^-1) mod p) mod q == r
//
// with the exponents taken as plain integer products, not reduced mod q.
func Verify(digest *big.Int, sig *Signature, record *VerificationRecord) bool {
	if digest == nil || digest.Sign() < 0 {
		return false
	}
	if sig == nil || sig.R == nil || sig.S == nil || sig.R.Sign() < 0 || sig.S.Sign() < 0 {
		return false
	}
	if record == nil || record.Y == nil || record.A == nil || record.P == nil || record.Q == nil {
		return false
	}
	p, q, a, y := record.P, record.Q, record.A, record.Y
	if p.Cmp(bigThree) < 0 || p.Bit(0) == 0 {
		return false
	}
	if q.Cmp(bigTwo) < 0 || q.Cmp(p) >= 0 {
		return false
	}
	if a.Cmp(bigOne) <= 0 || a.Cmp(p) >= 0 {
		return false
	}
	if y.Sign() <= 0 || y.Cmp(p) >= 0 {
		return false
	}
	if sig.R.Cmp(q) >= 0 || sig.S.Cmp(q) >= 0 {
		return false
	}

	hInv, err := ModInverse(digest, q)
	if err != nil {
		return false
	}
	yInv, err := ModInverse(y, p)
	if err != nil {
		return false
	}

	e1 := new(big.Int).Mul(sig.R, hInv)
	e2 := new(big.Int).Mul(sig.S, hInv)
	v := new(big.Int).Exp(yInv, e1, p)
	v.Mul(v, new(big.Int).Exp(a, e2, p))
	v.Mod(v, p)
	v.Mod(v, q)
	return v.Cmp(sig.R) == 0
}

// AuditCollectiveKey reports whether the record's collective key equals
// the product of its participant keys mod p. Verify does not require
// this; callers that care who signed should. A record that announces no
// participant keys makes no claim, so it audits as true.
func (vr *VerificationRecord) AuditCollectiveKey() bool {
	if vr == nil || vr.Y == nil || vr.P == nil {
		return false
	}
	if vr.P.Cmp(bigThree) < 0 {
		return false
	}
	if len(vr.PublicKeys) == 0 {
		return true
	}
	y := new(big.Int).SetInt64(1)
	for _, pub := range vr.PublicKeys {
		if pub == nil || pub.Sign() <= 0 || pub.Cmp(vr.P) >= 0 {
			return false
		}
		y.Mul(y, pub)
		y.Mod(y, vr.P)
	}
	return y.Cmp(vr.Y) == 0
}

// VerifyEncoded parses a wire-format signature and record and verifies
// them against the digest. Parse failures verify as false.
func VerifyEncoded(digest *big.Int, sigText, recordText string) bool {
	sig, err := ParseSignature(strings.NewReader(sigText))
	if err != nil {
		logger.Debugf("signature rejected: %v", err)
		return false
	}
	record, err := ParseRecord(strings.NewReader(recordText))
	if err != nil {
		logger.Debugf("record rejected: %v", err)
		return false
	}
	return Verify(digest, sig, record)
}
