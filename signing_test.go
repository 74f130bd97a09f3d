package gostblind

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
)

func TestCollectiveBlindSigning(t *testing.T) {
	params := testParams(t)
	ctx := context.Background()

	t.Log("Issuing key pairs for three signers...")
	keyPairs := make([]*KeyPair, 3)
	for i := range keyPairs {
		kp, err := IssueKeyPair(params)
		if err != nil {
			t.Fatalf("Failed to issue key pair %d: %v", i+1, err)
		}
		keyPairs[i] = kp
	}

	digest := big.NewInt(12345)
	session, err := NewSigningSession(params, keyPairs, digest)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	t.Log("Running commitment round...")
	if err := session.CommitmentRound(ctx); err != nil {
		t.Fatalf("Commitment round failed: %v", err)
	}

	t.Log("Running challenge round...")
	if err := session.ChallengeRound(); err != nil {
		t.Fatalf("Challenge round failed: %v", err)
	}

	t.Log("Running share round...")
	sig, record, err := session.ShareRound(ctx)
	if err != nil {
		t.Fatalf("Share round failed: %v", err)
	}

	if !Verify(digest, sig, record) {
		t.Fatal("Signature did not verify")
	}
	if !Verify(digest, sig, record) {
		t.Fatal("Verification is not repeatable")
	}
	if !record.AuditCollectiveKey() {
		t.Fatal("Record's collective key does not match its participant keys")
	}
	if sig.R.Cmp(params.Q()) >= 0 || sig.S.Cmp(params.Q()) >= 0 {
		t.Fatalf("Signature parts escaped Z_q: R=%s S=%s", sig.R, sig.S)
	}

	t.Run("TamperedSignature", func(t *testing.T) {
		bad := &Signature{R: new(big.Int).Add(sig.R, big.NewInt(1)), S: new(big.Int).Set(sig.S)}
		if Verify(digest, bad, record) {
			t.Fatal("Accepted a tampered R")
		}
		bad = &Signature{R: new(big.Int).Set(sig.R), S: new(big.Int).Add(sig.S, big.NewInt(1))}
		if Verify(digest, bad, record) {
			t.Fatal("Accepted a tampered S")
		}
	})

	t.Run("TamperedRecord", func(t *testing.T) {
		tampered := &VerificationRecord{
			Y: new(big.Int).Add(record.Y, big.NewInt(1)),
			A: record.A, P: record.P, Q: record.Q,
			PublicKeys: record.PublicKeys,
		}
		if Verify(digest, sig, tampered) {
			t.Fatal("Accepted a tampered collective key")
		}
	})

	t.Run("WrongDigest", func(t *testing.T) {
		if Verify(big.NewInt(12346), sig, record) {
			t.Fatal("Accepted the signature for a different document")
		}
	})

	t.Run("WireRoundTrip", func(t *testing.T) {
		var sigText, recordText strings.Builder
		if err := sig.Encode(&sigText); err != nil {
			t.Fatalf("Failed to encode signature: %v", err)
		}
		if err := record.Encode(&recordText); err != nil {
			t.Fatalf("Failed to encode record: %v", err)
		}
		if !VerifyEncoded(digest, sigText.String(), recordText.String()) {
			t.Fatal("Encoded signature did not verify")
		}
		if VerifyEncoded(digest, "garbage", recordText.String()) {
			t.Fatal("Accepted a garbage signature")
		}
		if VerifyEncoded(digest, sigText.String(), "garbage") {
			t.Fatal("Accepted a garbage record")
		}
	})

	t.Log("✅ Collective blind signature verified against the collective key")
}

func TestSingleSignerSession(t *testing.T) {
	params := testParams(t)
	kp, err := IssueKeyPair(params)
	if err != nil {
		t.Fatalf("Failed to issue key pair: %v", err)
	}

	digest := big.NewInt(777)
	sig, record, err := Sign(context.Background(), params, []*KeyPair{kp}, digest)
	if err != nil {
		t.Fatalf("Signing failed: %v", err)
	}
	if !Verify(digest, sig, record) {
		t.Fatal("Single-signer signature did not verify")
	}
	if record.Y.Cmp(kp.Public()) != 0 {
		t.Fatal("Collective key of one signer must be that signer's key")
	}
}

func TestSessionRoundOrder(t *testing.T) {
	params := testParams(t)
	kp, err := IssueKeyPair(params)
	if err != nil {
		t.Fatalf("Failed to issue key pair: %v", err)
	}
	ctx := context.Background()

	t.Run("ChallengeBeforeCommitment", func(t *testing.T) {
		session, err := NewSigningSession(params, []*KeyPair{kp}, big.NewInt(1))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if err := session.ChallengeRound(); !errors.Is(err, ErrProtocolViolation) {
			t.Fatalf("Expected protocol violation, got %v", err)
		}
	})

	t.Run("ShareBeforeChallenge", func(t *testing.T) {
		session, err := NewSigningSession(params, []*KeyPair{kp}, big.NewInt(1))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if err := session.CommitmentRound(ctx); err != nil {
			t.Fatalf("Commitment round failed: %v", err)
		}
		if _, _, err := session.ShareRound(ctx); !errors.Is(err, ErrProtocolViolation) {
			t.Fatalf("Expected protocol violation, got %v", err)
		}
	})

	t.Run("DoubleCommitment", func(t *testing.T) {
		session, err := NewSigningSession(params, []*KeyPair{kp}, big.NewInt(1))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if err := session.CommitmentRound(ctx); err != nil {
			t.Fatalf("Commitment round failed: %v", err)
		}
		if err := session.CommitmentRound(ctx); !errors.Is(err, ErrProtocolViolation) {
			t.Fatalf("Expected protocol violation, got %v", err)
		}
	})

	t.Run("NoReuseAfterDone", func(t *testing.T) {
		session, err := NewSigningSession(params, []*KeyPair{kp}, big.NewInt(1))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if _, _, err := session.Execute(ctx); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if _, _, err := session.ShareRound(ctx); !errors.Is(err, ErrProtocolViolation) {
			t.Fatalf("Expected protocol violation on rerun, got %v", err)
		}
	})
}

func TestSessionRejects(t *testing.T) {
	params := testParams(t)
	kp, err := IssueKeyPair(params)
	if err != nil {
		t.Fatalf("Failed to issue key pair: %v", err)
	}

	if _, err := NewSigningSession(nil, []*KeyPair{kp}, big.NewInt(1)); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Expected invalid parameter for nil params, got %v", err)
	}
	if _, err := NewSigningSession(params, nil, big.NewInt(1)); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Expected invalid parameter for empty signers, got %v", err)
	}
	if _, err := NewSigningSession(params, []*KeyPair{kp, nil}, big.NewInt(1)); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Expected invalid parameter for nil signer, got %v", err)
	}
	if _, err := NewSigningSession(params, []*KeyPair{kp}, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Expected invalid parameter for nil digest, got %v", err)
	}
	if _, err := NewSigningSession(params, []*KeyPair{kp}, big.NewInt(-5)); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Expected invalid parameter for negative digest, got %v", err)
	}
	if _, err := NewSigningSession(params, []*KeyPair{kp}, big.NewInt(0)); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Expected invalid parameter for zero digest, got %v", err)
	}
}

func TestDigestNotInvertible(t *testing.T) {
	params := testParams(t)
	kp, err := IssueKeyPair(params)
	if err != nil {
		t.Fatalf("Failed to issue key pair: %v", err)
	}

	// Positive multiples of q pass construction but have no inverse mod
	// q, so the challenge round must fail.
	for _, digest := range []*big.Int{params.Q(), new(big.Int).Lsh(params.Q(), 1)} {
		_, _, err := Sign(context.Background(), params, []*KeyPair{kp}, digest)
		if !errors.Is(err, ErrNotInvertible) {
			t.Fatalf("Expected not-invertible for digest %s, got %v", digest, err)
		}
	}
}

func TestCommitmentRevealMismatch(t *testing.T) {
	params := testParams(t)
	keyPairs := make([]*KeyPair, 2)
	for i := range keyPairs {
		kp, err := IssueKeyPair(params)
		if err != nil {
			t.Fatalf("Failed to issue key pair %d: %v", i+1, err)
		}
		keyPairs[i] = kp
	}
	session, err := NewSigningSession(params, keyPairs, big.NewInt(42))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	for i, pt := range session.participants {
		if err := pt.contribute(params, i+1); err != nil {
			t.Fatalf("Contribute failed for signer %d: %v", i+1, err)
		}
	}
	if err := session.verifyReveals(); err != nil {
		t.Fatalf("Honest reveals rejected: %v", err)
	}

	// A signer swapping rho after committing must be caught.
	session.participants[1].rho = params.powA(big.NewInt(99))
	if err := session.verifyReveals(); !errors.Is(err, ErrProtocolViolation) {
		t.Fatalf("Expected protocol violation, got %v", err)
	}
}

func TestPresetSessionSigning(t *testing.T) {
	if testing.Short() {
		t.Skip("1024-bit modular exponentiation in short mode")
	}
	params, err := PresetParameters(PresetMODP1024)
	if err != nil {
		t.Fatalf("Failed to load preset: %v", err)
	}

	keyPairs := make([]*KeyPair, 2)
	for i := range keyPairs {
		kp, err := IssueKeyPair(params)
		if err != nil {
			t.Fatalf("Failed to issue key pair %d: %v", i+1, err)
		}
		keyPairs[i] = kp
	}

	digest, err := DigestDocument(Streebog256, []byte("collective blind signing over a MODP group"))
	if err != nil {
		t.Fatalf("Failed to hash document: %v", err)
	}

	sig, record, err := Sign(context.Background(), params, keyPairs, digest)
	if err != nil {
		t.Fatalf("Signing failed: %v", err)
	}
	if !Verify(digest, sig, record) {
		t.Fatal("Signature did not verify")
	}
	if Verify(new(big.Int).Add(digest, big.NewInt(1)), sig, record) {
		t.Fatal("Accepted the signature for a different digest")
	}
	t.Log("✅ Preset-group signature verified")
}

func TestSessionZeroize(t *testing.T) {
	params := testParams(t)
	kp, err := IssueKeyPair(params)
	if err != nil {
		t.Fatalf("Failed to issue key pair: %v", err)
	}
	session, err := NewSigningSession(params, []*KeyPair{kp}, big.NewInt(9))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if err := session.CommitmentRound(context.Background()); err != nil {
		t.Fatalf("Commitment round failed: %v", err)
	}

	session.Zeroize()
	for i, pt := range session.participants {
		if pt.k != nil {
			t.Fatalf("Signer %d still holds its nonce after Zeroize", i+1)
		}
	}
	session.Zeroize() // idempotent
}
