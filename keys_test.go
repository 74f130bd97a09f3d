package gostblind

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIssueKeyPair(t *testing.T) {
	params := testParams(t)

	kp, err := IssueKeyPair(params)
	require.NoError(t, err)
	require.True(t, kp.Private().Sign() > 0, "private key must be positive")
	require.True(t, kp.Public().Sign() > 0 && kp.Public().Cmp(params.P()) < 0, "public key out of range")
	require.Zero(t, params.Exp(params.A(), kp.Private()).Cmp(kp.Public()), "public key is not a^x")

	other, err := IssueKeyPair(params)
	require.NoError(t, err)
	require.False(t, kp.Equal(other), "two issued pairs collided")

	_, err = IssueKeyPair(nil)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestNewKeyPair(t *testing.T) {
	params := testParams(t)

	kp, err := NewKeyPair(params, big.NewInt(42))
	require.NoError(t, err)
	require.Equal(t, int64(42), kp.Private().Int64())
	require.Zero(t, params.Exp(params.A(), big.NewInt(42)).Cmp(kp.Public()))

	_, err = NewKeyPair(params, nil)
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewKeyPair(params, big.NewInt(0))
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewKeyPair(params, big.NewInt(-7))
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewKeyPair(nil, big.NewInt(42))
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDeriveKeyPair(t *testing.T) {
	params := testParams(t)
	seed := []byte("0123456789abcdef0123456789abcdef")

	kp1, err := DeriveKeyPair(params, seed, []byte("signer-1"))
	require.NoError(t, err)
	kp2, err := DeriveKeyPair(params, seed, []byte("signer-1"))
	require.NoError(t, err)
	require.True(t, kp1.Equal(kp2), "derivation is not deterministic")

	kp3, err := DeriveKeyPair(params, seed, []byte("signer-2"))
	require.NoError(t, err)
	require.False(t, kp1.Equal(kp3), "different info produced the same key")

	_, err = DeriveKeyPair(params, []byte("short"), nil)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestKeyPairZeroize(t *testing.T) {
	params := testParams(t)
	kp, err := IssueKeyPair(params)
	require.NoError(t, err)

	kp.Zeroize()
	require.Zero(t, kp.Private().Sign(), "private key survived zeroize")
	kp.Zeroize() // idempotent
}

func TestAggregatePublicKey(t *testing.T) {
	params := testParams(t)
	kp1, err := IssueKeyPair(params)
	require.NoError(t, err)
	kp2, err := IssueKeyPair(params)
	require.NoError(t, err)

	y, err := AggregatePublicKey(params, []*big.Int{kp1.Public(), kp2.Public()})
	require.NoError(t, err)
	want := params.MulMod(kp1.Public(), kp2.Public())
	require.Zero(t, y.Cmp(want))

	// Aggregation of a single key is the key itself.
	solo, err := AggregatePublicKey(params, []*big.Int{kp1.Public()})
	require.NoError(t, err)
	require.Zero(t, solo.Cmp(kp1.Public()))

	_, err = AggregatePublicKey(params, nil)
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = AggregatePublicKey(params, []*big.Int{kp1.Public(), nil})
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = AggregatePublicKey(params, []*big.Int{params.P()})
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = AggregatePublicKey(params, []*big.Int{big.NewInt(0)})
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = AggregatePublicKey(nil, []*big.Int{kp1.Public()})
	require.ErrorIs(t, err, ErrInvalidParameter)
}
