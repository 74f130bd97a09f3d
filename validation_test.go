package gostblind

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDomainParameters(t *testing.T) {
	t.Run("GeneratedChain", func(t *testing.T) {
		report := ValidateDomainParameters(testParams(t))
		require.True(t, report.Valid, "errors: %v", report.Errors)
		require.Equal(t, SecurityLevelLow, report.SecurityLevel, "64-bit parameters are test-grade")
		require.NotEmpty(t, report.Warnings)
	})

	t.Run("CompositeModulus", func(t *testing.T) {
		// 15 = 3*5 passes the structural checks (odd, 7 | 14).
		params, err := NewDomainParameters(big.NewInt(15), big.NewInt(7), big.NewInt(2))
		require.NoError(t, err)
		report := ValidateDomainParameters(params)
		require.False(t, report.Valid)
		require.Contains(t, report.Errors, "modulus p is not prime")
	})

	t.Run("CompositeOrder", func(t *testing.T) {
		// q = 4 divides 12 but is not prime.
		params, err := NewDomainParameters(big.NewInt(13), big.NewInt(4), big.NewInt(5))
		require.NoError(t, err)
		report := ValidateDomainParameters(params)
		require.False(t, report.Valid)
		require.Contains(t, report.Errors, "subgroup order q is not prime")
	})

	t.Run("WrongGeneratorOrder", func(t *testing.T) {
		// 6 has order 2 mod 7, not 3.
		params, err := NewDomainParameters(big.NewInt(7), big.NewInt(3), big.NewInt(6))
		require.NoError(t, err)
		report := ValidateDomainParameters(params)
		require.False(t, report.Valid)
		require.Contains(t, report.Errors, "generator does not have order q")
	})

	t.Run("SmallButSound", func(t *testing.T) {
		// 2^3 = 8 = 1 mod 7.
		params, err := NewDomainParameters(big.NewInt(7), big.NewInt(3), big.NewInt(2))
		require.NoError(t, err)
		report := ValidateDomainParameters(params)
		require.True(t, report.Valid, "errors: %v", report.Errors)
		require.Equal(t, SecurityLevelLow, report.SecurityLevel)
	})

	t.Run("Nil", func(t *testing.T) {
		report := ValidateDomainParameters(nil)
		require.False(t, report.Valid)
		require.Equal(t, SecurityLevelLow, report.SecurityLevel)
	})
}

func TestValidateKeyPair(t *testing.T) {
	params := testParams(t)
	kp, err := IssueKeyPair(params)
	require.NoError(t, err)

	t.Run("Sound", func(t *testing.T) {
		report := ValidateKeyPair(params, kp)
		require.True(t, report.Valid, "errors: %v", report.Errors)
	})

	t.Run("MismatchedPublic", func(t *testing.T) {
		bad := &KeyPair{
			private: kp.Private(),
			public:  new(big.Int).Add(kp.Public(), big.NewInt(1)),
		}
		report := ValidateKeyPair(params, bad)
		require.False(t, report.Valid)
	})

	t.Run("SmallImportedKey", func(t *testing.T) {
		small, err := NewKeyPair(params, big.NewInt(5))
		require.NoError(t, err)
		report := ValidateKeyPair(params, small)
		require.True(t, report.Valid)
		require.NotEmpty(t, report.Warnings, "tiny keys should at least warn")
	})

	t.Run("Nil", func(t *testing.T) {
		require.False(t, ValidateKeyPair(nil, kp).Valid)
		require.False(t, ValidateKeyPair(params, nil).Valid)
	})
}

func TestValidateParticipants(t *testing.T) {
	params := testParams(t)
	kp1, err := IssueKeyPair(params)
	require.NoError(t, err)
	kp2, err := IssueKeyPair(params)
	require.NoError(t, err)

	report := ValidateParticipants([]*KeyPair{kp1, kp2})
	require.True(t, report.Valid)
	require.Empty(t, report.Warnings)

	report = ValidateParticipants([]*KeyPair{kp1, kp1})
	require.True(t, report.Valid, "shared keys are a warning, not an error")
	require.NotEmpty(t, report.Warnings)

	report = ValidateParticipants(nil)
	require.False(t, report.Valid)

	report = ValidateParticipants([]*KeyPair{kp1, nil})
	require.False(t, report.Valid)
}
