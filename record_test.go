package gostblind

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignatureEncodeGolden(t *testing.T) {
	sig := &Signature{R: big.NewInt(12345), S: big.NewInt(67890)}
	var b strings.Builder
	require.NoError(t, sig.Encode(&b))
	require.Equal(t, "12345\n67890\n", b.String())

	parsed, err := ParseSignature(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Zero(t, parsed.R.Cmp(sig.R))
	require.Zero(t, parsed.S.Cmp(sig.S))
}

func TestSignatureEncodeIncomplete(t *testing.T) {
	require.ErrorIs(t, (&Signature{R: big.NewInt(1)}).Encode(&strings.Builder{}), ErrInvalidParameter)
	var nilSig *Signature
	require.ErrorIs(t, nilSig.Encode(&strings.Builder{}), ErrInvalidParameter)
}

func TestParseSignatureMalformed(t *testing.T) {
	cases := []struct {
		name, in string
	}{
		{"empty", ""},
		{"one line", "12345\n"},
		{"three lines", "1\n2\n3\n"},
		{"interior blank", "1\n\n2\n"},
		{"negative", "12345\n-4\n"},
		{"not a number", "12345\nabc\n"},
		{"leading space", " 123\n456\n"},
		{"hex prefix", "0x12\n34\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSignature(strings.NewReader(tc.in))
			require.ErrorIs(t, err, ErrMalformedRecord)
		})
	}

	// Zero values parse; verification is where they die.
	sig, err := ParseSignature(strings.NewReader("0\n0\n"))
	require.NoError(t, err)
	require.Zero(t, sig.R.Sign())
}

func TestRecordEncodeGolden(t *testing.T) {
	vr := &VerificationRecord{
		Y: big.NewInt(8), A: big.NewInt(2), P: big.NewInt(11), Q: big.NewInt(5),
		PublicKeys: []*big.Int{big.NewInt(3), big.NewInt(10)},
	}
	var b strings.Builder
	require.NoError(t, vr.Encode(&b))
	require.Equal(t, "y 8\na 2\np 11\nq 5\n1 3\n2 10\n", b.String())

	parsed, err := ParseRecord(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Zero(t, parsed.Y.Cmp(vr.Y))
	require.Zero(t, parsed.P.Cmp(vr.P))
	require.Len(t, parsed.PublicKeys, 2)
	require.Zero(t, parsed.PublicKeys[1].Cmp(big.NewInt(10)))

	// 3 * 10 = 30 = 8 mod 11.
	require.True(t, parsed.AuditCollectiveKey())
	parsed.Y = big.NewInt(9)
	require.False(t, parsed.AuditCollectiveKey())
}

func TestRecordNoParticipantKeys(t *testing.T) {
	vr := &VerificationRecord{
		Y: big.NewInt(8), A: big.NewInt(2), P: big.NewInt(11), Q: big.NewInt(5),
	}
	var b strings.Builder
	require.NoError(t, vr.Encode(&b))
	require.Equal(t, "y 8\na 2\np 11\nq 5\n", b.String())

	parsed, err := ParseRecord(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Zero(t, parsed.Y.Cmp(vr.Y))
	require.Zero(t, parsed.Q.Cmp(vr.Q))
	require.Empty(t, parsed.PublicKeys)

	// No announced keys, no claim to audit.
	require.True(t, parsed.AuditCollectiveKey())
}

func TestRecordEncodeIncomplete(t *testing.T) {
	vr := &VerificationRecord{
		Y: big.NewInt(8), A: big.NewInt(2), P: big.NewInt(11),
	}
	require.ErrorIs(t, vr.Encode(&strings.Builder{}), ErrInvalidParameter)
	var nilRec *VerificationRecord
	require.ErrorIs(t, nilRec.Encode(&strings.Builder{}), ErrInvalidParameter)
}

func TestParseRecordMalformed(t *testing.T) {
	cases := []struct {
		name, in string
	}{
		{"empty", ""},
		{"three lines", "y 8\na 2\np 11\n"},
		{"wrong label order", "a 2\ny 8\np 11\nq 5\n1 3\n"},
		{"ordinal gap", "y 8\na 2\np 11\nq 5\n1 3\n3 10\n"},
		{"zero value", "y 0\na 2\np 11\nq 5\n1 3\n"},
		{"negative value", "y -5\na 2\np 11\nq 5\n1 3\n"},
		{"double space", "y  8\na 2\np 11\nq 5\n1 3\n"},
		{"missing value", "y\na 2\np 11\nq 5\n1 3\n"},
		{"trailing junk", "y 8\na 2\np 11\nq 5\n1 3\nx 5\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRecord(strings.NewReader(tc.in))
			require.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestParametersCodec(t *testing.T) {
	params, err := NewDomainParameters(big.NewInt(11), big.NewInt(5), big.NewInt(3))
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, EncodeParameters(&b, params))
	require.Equal(t, "p 11\nq 5\na 3\n", b.String())

	parsed, err := ParseParameters(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.True(t, params.Equal(parsed))

	// Structural checks still apply: 7 does not divide 10.
	_, err = ParseParameters(strings.NewReader("p 11\nq 7\na 2\n"))
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = ParseParameters(strings.NewReader("p 11\nq 5\n"))
	require.ErrorIs(t, err, ErrMalformedRecord)

	_, err = ParseParameters(strings.NewReader("q 5\np 11\na 3\n"))
	require.ErrorIs(t, err, ErrMalformedRecord)
}

func TestParametersCodecRoundTripGenerated(t *testing.T) {
	params := testParams(t)
	var b strings.Builder
	require.NoError(t, EncodeParameters(&b, params))
	parsed, err := ParseParameters(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.True(t, params.Equal(parsed))
}
