package gostblind

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Signature is a finished collective blind signature. R is the blinded
// aggregate commitment reduced mod q, S folds the signers' responses and
// the blinding offset back together with the digest.
type Signature struct {
	R *big.Int
	S *big.Int
}

// VerificationRecord carries everything a verifier needs besides the
// document: the collective key, the domain parameters, and each
// participant's public key so the collective key can be audited.
type VerificationRecord struct {
	Y          *big.Int
	A          *big.Int
	P          *big.Int
	Q          *big.Int
	PublicKeys []*big.Int
}

// Encode writes the signature as two decimal lines, R then S.
func (s *Signature) Encode(w io.Writer) error {
	if s == nil || s.R == nil || s.S == nil {
		return newInvalidParameter("Signature.Encode", "incomplete signature")
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n", s.R.String(), s.S.String()); err != nil {
		return errors.Wrap(err, "write signature")
	}
	return nil
}

// ParseSignature reads a two-line decimal signature. Anything other than
// exactly two non-negative decimal lines is malformed.
func ParseSignature(r io.Reader) (*Signature, error) {
	const op = "ParseSignature"
	lines, err := readLines(r, op)
	if err != nil {
		return nil, err
	}
	if len(lines) != 2 {
		return nil, newMalformedRecord(op, "expected 2 lines, got %d", len(lines))
	}
	R, ok := parseDecimal(lines[0])
	if !ok {
		return nil, newMalformedRecord(op, "line 1 is not a decimal integer")
	}
	S, ok := parseDecimal(lines[1])
	if !ok {
		return nil, newMalformedRecord(op, "line 2 is not a decimal integer")
	}
	return &Signature{R: R, S: S}, nil
}

// Encode writes the record as labeled decimal lines: y, a, p, q in that
// order, then one line per participant key numbered from 1.
func (vr *VerificationRecord) Encode(w io.Writer) error {
	const op = "VerificationRecord.Encode"
	if vr == nil || vr.Y == nil || vr.A == nil || vr.P == nil || vr.Q == nil {
		return newInvalidParameter(op, "incomplete record")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "y %s\n", vr.Y.String())
	fmt.Fprintf(&b, "a %s\n", vr.A.String())
	fmt.Fprintf(&b, "p %s\n", vr.P.String())
	fmt.Fprintf(&b, "q %s\n", vr.Q.String())
	for i, pub := range vr.PublicKeys {
		if pub == nil {
			return newInvalidParameter(op, "participant key %d is nil", i+1)
		}
		fmt.Fprintf(&b, "%d %s\n", i+1, pub.String())
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "write record")
	}
	return nil
}

// ParseRecord reads a labeled record: lines y, a, p, q in order, each a
// positive decimal, optionally followed by participant keys numbered
// consecutively from 1. Any deviation is malformed.
func ParseRecord(r io.Reader) (*VerificationRecord, error) {
	const op = "ParseRecord"
	lines, err := readLines(r, op)
	if err != nil {
		return nil, err
	}
	if len(lines) < 4 {
		return nil, newMalformedRecord(op, "expected at least 4 lines, got %d", len(lines))
	}
	vr := &VerificationRecord{}
	for i, want := range []struct {
		label string
		dst   **big.Int
	}{
		{"y", &vr.Y}, {"a", &vr.A}, {"p", &vr.P}, {"q", &vr.Q},
	} {
		v, err := labeledValue(lines[i], want.label, op)
		if err != nil {
			return nil, err
		}
		*want.dst = v
	}
	for i, line := range lines[4:] {
		v, err := labeledValue(line, strconv.Itoa(i+1), op)
		if err != nil {
			return nil, err
		}
		vr.PublicKeys = append(vr.PublicKeys, v)
	}
	return vr, nil
}

// labeledValue splits "label value" and checks both halves.
func labeledValue(line, label, op string) (*big.Int, error) {
	got, rest, found := strings.Cut(line, " ")
	if !found || got != label {
		return nil, newMalformedRecord(op, "expected line %q, got %q", label+" <value>", line)
	}
	v, ok := parseDecimal(rest)
	if !ok || v.Sign() <= 0 {
		return nil, newMalformedRecord(op, "value for %q is not a positive decimal integer", label)
	}
	return v, nil
}

// EncodeParameters writes a parameter file: lines p, q, a.
func EncodeParameters(w io.Writer, params *DomainParameters) error {
	if params == nil {
		return newInvalidParameter("EncodeParameters", "nil parameters")
	}
	_, err := fmt.Fprintf(w, "p %s\nq %s\na %s\n",
		params.p.String(), params.q.String(), params.a.String())
	return errors.Wrap(err, "write parameters")
}

// ParseParameters reads a parameter file written by EncodeParameters and
// runs the structural checks of NewDomainParameters on the result.
func ParseParameters(r io.Reader) (*DomainParameters, error) {
	const op = "ParseParameters"
	lines, err := readLines(r, op)
	if err != nil {
		return nil, err
	}
	if len(lines) != 3 {
		return nil, newMalformedRecord(op, "expected 3 lines, got %d", len(lines))
	}
	vals := make([]*big.Int, 3)
	for i, label := range []string{"p", "q", "a"} {
		v, err := labeledValue(lines[i], label, op)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return NewDomainParameters(vals[0], vals[1], vals[2])
}

// readLines collects the input's lines, dropping trailing empty ones.
// Interior empty lines stay and fail later parsing.
func readLines(r io.Reader, op string) ([]string, error) {
	sc := bufio.NewScanner(r)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, newMalformedRecord(op, "reading input").withCause(err)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// parseDecimal accepts plain base-10 digits only: no sign, no spaces, no
// radix prefixes.
func parseDecimal(s string) (*big.Int, bool) {
	if len(s) == 0 {
		return nil, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return nil, false
		}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return v, true
}
