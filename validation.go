package gostblind

import (
	"fmt"
	"math/big"
)

// SecurityLevel grades a parameter set by modulus size.
type SecurityLevel string

const (
	SecurityLevelLow    SecurityLevel = "low"
	SecurityLevelMedium SecurityLevel = "medium"
	SecurityLevelHigh   SecurityLevel = "high"
)

const (
	mediumModulusBits   = 1024
	highModulusBits     = 2048
	minSubgroupBits     = 160
	smallPrivateKeyBits = 128
)

// ValidationResult is a full validation report: hard failures under
// Errors, advisory findings under Warnings and Recommendations.
type ValidationResult struct {
	Valid           bool          `json:"valid"`
	SecurityLevel   SecurityLevel `json:"security_level"`
	Errors          []string      `json:"errors,omitempty"`
	Warnings        []string      `json:"warnings,omitempty"`
	Recommendations []string      `json:"recommendations,omitempty"`
}

// ValidateDomainParameters runs the expensive checks the constructor
// skips: primality of p and q, the subgroup relation, and the generator
// order. The security level follows the modulus size.
func ValidateDomainParameters(params *DomainParameters) *ValidationResult {
	result := &ValidationResult{
		Valid:         true,
		SecurityLevel: SecurityLevelMedium,
	}
	if params == nil {
		result.Valid = false
		result.SecurityLevel = SecurityLevelLow
		result.Errors = append(result.Errors, "parameters are nil")
		return result
	}

	if !params.p.ProbablyPrime(probablyPrimeRounds) {
		result.Valid = false
		result.Errors = append(result.Errors, "modulus p is not prime")
	}
	if !params.q.ProbablyPrime(probablyPrimeRounds) {
		result.Valid = false
		result.Errors = append(result.Errors, "subgroup order q is not prime")
	}
	pm1 := new(big.Int).Sub(params.p, bigOne)
	if new(big.Int).Mod(pm1, params.q).Sign() != 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "q does not divide p-1")
	}
	// a != 1 and a^q = 1 with q prime pin the order to exactly q.
	if params.a.Cmp(bigOne) <= 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "generator must be greater than 1")
	} else if new(big.Int).Exp(params.a, params.q, params.p).Cmp(bigOne) != 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "generator does not have order q")
	}

	if !result.Valid {
		result.SecurityLevel = SecurityLevelLow
		return result
	}

	switch bits := params.p.BitLen(); {
	case bits < mediumModulusBits:
		result.SecurityLevel = SecurityLevelLow
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d-bit modulus is test-grade and offers no real security", bits))
		result.Recommendations = append(result.Recommendations,
			"use a modulus of at least 1024 bits for anything beyond testing")
	case bits < highModulusBits:
		result.SecurityLevel = SecurityLevelMedium
		result.Recommendations = append(result.Recommendations,
			"prefer a 2048-bit modulus for long-lived signatures")
	default:
		result.SecurityLevel = SecurityLevelHigh
	}

	if params.q.BitLen() < minSubgroupBits {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d-bit subgroup order is small against discrete-log attacks", params.q.BitLen()))
	}
	return result
}

// ValidateKeyPair checks that a key pair is internally consistent under
// the given parameters.
func ValidateKeyPair(params *DomainParameters, kp *KeyPair) *ValidationResult {
	result := &ValidationResult{
		Valid:         true,
		SecurityLevel: SecurityLevelMedium,
	}
	if params == nil {
		result.Valid = false
		result.Errors = append(result.Errors, "parameters are nil")
	}
	if kp == nil || kp.private == nil || kp.public == nil {
		result.Valid = false
		result.Errors = append(result.Errors, "key pair is incomplete")
	}
	if !result.Valid {
		result.SecurityLevel = SecurityLevelLow
		return result
	}

	if kp.private.Sign() <= 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "private key must be positive")
	}
	if kp.public.Sign() <= 0 || kp.public.Cmp(params.p) >= 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "public key is out of range")
	}
	if result.Valid && params.powA(kp.private).Cmp(kp.public) != 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "public key does not match the private key")
	}
	if !result.Valid {
		result.SecurityLevel = SecurityLevelLow
		return result
	}

	if kp.private.BitLen() < smallPrivateKeyBits {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d-bit private key is unusually small", kp.private.BitLen()))
		result.Recommendations = append(result.Recommendations,
			"issue keys with IssueKeyPair or DeriveKeyPair rather than importing small integers")
	}
	return result
}

// ValidateParticipants checks a signer roster before a session. A shared
// public key between two signers is legal but almost always a mistake,
// so it warns rather than fails.
func ValidateParticipants(keyPairs []*KeyPair) *ValidationResult {
	result := &ValidationResult{
		Valid:         true,
		SecurityLevel: SecurityLevelMedium,
	}
	if len(keyPairs) == 0 {
		result.Valid = false
		result.SecurityLevel = SecurityLevelLow
		result.Errors = append(result.Errors, "participant list cannot be empty")
		return result
	}
	seen := make(map[string]int, len(keyPairs))
	for i, kp := range keyPairs {
		if kp == nil || kp.public == nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("participant %d has no key pair", i+1))
			continue
		}
		key := kp.public.String()
		if prev, dup := seen[key]; dup {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("participants %d and %d share a public key", prev, i+1))
		} else {
			seen[key] = i + 1
		}
	}
	if !result.Valid {
		result.SecurityLevel = SecurityLevelLow
	}
	return result
}
