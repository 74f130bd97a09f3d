// Package gostblind implements collective blind signatures over the
// GOST R 34.10-94 discrete-logarithm setting.
//
// The scheme works in the order-q subgroup of Z_p*, with p built by the
// GOST prime-chain procedure (or taken from well-known MODP groups).
// A group of signers each hold a key pair (x_i, y_i = a^x_i mod p); the
// collective public key is the product of the y_i. A requester obtains a
// signature on a document digest without the signers learning the digest
// or the resulting signature: signers announce nonce powers under
// hash commitments, the requester blinds their aggregate and returns a
// challenge, and the signers' responses fold into an ordinary signature
// verifiable against the collective key alone.
//
// SigningSession drives the three rounds; Verify and VerifyEncoded check
// finished signatures; ParameterGenerator and PresetParameters produce
// domain parameters; SplitPrivateKey adds threshold custody of signer
// keys.
package gostblind
