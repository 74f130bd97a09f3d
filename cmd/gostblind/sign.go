package main

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/collsig/gostblind"
)

var (
	signParams string
	signKeys   []string
	signIn     string
	signHash   string
	signSig    string
	signRecord string
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Produce a collective blind signature over a document",
	Long: `sign hashes the document, runs a full collective blind signing session
with every listed key and writes two files: the signature and the
verification record. The record carries the collective public key, the
domain parameters and the individual public keys a verifier needs.

The document is read from --in, or from standard input when --in is "-".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := readParamsFile(signParams)
		if err != nil {
			return err
		}
		if len(signKeys) == 0 {
			return errors.New("at least one --keys file is required")
		}

		keyPairs := make([]*gostblind.KeyPair, 0, len(signKeys))
		defer func() {
			for _, kp := range keyPairs {
				kp.Zeroize()
			}
		}()
		for _, path := range signKeys {
			kp, err := readKeyFile(params, path)
			if err != nil {
				return err
			}
			keyPairs = append(keyPairs, kp)
		}
		if report := gostblind.ValidateParticipants(keyPairs); !report.Valid {
			return errors.Errorf("key set rejected: %s", strings.Join(report.Errors, "; "))
		}

		digest, err := digestInput(signIn, signHash)
		if err != nil {
			return err
		}

		sig, record, err := gostblind.Sign(cmd.Context(), params, keyPairs, digest)
		if err != nil {
			return err
		}
		if err := writeEncoded(signSig, sig.Encode); err != nil {
			return err
		}
		if err := writeEncoded(signRecord, record.Encode); err != nil {
			return err
		}
		fmt.Printf("signed with %d keys: signature in %s, record in %s\n", len(keyPairs), signSig, signRecord)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().StringVar(&signParams, "params", "group.params", "parameter file")
	signCmd.Flags().StringSliceVar(&signKeys, "keys", nil, "comma-separated private key files, one per signer")
	signCmd.Flags().StringVar(&signIn, "in", "-", "document to sign, - for stdin")
	signCmd.Flags().StringVar(&signHash, "hash", "streebog256", "document hash (streebog256, sha256, blake2b256, shake256)")
	signCmd.Flags().StringVar(&signSig, "sig", "document.sig", "signature file to write")
	signCmd.Flags().StringVar(&signRecord, "record", "document.rec", "verification record file to write")
}

func digestInput(path, hashName string) (*big.Int, error) {
	alg, err := gostblind.ParseHashAlgorithm(hashName)
	if err != nil {
		return nil, err
	}
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open document")
		}
		defer f.Close()
		r = f
	}
	return gostblind.DigestReader(alg, r)
}

func writeEncoded(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer f.Close()
	return encode(f)
}
