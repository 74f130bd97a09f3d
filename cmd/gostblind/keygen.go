package main

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/collsig/gostblind"
)

var (
	keygenParams    string
	keygenOut       string
	keygenCount     int
	keygenSeed      string
	keygenSplit     int
	keygenThreshold int
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Issue private signing keys for a parameter set",
	Long: `keygen issues one private key file per signer. A key file holds the
private exponent as a single decimal line and is written with mode 0600;
the public key is recomputed from it on load.

With --seed the keys are derived deterministically from the seed string
instead of drawn from the system randomness, each signer bound to its
ordinal. The same seed and parameters always reproduce the same keys.

With --split each key is additionally split into Shamir share files of
which any --threshold recover the key (see the recover command).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := readParamsFile(keygenParams)
		if err != nil {
			return err
		}
		if keygenCount < 1 {
			return errors.Errorf("--count must be at least 1, got %d", keygenCount)
		}
		for i := 1; i <= keygenCount; i++ {
			kp, err := issueOne(params, i)
			if err != nil {
				return err
			}
			path := fmt.Sprintf("%s%d.key", keygenOut, i)
			if err := writeKeyFile(path, kp); err != nil {
				kp.Zeroize()
				return err
			}
			fmt.Printf("signer %d: public key %s..., private key in %s\n", i, shortDigits(kp.Public()), path)
			if keygenSplit > 0 {
				if err := splitOne(params, kp, i); err != nil {
					kp.Zeroize()
					return err
				}
			}
			kp.Zeroize()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringVar(&keygenParams, "params", "group.params", "parameter file to issue keys for")
	keygenCmd.Flags().StringVar(&keygenOut, "out", "signer", "key file name prefix")
	keygenCmd.Flags().IntVar(&keygenCount, "count", 1, "number of signers to issue keys for")
	keygenCmd.Flags().StringVar(&keygenSeed, "seed", "", "derive keys from this seed instead of fresh randomness")
	keygenCmd.Flags().IntVar(&keygenSplit, "split", 0, "also split each key into this many Shamir shares")
	keygenCmd.Flags().IntVar(&keygenThreshold, "threshold", 2, "shares needed to recover a split key")
}

func splitOne(params *gostblind.DomainParameters, kp *gostblind.KeyPair, ordinal int) error {
	shares, err := gostblind.SplitPrivateKey(params, kp.Private(), keygenThreshold, keygenSplit)
	if err != nil {
		return err
	}
	for _, s := range shares {
		path := fmt.Sprintf("%s%d.share%d", keygenOut, ordinal, s.Index)
		data := fmt.Sprintf("%d %s\n", s.Index, s.Value.Text(10))
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			return errors.Wrap(err, "write share file")
		}
	}
	fmt.Printf("  split into %d shares, any %d recover the key\n", keygenSplit, keygenThreshold)
	return nil
}

func issueOne(params *gostblind.DomainParameters, ordinal int) (*gostblind.KeyPair, error) {
	if keygenSeed == "" {
		return gostblind.IssueKeyPair(params)
	}
	info := fmt.Sprintf("signer-%d", ordinal)
	return gostblind.DeriveKeyPair(params, []byte(keygenSeed), []byte(info))
}

func writeKeyFile(path string, kp *gostblind.KeyPair) error {
	data := kp.Private().Text(10) + "\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		return errors.Wrap(err, "write key file")
	}
	return nil
}

func readKeyFile(params *gostblind.DomainParameters, path string) (*gostblind.KeyPair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read key file")
	}
	x, ok := new(big.Int).SetString(strings.TrimSpace(string(raw)), 10)
	if !ok {
		return nil, errors.Errorf("key file %s does not hold a decimal integer", path)
	}
	return gostblind.NewKeyPair(params, x)
}

func readParamsFile(path string) (*gostblind.DomainParameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open parameter file")
	}
	defer f.Close()
	return gostblind.ParseParameters(f)
}

// shortDigits abbreviates a big integer for log lines.
func shortDigits(x *big.Int) string {
	s := x.Text(10)
	if len(s) <= 12 {
		return s
	}
	return s[:12]
}
