package main

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/collsig/gostblind"
)

var (
	recoverParams    string
	recoverShares    []string
	recoverThreshold int
	recoverOut       string
)

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Reassemble a private key from Shamir share files",
	Long: `recover rebuilds a key file from share files written by keygen --split.
At least --threshold shares are required; when more are given, every
share window is cross-checked for consistency before recovering.

The recovered key carries the residue of the original exponent, which
signs and verifies interchangeably with it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := readParamsFile(recoverParams)
		if err != nil {
			return err
		}
		if len(recoverShares) == 0 {
			return errors.New("at least one --shares file is required")
		}
		shares := make([]gostblind.Share, 0, len(recoverShares))
		for _, path := range recoverShares {
			s, err := readShareFile(path)
			if err != nil {
				return err
			}
			shares = append(shares, s)
		}

		if len(shares) > recoverThreshold {
			if err := gostblind.VerifyShares(params, shares, recoverThreshold); err != nil {
				return err
			}
		}
		secret, err := gostblind.RecoverPrivateKey(params, shares, recoverThreshold)
		if err != nil {
			return err
		}
		kp, err := gostblind.NewKeyPair(params, secret)
		if err != nil {
			return err
		}
		defer kp.Zeroize()
		if err := writeKeyFile(recoverOut, kp); err != nil {
			return err
		}
		fmt.Printf("recovered key with public %s... into %s\n", shortDigits(kp.Public()), recoverOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recoverCmd)
	recoverCmd.Flags().StringVar(&recoverParams, "params", "group.params", "parameter file")
	recoverCmd.Flags().StringSliceVar(&recoverShares, "shares", nil, "comma-separated share files")
	recoverCmd.Flags().IntVar(&recoverThreshold, "threshold", 2, "shares needed to recover")
	recoverCmd.Flags().StringVar(&recoverOut, "out", "recovered.key", "key file to write")
}

func readShareFile(path string) (gostblind.Share, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return gostblind.Share{}, errors.Wrap(err, "read share file")
	}
	fields := strings.Fields(string(raw))
	if len(fields) != 2 {
		return gostblind.Share{}, errors.Errorf("share file %s: want one \"<index> <value>\" line", path)
	}
	idx, err := strconv.Atoi(fields[0])
	if err != nil {
		return gostblind.Share{}, errors.Wrapf(err, "share file %s index", path)
	}
	v, ok := new(big.Int).SetString(fields[1], 10)
	if !ok {
		return gostblind.Share{}, errors.Errorf("share file %s does not hold a decimal value", path)
	}
	return gostblind.Share{Index: idx, Value: v}, nil
}
