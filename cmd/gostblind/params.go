package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/collsig/gostblind"
)

var (
	paramsBits   int
	paramsPreset string
	paramsOut    string
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Generate or export domain parameters",
	Long: `params produces a domain parameter file holding the modulus p, the
subgroup order q and the generator a.

By default the parameters are generated with the GOST R 34.10-94 prime
chain procedure at the requested modulus size. With --preset a well-known
MODP group is exported instead of generating fresh primes, which is
instantaneous: modp768 and modp1024 are the RFC 2409 Oakley groups 1 and
2, modp2048 is RFC 3526 group 14.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := makeParameters(cmd.Context())
		if err != nil {
			return err
		}
		report := gostblind.ValidateDomainParameters(params)
		printReport(report)

		out, err := os.Create(paramsOut)
		if err != nil {
			return errors.Wrap(err, "create parameter file")
		}
		defer out.Close()
		if err := gostblind.EncodeParameters(out, params); err != nil {
			return err
		}
		fmt.Printf("wrote %d-bit parameters to %s\n", params.BitLen(), paramsOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(paramsCmd)
	paramsCmd.Flags().IntVar(&paramsBits, "bits", 1024, "modulus size in bits when generating")
	paramsCmd.Flags().StringVar(&paramsPreset, "preset", "", "export a MODP group instead of generating (modp768, modp1024, modp2048)")
	paramsCmd.Flags().StringVar(&paramsOut, "out", "group.params", "parameter file to write")
}

func makeParameters(ctx context.Context) (*gostblind.DomainParameters, error) {
	if paramsPreset != "" {
		preset, err := presetByName(paramsPreset)
		if err != nil {
			return nil, err
		}
		return gostblind.PresetParameters(preset)
	}

	sink := &gostblind.CollectSink{}
	fmt.Printf("generating %d-bit parameters, this can take a while...\n", paramsBits)
	params, err := gostblind.GenerateParameters(ctx, paramsBits, gostblind.WithEventSink(sink))
	if err != nil {
		return nil, err
	}
	stats := sink.Stats()
	fmt.Printf("prime chain: %d levels, %d candidates tried, %d seed restarts, %d generator draws, %s\n",
		stats.ChainLevels, stats.Candidates, stats.SeedRestarts, stats.GeneratorDraws, stats.Elapsed.Round(time.Millisecond))
	return params, nil
}

func presetByName(name string) (gostblind.Preset, error) {
	switch name {
	case "modp768":
		return gostblind.PresetMODP768, nil
	case "modp1024":
		return gostblind.PresetMODP1024, nil
	case "modp2048":
		return gostblind.PresetMODP2048, nil
	}
	return 0, errors.Errorf("unknown preset %q (want modp768, modp1024 or modp2048)", name)
}

func printReport(report *gostblind.ValidationResult) {
	fmt.Printf("security level: %s\n", report.SecurityLevel)
	for _, msg := range report.Errors {
		fmt.Println("error:", msg)
	}
	for _, msg := range report.Warnings {
		fmt.Println("warning:", msg)
	}
	for _, msg := range report.Recommendations {
		fmt.Println("note:", msg)
	}
	if !report.Valid {
		fmt.Println("parameters FAILED validation")
	}
}
