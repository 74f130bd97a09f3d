package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/collsig/gostblind"
)

var (
	verifyIn     string
	verifyHash   string
	verifySig    string
	verifyRecord string
	verifyAudit  bool
)

// errVerifyFailed flips the exit status after the verdict line has been
// printed.
var errVerifyFailed = errors.New("verification failed")

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a collective blind signature against a document",
	Long: `verify rehashes the document and checks the signature against the
verification record. It exits 0 when the signature holds and 1 when it
does not.

Unless --audit=false is given it also checks that the record's collective
key equals the product of the individual public keys it lists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		digest, err := digestInput(verifyIn, verifyHash)
		if err != nil {
			return err
		}
		sig, err := readSignatureFile(verifySig)
		if err != nil {
			return err
		}
		record, err := readRecordFile(verifyRecord)
		if err != nil {
			return err
		}

		if verifyAudit && !record.AuditCollectiveKey() {
			fmt.Println("record REJECTED: collective key does not match the listed public keys")
			return errVerifyFailed
		}
		if !gostblind.Verify(digest, sig, record) {
			fmt.Println("signature INVALID")
			return errVerifyFailed
		}
		fmt.Printf("signature valid (%d signers)\n", len(record.PublicKeys))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyIn, "in", "-", "document to check, - for stdin")
	verifyCmd.Flags().StringVar(&verifyHash, "hash", "streebog256", "document hash (streebog256, sha256, blake2b256, shake256)")
	verifyCmd.Flags().StringVar(&verifySig, "sig", "document.sig", "signature file")
	verifyCmd.Flags().StringVar(&verifyRecord, "record", "document.rec", "verification record file")
	verifyCmd.Flags().BoolVar(&verifyAudit, "audit", true, "cross-check the collective key against the listed public keys")
}

func readSignatureFile(path string) (*gostblind.Signature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open signature file")
	}
	defer f.Close()
	return gostblind.ParseSignature(f)
}

func readRecordFile(path string) (*gostblind.VerificationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open record file")
	}
	defer f.Close()
	return gostblind.ParseRecord(f)
}
