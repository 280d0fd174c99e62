package main

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"zkl-file-verify/pkg/attest"
	"zkl-file-verify/pkg/engine"
	"zkl-file-verify/pkg/ipfs"
	"zkl-file-verify/pkg/relation"
	"zkl-file-verify/pkg/secretsource"
	"zkl-file-verify/pkg/store"
)

type proveOptions struct {
	out         string
	format      string
	secretFile  string
	identity    string
	signKeyFile string
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	var (
		global globalOptions
		opts   proveOptions
	)
	cmd := &cobra.Command{
		Use:   "zklverify <ipfs_hash> <hash_value> <secret>",
		Short: "Prove and verify knowledge of a secret bound to an IPFS hash",
		Long: "Generates a zero-knowledge proof that hash_value is the truncated SHA-256 of\n" +
			"ipfs_hash and that the public commitment was derived from ipfs_hash and a\n" +
			"secret, verifies it, and saves it.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProve(cmd, &global, &opts, args)
		},
	}
	global.register(cmd)

	f := cmd.Flags()
	f.StringVar(&opts.out, "out", "", "proof output path (default from config: ipfs_verification_proof.json)")
	f.StringVar(&opts.format, "format", "", "proof encoding: json or cbor")
	f.StringVar(&opts.secretFile, "secret-file", "", "read the secret from an age-encrypted file instead of argv")
	f.StringVar(&opts.identity, "identity", "", "age identity file for --secret-file")
	f.StringVar(&opts.signKeyFile, "sign-key-file", "", "hex secp256k1 key; writes a Schnorr signature next to the proof")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	cmd.AddCommand(
		newVerifyCmd(&global),
		newInspectCmd(),
		newAnalyzeCmd(),
		newKeysCmd(&global),
	)
	return cmd
}

func runProve(cmd *cobra.Command, global *globalOptions, opts *proveOptions, args []string) error {
	want := 3
	if opts.secretFile != "" {
		want = 2
	}
	if len(args) < want {
		fmt.Fprintf(cmd.OutOrStdout(), "Usage: %s <ipfs_hash> <hash_value> <secret>\n", cmd.Root().Name())
		return nil
	}

	if opts.secretFile != "" && len(args) > want {
		return fmt.Errorf("--secret-file replaces the <secret> argument; got %d arguments, want %d", len(args), want)
	}

	w := relation.Witness{IPFSHash: args[0], HashValue: args[1]}
	if opts.secretFile != "" {
		if opts.identity == "" {
			return fmt.Errorf("--secret-file requires --identity")
		}
		secret, err := secretsource.ReadFile(opts.secretFile, opts.identity)
		if err != nil {
			return err
		}
		w.Secret = secret
	} else {
		w.Secret = args[2]
	}

	a, err := newApp(global, opts.metricsAddr)
	if err != nil {
		return err
	}
	defer a.Close()

	outPath := a.cfg.Output.ProofPath
	if opts.out != "" {
		outPath = opts.out
	}
	format, err := engine.ParseFormat(a.cfg.Output.Format)
	if opts.format != "" {
		format, err = engine.ParseFormat(opts.format)
	}
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Creating proof for IPFS hash: %s", w.IPFSHash)
	if info, err := ipfs.Inspect(w.IPFSHash); err == nil {
		a.log.Debug().Str("cid", info.String()).Msg("ipfs hash parsed")
	} else {
		a.log.Debug().Err(err).Msg("ipfs hash is not a CID; proving over its raw bytes")
	}
	if err := relation.ValidateHashValue(w.HashValue); err != nil {
		a.log.Warn().Err(err).Msg("non-digit characters in hash_value are ignored")
	}
	a.log.Debug().Object("witness", w).Msg("generating proof")

	proof, err := a.engine.Generate(cmd.Context(), w)
	if err != nil {
		return err
	}
	pterm.Success.Println("Proof successfully generated!")

	ok := a.engine.Verify(proof)
	pterm.Info.Printfln("Proof verification result: %t", ok)

	// The proof stays valid in memory when it cannot be written.
	if err := store.SaveProof(outPath, proof, format); err != nil {
		pterm.Error.Printfln("Error writing proof to file: %v", err)
	} else {
		pterm.Success.Printfln("Proof saved to: %s", outPath)
		if opts.signKeyFile != "" {
			if err := writeSignature(opts.signKeyFile, outPath, proof); err != nil {
				pterm.Error.Printfln("Error signing proof: %v", err)
			}
		}
	}

	renderPublicSignals(proof)
	return nil
}

func writeSignature(keyFile, proofPath string, p *engine.Proof) error {
	raw, err := store.ReadFile(keyFile)
	if err != nil {
		return err
	}
	priv, err := attest.ParsePrivateKeyHex(string(raw))
	if err != nil {
		return err
	}
	sig, err := attest.Sign(priv, p)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(sig, "", "  ")
	if err != nil {
		return err
	}
	sigPath := signaturePath(proofPath)
	if err := store.WriteFile(sigPath, data); err != nil {
		return err
	}
	pterm.Success.Printfln("Signature saved to: %s (signer %s)", sigPath, sig.PubKey)
	return nil
}

func signaturePath(proofPath string) string {
	return proofPath + ".sig.json"
}
