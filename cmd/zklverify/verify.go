package main

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"zkl-file-verify/pkg/attest"
	"zkl-file-verify/pkg/engine"
	"zkl-file-verify/pkg/store"
)

func newVerifyCmd(global *globalOptions) *cobra.Command {
	var (
		vkPath  string
		sigPath string
	)
	cmd := &cobra.Command{
		Use:   "verify <proof-file>",
		Short: "Verify a saved proof document",
		Long: "Verifies a proof written by zklverify. gnark proofs are checked against\n" +
			"--vk or the key store; stub proofs against the configured stub key.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proof, format, err := store.LoadProof(args[0])
			if err != nil {
				return err
			}
			renderProofHeader(proof)

			if err := checkProof(global, proof, vkPath); err != nil {
				pterm.Error.Printfln("Proof verification result: false (%v)", err)
				return err
			}
			pterm.Success.Printfln("Proof verification result: true (%s)", format)

			if sigPath != "" {
				if err := checkSignature(sigPath, proof); err != nil {
					return err
				}
			}
			renderPublicSignals(proof)
			return nil
		},
	}
	cmd.Flags().StringVar(&vkPath, "vk", "", "verifying key file; overrides the key store")
	cmd.Flags().StringVar(&sigPath, "signature", "", "Schnorr signature file to check")
	return cmd
}

func checkProof(global *globalOptions, p *engine.Proof, vkPath string) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}
	stubOpts, err := stubOptions(cfg.Engine)
	if err != nil {
		return err
	}

	var vk []byte
	switch {
	case p.Scheme == string(engine.StrategyStub):
	case vkPath != "":
		if vk, err = store.ReadFile(vkPath); err != nil {
			return err
		}
	case cfg.Engine.KeysDir == "":
		return fmt.Errorf("%w: pass --vk or --keys-dir", engine.ErrKeysNotFound)
	default:
		ks, err := store.NewKeyStore(cfg.Engine.KeysDir)
		if err != nil {
			return err
		}
		if vk, err = ks.ReadVerifyingKey(p.Scheme, p.Shape); err != nil {
			return err
		}
	}
	return engine.CheckDetached(p, vk, stubOpts...)
}

func checkSignature(path string, p *engine.Proof) error {
	raw, err := store.ReadFile(path)
	if err != nil {
		return err
	}
	var sig attest.Signature
	if err := json.Unmarshal(raw, &sig); err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	if err := attest.Verify(p, &sig); err != nil {
		pterm.Error.Printfln("Signature check failed: %v", err)
		return err
	}
	pterm.Success.Printfln("Signed by %s", sig.PubKey)
	return nil
}
