package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"zkl-file-verify/circuits/ipfsverify"
	"zkl-file-verify/pkg/config"
	"zkl-file-verify/pkg/engine"
	"zkl-file-verify/pkg/store"
)

func newKeysCmd(global *globalOptions) *cobra.Command {
	var shape ipfsverify.Shape
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Run circuit setup for a shape and save the keys",
		Long: "Generates proving and verifying keys for one (ipfs_hash, secret) length\n" +
			"pair and writes them to the key store. Verifiers only need the _vk.bin file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Engine.Scheme == string(engine.StrategyStub) {
				return fmt.Errorf("the stub engine has no keys")
			}
			if cfg.Engine.KeysDir == "" {
				cfg.Engine.KeysDir = config.DefaultKeysDir
			}
			scheme, err := ipfsverify.SchemeByName(cfg.Engine.Scheme)
			if err != nil {
				return err
			}
			ks, err := store.NewKeyStore(cfg.Engine.KeysDir)
			if err != nil {
				return err
			}

			spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Running %s setup for %s", scheme.Name(), shape))
			keys, err := ipfsverify.Setup(scheme, shape)
			if err != nil {
				if spinner != nil {
					spinner.Fail(err.Error())
				}
				return err
			}
			if err := ks.SaveKeys(keys); err != nil {
				if spinner != nil {
					spinner.Fail(err.Error())
				}
				return err
			}
			if spinner != nil {
				spinner.Success("Setup complete")
			}

			return pterm.DefaultTable.WithHasHeader(false).WithData(pterm.TableData{
				{"Circuit ID", keys.CircuitID},
				{"Constraints", pterm.Sprint(keys.CCS.GetNbConstraints())},
				{"Proving key", ks.ProvingKeyPath(scheme.Name(), shape)},
				{"Verifying key", ks.VerifyingKeyPath(scheme.Name(), shape)},
			}).Render()
		},
	}
	f := cmd.Flags()
	f.IntVar(&shape.IPFSHashLen, "ipfs-len", 46, "ipfs_hash length in bytes")
	f.IntVar(&shape.SecretLen, "secret-len", 11, "secret length in bytes")
	return cmd
}
