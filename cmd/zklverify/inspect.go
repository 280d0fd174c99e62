package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"zkl-file-verify/circuits/ipfsverify"
	"zkl-file-verify/pkg/digest"
	"zkl-file-verify/pkg/ipfs"
	"zkl-file-verify/pkg/relation"
	"zkl-file-verify/pkg/store"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <ipfs_hash>",
		Short: "Print the hash_value that satisfies the relation for an IPFS hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ipfsHash := args[0]
			d := digest.Sum([]byte(ipfsHash))

			data := pterm.TableData{
				{"IPFS hash", ipfsHash},
				{"SHA-256", d.Hex()},
				{"hash_value", relation.HashValueFor(ipfsHash)},
				{"Circuit shape", ipfsverify.Shape{IPFSHashLen: len(ipfsHash)}.String() + " (+ secret length)"},
				{"Build profile", store.Profile},
			}
			if info, err := ipfs.Inspect(ipfsHash); err == nil {
				data = append(data,
					[]string{"CID", info.String()},
					[]string{"Multihash digest", info.DigestHex},
				)
			} else {
				data = append(data, []string{"CID", "not a CID (" + err.Error() + ")"})
			}
			return pterm.DefaultTable.WithHasHeader(false).WithData(data).Render()
		},
	}
}
