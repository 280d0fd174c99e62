package main

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"zkl-file-verify/circuits/ipfsverify"
)

// Rule of thumb for BN254 on a laptop core; only used for a rough estimate.
const secondsPerKiloConstraint = 0.015

func newAnalyzeCmd() *cobra.Command {
	var (
		shape   ipfsverify.Shape
		schemes []string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compile the circuit for a shape and report its size",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := shape.Validate(); err != nil {
				return err
			}
			pterm.DefaultSection.Printfln("Circuit analysis for %s", shape)

			data := pterm.TableData{{"Scheme", "Constraints", "Compile time", "Est. prove time"}}
			for _, name := range schemes {
				scheme, err := ipfsverify.SchemeByName(name)
				if err != nil {
					return err
				}
				start := time.Now()
				ccs, err := ipfsverify.Compile(scheme, shape)
				if err != nil {
					return err
				}
				compileTime := time.Since(start)
				constraints := ccs.GetNbConstraints()
				estimate := time.Duration(float64(constraints) * secondsPerKiloConstraint / 1000 * float64(time.Second))
				data = append(data, []string{
					scheme.Name(),
					pterm.Sprint(constraints),
					compileTime.Round(time.Millisecond).String(),
					"~" + estimate.Round(100*time.Millisecond).String(),
				})
			}
			return pterm.DefaultTable.WithHasHeader(true).WithData(data).Render()
		},
	}
	f := cmd.Flags()
	f.IntVar(&shape.IPFSHashLen, "ipfs-len", 46, "ipfs_hash length in bytes")
	f.IntVar(&shape.SecretLen, "secret-len", 11, "secret length in bytes")
	f.StringSliceVar(&schemes, "schemes", []string{ipfsverify.SchemeGroth16, ipfsverify.SchemePlonk}, "schemes to compile for")
	return cmd
}
