package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flurry-cfd/flurry/restart"
)

var restartInspectCmd = &cobra.Command{
	Use:   "restart-info [restart.vtu]",
	Short: "report the header/element summary of a restart file without a full solver setup",
	Args:  cobra.ExactArgs(1),
	RunE:  restartInfoMain,
}

func init() {
	rootCmd.AddCommand(restartInspectCmd)
}

func restartInfoMain(cobraCmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("restart-info: opening %s: %w", args[0], err)
	}
	defer f.Close()

	pd, warnings, err := restart.ReadPiece(f)
	if err != nil {
		return fmt.Errorf("restart-info: reading %s: %w", args[0], err)
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	fmt.Printf("schema version: %d\n", pd.SchemaVersion)
	if pd.HasTime {
		fmt.Printf("time: %.6g\n", pd.Time)
	} else {
		fmt.Println("time: not present")
	}
	fmt.Printf("elements: %d\n", len(pd.USpts))
	for i, u := range pd.USpts {
		nf := pd.NFields[i]
		nSpts := 0
		if nf > 0 {
			nSpts = len(u) / nf
		}
		order := 0
		if i < len(pd.ElemOrder) {
			order = pd.ElemOrder[i]
		}
		fmt.Printf("  element %d: order=%d nSpts=%d nFields=%d\n", i, order, nSpts, nf)
	}
	if pd.IBlankCell != nil {
		fmt.Printf("iblank: %v\n", pd.IBlankCell)
	}
	return nil
}
