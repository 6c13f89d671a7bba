package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shady/internal/ir"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds [category]",
	Short: "List node kinds and their fields",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := ""
		if len(args) == 1 {
			filter = strings.ToLower(args[0])
		}
		var rows [][]string
		for _, k := range ir.Kinds() {
			if filter != "" && k.Category().String() != filter {
				continue
			}
			identity := "structural"
			if k.IsNominal() {
				identity = "nominal"
			}
			fields := ir.Fields(k)
			parts := make([]string, len(fields))
			for i, f := range fields {
				parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
			}
			rows = append(rows, []string{k.String(), k.Category().String(), identity, strings.Join(parts, ", ")})
		}
		if len(rows) == 0 {
			return fmt.Errorf("no kinds in category %q", filter)
		}
		colored, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"kind", "category", "identity", "fields"}, rows, colored))
		return err
	},
}
