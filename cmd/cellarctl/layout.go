package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/wine-cellar/internal/model"
)

var layoutJSON bool

var layoutCmd = &cobra.Command{
	Use:   "layout CAPACITY...",
	Short: "Preview the rack slots a layout creates",
	Long: `Preview the rack slots a layout creates.  Each argument is the column
capacity of one row, so "cellarctl layout 5 6 6" describes three rows of
5, 6 and 6 bottles.  Comma separated values are accepted too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := parseLayoutArgs(args)
		if err != nil {
			return err
		}
		if err := layout.Validate(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if layoutJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				model.CellarLayout
				Slots []model.Position `json:"slots"`
			}{model.CellarLayout{Layout: layout, Rows: len(layout), Capacity: layout.Capacity()}, layout.Expand()})
		}
		for i, c := range layout {
			fmt.Fprintf(out, "row %d: %s\n", i+1, strings.Repeat("o", c))
		}
		fmt.Fprintf(out, "%d rows, %d rack slots\n", len(layout), layout.Capacity())
		return nil
	},
}

func init() {
	layoutCmd.Flags().BoolVar(&layoutJSON, "json", false, "print the slots as JSON")
}

func parseLayoutArgs(args []string) (model.Layout, error) {
	var layout model.Layout
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid capacity %q", part)
			}
			layout = append(layout, n)
		}
	}
	return layout, nil
}
