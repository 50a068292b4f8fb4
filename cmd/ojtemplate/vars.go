package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ojtools/ojtemplate/dims"
)

// varsCmd prints the dimension table of a format tree, one variable per line
// in order of first appearance:
//
//	VAR(name[dim]...)[ depends=var,...]
//
// Example output:
//
//	VAR(N)
//	VAR(A[N]) depends=N
//	VAR(B[N][M]) depends=N,M
//	AMBIGUOUS(A): first=[N] later=[N][M]
func (a *app) varsCmd() *cobra.Command {
	var filter string
	var rank int
	cmd := &cobra.Command{
		Use:   "vars [flags] FORMAT",
		Short: "Print the variables of a format tree with their inferred dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := readFormat(cmd, args[0])
			if err != nil {
				return err
			}
			printVars(cmd.OutOrStdout(), dims.Infer(root), filter, rank)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "filter variables by name (case-insensitive substring)")
	cmd.Flags().IntVar(&rank, "rank", -1, "only print variables with this many dimensions")
	return cmd
}

func printVars(w io.Writer, table *dims.Table, filter string, rank int) {
	for _, e := range table.Entries() {
		if filter != "" && !strings.Contains(strings.ToUpper(e.Name), strings.ToUpper(filter)) {
			continue
		}
		if rank >= 0 && e.Rank() != rank {
			continue
		}
		line := "VAR(" + e.Name + bracketed(e.Dims) + ")"
		if len(e.Depends) > 0 {
			line += " depends=" + strings.Join(e.Depends, ",")
		}
		fmt.Fprintln(w, line)
	}
	for _, amb := range table.Ambiguities() {
		if filter != "" && !strings.Contains(strings.ToUpper(amb.Name), strings.ToUpper(filter)) {
			continue
		}
		fmt.Fprintf(w, "AMBIGUOUS(%s): first=%s later=%s\n", amb.Name, bracketedOrScalar(amb.First), bracketedOrScalar(amb.Later))
	}
}

func bracketed(dims []string) string {
	var b strings.Builder
	for _, d := range dims {
		b.WriteString("[" + d + "]")
	}
	return b.String()
}

func bracketedOrScalar(dims []string) string {
	if len(dims) == 0 {
		return "scalar"
	}
	return bracketed(dims)
}
