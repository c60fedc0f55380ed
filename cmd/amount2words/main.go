// Command amount2words prints Russian amount-in-words for each amount given
// on the command line, or for each line of standard input.
//
//	$ amount2words 1234.5
//	Одна тысяча двести тридцать четыре рубля 50 копеек
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/remiges-tech/amountwords/amount2words"
	"github.com/spf13/cobra"
)

var errFailed = errors.New("some amounts could not be converted")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var parts bool

	cmd := &cobra.Command{
		Use:   "amount2words [amount...]",
		Short: "Spell out amounts in roubles and kopecks",
		Long: `Converts each amount to Russian words with correctly declined currency names.
Amounts are read from the arguments, or one per line from standard input
when no arguments are given. Amounts are rounded to kopecks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return convertLines(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), parts)
			}
			failed := false
			for _, a := range args {
				if !convertOne(a, cmd.OutOrStdout(), cmd.ErrOrStderr(), parts) {
					failed = true
				}
			}
			if failed {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&parts, "parts", false, "prefix each line with the normalized amount")
	return cmd
}

func convertLines(in io.Reader, out, errOut io.Writer, parts bool) error {
	failed := false
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !convertOne(line, out, errOut, parts) {
			failed = true
		}
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return err
	}
	if failed {
		return errFailed
	}
	return nil
}

// convertOne reports false when amount could not be converted.
func convertOne(amount string, out, errOut io.Writer, parts bool) bool {
	res, err := amount2words.ConvertParts(amount)
	switch {
	case errors.Is(err, amount2words.ErrAmountTooLarge):
		fmt.Fprintf(errOut, "amount too large: %s\n", amount)
		return false
	case err != nil:
		fmt.Fprintf(errOut, "invalid amount: %s\n", amount)
		return false
	}

	if parts {
		fmt.Fprintf(out, "%s\t%s\n", res.Amount(), res.Text)
	} else {
		fmt.Fprintln(out, res.Text)
	}
	return true
}
