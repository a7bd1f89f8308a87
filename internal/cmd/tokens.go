package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/DevSymphony/codecleaner/internal/lexer"
)

var (
	tokensJSON       bool
	tokensDirectives bool
	tokensUTF8       bool
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the token stream of a source file",
	Long: `Print every token of a file with its position and kind.
Useful to see how the lexer splits a construct before reporting a bug.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	tokensCmd.Flags().BoolVar(&tokensJSON, "json", false, "print one JSON object per token")
	tokensCmd.Flags().BoolVar(&tokensDirectives, "directives", true, "include preprocessor directives")
	tokensCmd.Flags().BoolVar(&tokensUTF8, "utf8", false, "decode files without a byte order mark as UTF-8")
}

type tokenLine struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Offset  int    `json:"offset"`
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	Illegal bool   `json:"illegal,omitempty"`
}

func runTokens(cmd *cobra.Command, args []string) error {
	var opts []lexer.Option
	if tokensUTF8 {
		opts = append(opts, lexer.WithUTF8())
	}
	lx, err := lexer.Open(args[0], opts...)
	if err != nil {
		return err
	}
	defer func() { _ = lx.Close() }()

	return dumpTokens(cmd.OutOrStdout(), lx)
}

func dumpTokens(w io.Writer, lx *lexer.Lexer) error {
	enc := json.NewEncoder(w)
	for {
		t := lx.Scan()
		if t.Kind == lexer.EOF {
			break
		}
		if t.Kind.IsDirective() && !tokensDirectives {
			continue
		}

		if tokensJSON {
			if err := enc.Encode(tokenLine{
				Line:    t.Line,
				Column:  t.Column,
				Offset:  t.CharPos,
				Kind:    t.Kind.String(),
				Text:    t.Text,
				Illegal: t.Kind == lexer.NoSym,
			}); err != nil {
				return fmt.Errorf("failed to write token: %w", err)
			}
			continue
		}
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return fmt.Errorf("failed to write token: %w", err)
		}
	}
	return lx.Err()
}
