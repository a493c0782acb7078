package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/lumen-lang/lumen/lang/scanner"
	"github.com/lumen-lang/lumen/lang/token"
)

// Tokenize runs only the scanner phase on the file named by args[0] and
// prints one line per token, useful for debugging the lexer independently
// of the rest of the pipeline.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("tokenize: a source file must be provided")
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	sc := scanner.New(string(src))
	for {
		tok := sc.Scan()
		if tok.Tok == token.ILLEGAL {
			fmt.Fprintf(stdio.Stdout, "%d: illegal token: %s\n", tok.Pos.Line(), tok.Msg)
			continue
		}
		fmt.Fprintf(stdio.Stdout, "%d: %s", tok.Pos.Line(), tok.Tok)
		if tok.Tok != token.EOF {
			fmt.Fprintf(stdio.Stdout, " %q", tok.Lexeme(string(src)))
		}
		fmt.Fprintln(stdio.Stdout)
		if tok.Tok == token.EOF {
			break
		}
	}
	return nil
}
