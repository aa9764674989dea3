package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/shopspring/decimal"
)

const amountPromptMessage = "Around how much money are you investing?"

var ErrInvalidAmount = errors.New("invalid investment amount")

func parseAmount(in string) (decimal.Decimal, error) {
	in = strings.TrimSpace(in)
	if in == "" {
		return decimal.Zero, fmt.Errorf("%w: no amount given", ErrInvalidAmount)
	}
	amount, err := decimal.NewFromString(in)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, in)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s must be greater than 0", ErrInvalidAmount, amount.String())
	}
	return amount, nil
}

// fixedAmount is used when the amount was passed as a flag
type fixedAmount string

func (f fixedAmount) ReadAmount(ctx context.Context) (decimal.Decimal, error) {
	return parseAmount(string(f))
}

// amountPrompt asks for the amount on Out and reads one value from
// In. A terminal gets the survey prompt, anything else (pipes, files)
// is scanned as a single whitespace separated token
type amountPrompt struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool
}

func newAmountPrompt(in io.Reader, out io.Writer) amountPrompt {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return amountPrompt{
		In:          in,
		Out:         out,
		Interactive: interactive,
	}
}

func (p amountPrompt) ReadAmount(ctx context.Context) (decimal.Decimal, error) {
	if p.Interactive {
		return p.ask()
	}

	if _, err := fmt.Fprintln(p.Out, amountPromptMessage); err != nil {
		return decimal.Zero, err
	}
	var in string
	if _, err := fmt.Fscan(p.In, &in); err != nil {
		if errors.Is(err, io.EOF) {
			return decimal.Zero, fmt.Errorf("%w: no amount given", ErrInvalidAmount)
		}
		return decimal.Zero, fmt.Errorf("failed to read amount: %w", err)
	}
	return parseAmount(in)
}

func (p amountPrompt) ask() (decimal.Decimal, error) {
	var in string
	prompt := &survey.Input{
		Message: amountPromptMessage,
		Help:    "The total you are willing to spend. Share counts are picked to stay close to your target weights",
	}

	err := survey.AskOne(prompt, &in, survey.WithValidator(func(val interface{}) error {
		_, err := parseAmount(val.(string))
		return err
	}))
	if err != nil {
		return decimal.Zero, err
	}

	return parseAmount(in)
}
