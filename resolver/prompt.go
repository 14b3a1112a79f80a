package resolver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sgostarter/librecloser/curve"
)

// Prompt asks the operator on out and reads answers from in. Only whole
// non-negative numbers are accepted; anything else repeats the question.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *Prompt) ResolveRatio(curveName string, firstCurrent float64) (oldRatio, newRatio int, err error) {
	_, _ = fmt.Fprintf(p.out, "!! Breaker %s pickup current (%v A) is unusually low\n"+
		"CT ratio setting in CAPE is likely wrong\n", curveName, firstCurrent)

	oldRatio, err = p.AskInt("Please enter current CT setting from CAPE (usually 1)",
		"Please enter a valid CT ratio setting")
	if err != nil {
		return
	}

	newRatio, err = p.AskInt("Please enter new CT ratio (usually 160)", "Please enter a valid CT ratio setting")

	return
}

func (p *Prompt) ResolveChain(curveName string, position curve.Position) (pickup, timeConstant float64, err error) {
	v, err := p.AskInt(fmt.Sprintf("Enter pickup current for %s recloser %s in Amps", position, curveName),
		"Please enter a valid amperage")
	if err != nil {
		return
	}

	pickup = float64(v)

	v, err = p.AskInt(fmt.Sprintf("Enter time constant for %s recloser %s in cycles", position, curveName),
		"Please enter a valid number of cycles")
	if err != nil {
		return
	}

	timeConstant = float64(v)

	return
}

// AskInt repeats question until a whole non-negative number is entered.
func (p *Prompt) AskInt(question, complaint string) (int, error) {
	var v int

	_, err := p.Ask(question, complaint, func(answer string) bool {
		n, ok := ParseWholeNumber(answer)
		if ok {
			v = n
		}

		return ok
	})

	return v, err
}

// Ask repeats question until accept takes the trimmed answer.
func (p *Prompt) Ask(question, complaint string, accept func(answer string) bool) (string, error) {
	for {
		_, _ = fmt.Fprintf(p.out, "%s\n>>", question)

		line, err := p.in.ReadString('\n')
		answer := strings.TrimSpace(line)

		if (err == nil || line != "") && accept(answer) {
			_, _ = fmt.Fprintln(p.out)

			return answer, nil
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w: %s", ErrAborted, question)
			}

			return "", err
		}

		_, _ = fmt.Fprintf(p.out, "\n!! %s\n\n", complaint)
	}
}

// ParseWholeNumber accepts plain decimal digits only: no sign, no spaces, no base prefix.
func ParseWholeNumber(s string) (int, bool) {
	n, err := strconv.ParseUint(s, 10, strconv.IntSize-1)
	if err != nil {
		return 0, false
	}

	return int(n), true
}
