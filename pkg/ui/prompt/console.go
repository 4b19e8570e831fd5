// Package prompt provides the console implementation of types.Prompter.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/zprof/pkg/types"
)

// maxListedItems is how many confirmation items are shown before "and N more".
const maxListedItems = 5

// Console asks questions on a line-oriented terminal.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole creates a Console reading answers from in.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", fmt.Errorf("failed to read user input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. An empty answer takes the default.
func (c *Console) Confirm(req types.ConfirmationRequest) (bool, error) {
	fmt.Fprintf(c.out, "\n%s\n", req.Title)
	if len(req.Items) > 0 {
		shown := req.Items
		if len(shown) > maxListedItems {
			shown = shown[:maxListedItems]
		}
		for _, item := range shown {
			fmt.Fprintf(c.out, "└── %s\n", item)
		}
		if extra := len(req.Items) - len(shown); extra > 0 {
			fmt.Fprintf(c.out, "└── and %d more\n", extra)
		}
	}
	if req.Description != "" {
		fmt.Fprintln(c.out, req.Description)
	}

	defaultMarker := "[y/N]"
	if req.Default {
		defaultMarker = "[Y/n]"
	}
	fmt.Fprintf(c.out, "Continue? %s: ", defaultMarker)

	response, err := c.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(response) {
	case "":
		return req.Default, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Choose shows numbered options and returns the zero-based index picked.
// An empty answer takes the default. Anything that is not a listed number
// is returned as -1 so the caller applies its own fallback.
func (c *Console) Choose(req types.ChoiceRequest) (int, error) {
	fmt.Fprintf(c.out, "\n%s\n", req.Title)
	for i, opt := range req.Options {
		marker := " "
		if i == req.Default {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %d) %s\n", marker, i+1, opt)
	}
	fmt.Fprintf(c.out, "Choice [%d]: ", req.Default+1)

	response, err := c.readLine()
	if err != nil {
		return -1, err
	}
	if response == "" {
		return req.Default, nil
	}
	n, err := strconv.Atoi(response)
	if err != nil || n < 1 || n > len(req.Options) {
		fmt.Fprintf(c.out, "Unrecognized choice %q\n", response)
		return -1, nil
	}
	return n - 1, nil
}
