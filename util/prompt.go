package util

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	input = bufio.NewReader(os.Stdin)
	// Output receives the prompt text.
	Output io.Writer = os.Stdout
)

// SetInput makes prompts read their answers from r. Answers are read line by
// line from one shared buffer, so piped input spans several prompts.
func SetInput(r io.Reader) {
	input = bufio.NewReader(r)
}

// readAnswer returns the trimmed answer line. A closed input counts as an
// empty answer, so the caller falls back to the default.
func readAnswer() (string, error) {
	response, err := input.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(response), nil
}

func PromptString(prompt string, def string) (string, error) {
	fmt.Fprintf(Output, "%s (%s): ", prompt, def)

	response, err := readAnswer()
	if err != nil {
		return def, err
	}
	if response == "" {
		return def, nil
	}
	return response, nil
}

func PromptYN(prompt string, def bool) (bool, error) {
	if def {
		fmt.Fprintf(Output, "%s (Y/n): ", prompt)
	} else {
		fmt.Fprintf(Output, "%s (y/N): ", prompt)
	}

	response, err := readAnswer()
	if err != nil {
		return def, err
	}
	switch strings.ToLower(response) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
