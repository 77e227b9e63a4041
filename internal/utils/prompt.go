package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptForConfirmation asks before a destructive operation and reads the answer from in.
// If autoApprove is true, it returns true without prompting.
// action describes what will happen (e.g. "delete bucket"); details names the resource.
func PromptForConfirmation(in io.Reader, out io.Writer, autoApprove bool, action, details string) (bool, error) {
	if autoApprove {
		return true, nil
	}
	fmt.Fprintf(out, "\nWARNING: About to %s\n  Details: %s\nAre you sure you want to continue? (yes/no): ", action, details)
	return readYes(in)
}

func readYes(in io.Reader) (bool, error) {
	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return false, fmt.Errorf("failed to read user confirmation: %w", err)
	}

	input = strings.ToLower(strings.TrimSpace(input))
	return input == "yes" || input == "y", nil
}
