package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var ErrPasswordRequired = errors.New("please enter the password")

// readPassword returns the password given on the command line. Otherwise it
// prompts without echo when in is a terminal, or takes the first line of in
// when input is piped. The value is only checked for presence; nothing in the
// codec consumes it.
func readPassword(flagValue string, required bool, in io.Reader, prompt io.Writer) (string, error) {
	if flagValue != "" || !required {
		return flagValue, nil
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		if len(pw) == 0 {
			return "", ErrPasswordRequired
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", ErrPasswordRequired
	}
	return pw, nil
}
