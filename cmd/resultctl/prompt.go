package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

func prompt(w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)
	line, err := stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errors.Wrapf(err, "read %s", strings.ToLower(label))
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo when stdin is a terminal.
func promptSecret(w io.Writer, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(w, label)
	}
	fmt.Fprintf(w, "%s: ", label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return string(b), nil
}

// askCaptcha shows challenge and reads the answer. An empty answer asks for
// a new challenge via refresh.
func askCaptcha(w io.Writer, challenge func() string, refresh func() error) (string, error) {
	for {
		fmt.Fprintf(w, "Captcha: %s  (press Enter for a new one)\n", challenge())
		answer, err := prompt(w, "Enter captcha")
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		if err := refresh(); err != nil {
			return "", err
		}
	}
}
