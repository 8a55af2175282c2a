package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptPassword reads the password from stdin without echoing it when
// stdin is a terminal. A non-terminal stdin (pipes, scripts) falls back to
// reading a single line. The caller owns the returned bytes and must
// zeroize them after key derivation.
func promptPassword() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	fmt.Fprint(os.Stderr, "Enter password: ")
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return pw, err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	fmt.Fprintln(os.Stderr)
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
