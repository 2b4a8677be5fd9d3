package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// PassphraseFunc supplies the passphrase protecting the private key.
type PassphraseFunc func(prompt string) (string, error)

// ErrNoTerminal is returned when a passphrase is needed, none is set in the
// environment and stdin is not a terminal.
var ErrNoTerminal = errors.New("passphrase required: set " + EnvPassphrase + " or run from a terminal")

// ReadPassphrase returns APERTURAMA_PASSPHRASE when set, otherwise prompts
// on stderr and reads from the terminal without echo.
func ReadPassphrase(prompt string) (string, error) {
	if p, ok := os.LookupEnv(EnvPassphrase); ok {
		return p, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNoTerminal
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

// NewPassphrase asks for a passphrase twice and requires both to match.
// Used when generating keys.
func NewPassphrase(read PassphraseFunc) (string, error) {
	first, err := read("New passphrase: ")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(first) == "" {
		return "", fmt.Errorf("passphrase must not be empty")
	}
	second, err := read("Repeat passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("passphrases do not match")
	}
	return first, nil
}

// StaticPassphrase returns a PassphraseFunc that always yields p.
func StaticPassphrase(p string) PassphraseFunc {
	return func(string) (string, error) { return p, nil }
}

var _ PassphraseFunc = ReadPassphrase
