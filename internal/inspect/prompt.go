package inspect

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// EnsureDSNPassword returns the DSN with a password filled in. When the
// DSN already carries one, or stdin is not a terminal, the DSN comes
// back unchanged; otherwise the operator is prompted without echo.
func EnsureDSNPassword(dsn string, w io.Writer) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		// not URL-shaped (e.g. keyword DSN), leave it alone
		return dsn, nil
	}
	if u.User != nil {
		if _, set := u.User.Password(); set {
			return dsn, nil
		}
	}
	if !isTerminal(int(os.Stdin.Fd())) {
		return dsn, nil
	}

	pw, err := promptPassword(w)
	if err != nil {
		return "", err
	}

	username := ""
	if u.User != nil {
		username = u.User.Username()
	}
	u.User = url.UserPassword(username, string(pw))
	return u.String(), nil
}

// promptPassword prints a prompt to w and reads the password from the
// terminal without echo. A newline is printed after the read to keep
// the output tidy.
func promptPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Database password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
