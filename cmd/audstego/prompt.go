// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/ik5/audstego/stego"
)

var errPasswordMismatch = errors.New("passwords do not match")

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func readPassword(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)

	if err != nil {
		return "", fmt.Errorf("password read failed: %w", err)
	}

	return string(pw), nil
}

// promptNewPassword asks twice and requires both answers to match.
func promptNewPassword(w io.Writer) (string, error) {
	pw, err := readPassword(w, "Enter password: ")
	if err != nil {
		return "", err
	}

	confirm, err := readPassword(w, "Confirm password: ")
	if err != nil {
		return "", err
	}

	if pw != confirm {
		return "", errPasswordMismatch
	}

	return pw, nil
}

// terminalKeys prompts for the password of an encrypted carrier. It is nil
// when stdin is not a terminal, which makes decoding fail with an
// authentication error instead of blocking.
func terminalKeys(w io.Writer) stego.KeyProvider {
	if !stdinIsTerminal() {
		return nil
	}

	return stego.KeyProviderFunc(func(req stego.KeyRequest) (stego.KeyDecision, error) {
		msg := "File is encrypted"
		if req.Retry {
			msg = "Password did not match"
		}

		pw, err := readPassword(w, fmt.Sprintf("%s (%s key). Password, empty to cancel: ", msg, req.KDFVersion))
		if err != nil {
			return stego.KeyDecision{}, err
		}

		return stego.KeyDecision{Password: pw, Cancel: pw == ""}, nil
	})
}
