// SPDX-License-Identifier: EPL-2.0

package stego

import (
	"fmt"
	"log/slog"
)

// resolveKey finds the key matching an encrypted header. The configured
// password is tried first with the configured scheme, then with the scheme
// the header declares. The key provider is asked once after that and its
// answer is tried the same way.
func resolveKey(h *Header, password string, hint Scheme, keys KeyProvider, log *slog.Logger) (*Key, error) {
	scheme, err := SchemeForVersion(h.KDFVersion)
	if err != nil {
		return nil, err
	}

	schemes := []Scheme{scheme}
	if hint.Version() == h.KDFVersion && hint != scheme {
		schemes = []Scheme{hint, scheme}
	}

	try := func(pw string) (*Key, error) {
		for _, s := range schemes {
			k, err := DeriveKey(s, pw, h.Salt)
			if err != nil {
				return nil, err
			}
			if k.Matches(h.Verifier) {
				log.Debug("password verified", "scheme", s)
				return k, nil
			}
		}

		return nil, nil
	}

	if password != "" {
		k, err := try(password)
		if err != nil || k != nil {
			return k, err
		}
	}

	if keys == nil {
		return nil, ErrAuthenticationFailure
	}

	log.Info("password required", "magic", h.Magic, "kdf", scheme)
	d, err := keys.RequestKey(KeyRequest{Magic: h.Magic, KDFVersion: h.KDFVersion, Retry: password != ""})
	if err != nil {
		return nil, fmt.Errorf("requesting key: %w", err)
	}

	if d.Cancel {
		return nil, ErrKeyEntryCancelled
	}

	k, err := try(d.Password)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, ErrAuthenticationFailure
	}

	return k, nil
}
