// SPDX-License-Identifier: EPL-2.0

package stego

// KeyRequest describes the header that needs a password.
type KeyRequest struct {
	Magic      string
	KDFVersion KDFVersion
	// Retry is set when a password was already supplied and rejected.
	Retry bool
}

// KeyDecision is a key provider's answer: a password, or a cancellation.
type KeyDecision struct {
	Password string
	Cancel   bool
}

// KeyProvider supplies a password when a coded carrier is encrypted and no
// matching password was configured. It is called at most once per operation
// and may block, e.g. on a terminal prompt.
type KeyProvider interface {
	RequestKey(req KeyRequest) (KeyDecision, error)
}

// KeyProviderFunc adapts a function to KeyProvider.
type KeyProviderFunc func(req KeyRequest) (KeyDecision, error)

func (f KeyProviderFunc) RequestKey(req KeyRequest) (KeyDecision, error) { return f(req) }

// StaticKey always answers with password.
func StaticKey(password string) KeyProvider {
	return KeyProviderFunc(func(KeyRequest) (KeyDecision, error) {
		return KeyDecision{Password: password}, nil
	})
}

// ProgressHook is notified once per payload block transferred.
type ProgressHook interface {
	OnBlock()
}

// ProgressFunc adapts a function to ProgressHook.
type ProgressFunc func()

func (f ProgressFunc) OnBlock() { f() }
