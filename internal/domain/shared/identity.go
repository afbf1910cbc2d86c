package shared

import "errors"

// Identity is the opaque key a caller is known by. One identity owns exactly one ledger.
type Identity string

// AnonymousIdentity is presented by callers that did not authenticate
const AnonymousIdentity Identity = ""

// ErrUnauthenticated is returned by every ledger operation invoked by the anonymous identity
var ErrUnauthenticated = errors.New("please authenticate")

// IsAnonymous reports whether the identity must be rejected
func (i Identity) IsAnonymous() bool {
	return i == AnonymousIdentity
}

// Authorize returns ErrUnauthenticated for the anonymous identity
func (i Identity) Authorize() error {
	if i.IsAnonymous() {
		return ErrUnauthenticated
	}
	return nil
}

func (i Identity) String() string {
	return string(i)
}
