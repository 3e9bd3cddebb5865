package ssh

import (
	"log/slog"
)

// TrustState is a step of one host key verification.
type TrustState int

const (
	StateUnverified TrustState = iota
	StateKeyFetched
	StateKnown
	StateUnknown
	StateChanged
	StateLookupError
	StateTrusted
	StateRejected
)

func (s TrustState) String() string {
	switch s {
	case StateUnverified:
		return "unverified"
	case StateKeyFetched:
		return "key-fetched"
	case StateKnown:
		return "known"
	case StateUnknown:
		return "unknown"
	case StateChanged:
		return "changed"
	case StateLookupError:
		return "lookup-error"
	case StateTrusted:
		return "trusted"
	case StateRejected:
		return "rejected"
	default:
		return "invalid"
	}
}

// Verification is the outcome of Verifier.Verify. Path lists every state
// visited, ending in StateTrusted or StateRejected.
type Verification struct {
	Status      HostStatus
	Fingerprint Fingerprint
	Path        []TrustState
}

// State returns the final state.
func (v Verification) State() TrustState {
	if len(v.Path) == 0 {
		return StateUnverified
	}
	return v.Path[len(v.Path)-1]
}

// Trusted reports whether the host was accepted.
func (v Verification) Trusted() bool {
	return v.State() == StateTrusted
}

// Verifier decides whether a connected server is trusted, using
// trust-on-first-use: unknown hosts are recorded and accepted, a changed key
// is always rejected.
type Verifier struct {
	transport Transport
	store     TrustStore
	hash      HashAlgorithm
	logger    *slog.Logger
}

// NewVerifier returns a Verifier. A nil logger discards.
func NewVerifier(transport Transport, store TrustStore, hash HashAlgorithm, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if hash == "" {
		hash = DefaultHashAlgorithm
	}
	return &Verifier{transport: transport, store: store, hash: hash, logger: logger}
}

// Verify runs one verification for host:port on the live, unauthenticated
// transport. The trust store is written only when the host is seen for the
// first time.
func (v *Verifier) Verify(host string, port int) (Verification, error) {
	res := Verification{Path: []TrustState{StateUnverified}}
	reject := func(err *Error) (Verification, error) {
		res.Path = append(res.Path, StateRejected)
		v.logger.Debug("host key rejected",
			"host", host, "port", port, "status", res.Status.String(), "error", err.Error())
		return res, err
	}

	key, err := v.transport.ServerPublicKey()
	if err != nil {
		return reject(newError(KindKeyRetrievalFailed, v.transport.LastError(), err))
	}
	res.Path = append(res.Path, StateKeyFetched)

	fp, err := ComputeFingerprint(key, v.hash)
	if err != nil {
		return reject(newError(KindHashComputationFailed, "", err))
	}
	res.Fingerprint = fp
	v.logger.Debug("server host key", "host", host, "port", port, "type", key.Type(), "fingerprint", fp.String())

	status, err := v.store.Lookup(host, port, key)
	res.Status = status
	if err != nil {
		res.Status = HostError
		res.Path = append(res.Path, StateLookupError)
		return reject(newError(KindTrustStoreError, "", err))
	}

	switch status {
	case HostKnown:
		res.Path = append(res.Path, StateKnown, StateTrusted)
		return res, nil

	case HostUnknown, HostNotFound:
		res.Path = append(res.Path, StateUnknown)
		if err := v.store.Add(host, port, key); err != nil {
			return reject(newError(KindTrustStoreError, "failed to record host key", err))
		}
		v.logger.Info("added host key to known hosts", "host", host, "port", port, "fingerprint", fp.String())
		res.Path = append(res.Path, StateTrusted)
		return res, nil

	case HostChanged:
		res.Path = append(res.Path, StateChanged)
		return reject(newError(KindHostKeyChanged,
			"server key "+fp.String()+" does not match the known hosts entry; possible man-in-the-middle attack", nil))

	case HostRevoked:
		res.Path = append(res.Path, StateChanged)
		return reject(newError(KindHostKeyChanged, "server key "+fp.String()+" is revoked", nil))

	case HostError:
		res.Path = append(res.Path, StateLookupError)
		return reject(newError(KindTrustStoreError, "known hosts lookup failed", nil))

	default:
		return reject(newError(KindUnknownTrustState, "known hosts status "+status.String(), nil))
	}
}
