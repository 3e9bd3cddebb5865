package ssh

// VerifyHost runs the host key check on a connected, unauthenticated session.
func (s *Session) VerifyHost() (Verification, error) {
	if s.state == stateClosed {
		return Verification{}, ErrSessionClosed
	}
	if s.state != stateConnected {
		return Verification{}, newError(KindKeyRetrievalFailed, "session is "+s.state.String(), ErrNotConnected)
	}
	cfg := s.config()
	return NewVerifier(s.transport, s.trust, s.hash, s.logger).Verify(cfg.Host, cfg.Port)
}

// Authenticate verifies the server's host key and then makes exactly one
// password attempt. A rejected host key is returned unchanged and the
// password is never sent. After a failure the caller must disconnect.
func (s *Session) Authenticate(password string) error {
	if _, err := s.VerifyHost(); err != nil {
		return err
	}

	if err := s.transport.AuthPassword(password); err != nil {
		return newError(KindAuthenticationFailed, s.transport.LastError(), err)
	}
	s.state = stateAuthenticated
	s.logger.Debug("authenticated", "host", s.host, "user", s.user)
	return nil
}
