package cmd

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yoanbernabeu/sshrun/internal/ssh"
	gossh "golang.org/x/crypto/ssh"
)

func newHostKey(t *testing.T) gossh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	key, err := gossh.NewPublicKey(pub)
	if err != nil {
		t.Fatal(err)
	}
	return key
}

func newTrustSession(t *testing.T, mock *ssh.MockTransport, knownHosts string) *ssh.Session {
	t.Helper()
	session := ssh.New(
		ssh.WithTransport(mock),
		ssh.WithKnownHostsFile(knownHosts),
		ssh.WithHashAlgorithm(ssh.HashSHA256),
	)
	session.SetHost("prod.example.com")
	session.SetUser("deploy")
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestVerifyHost_RecordsNewHost(t *testing.T) {
	knownHosts := filepath.Join(t.TempDir(), "known_hosts")
	key := newHostKey(t)
	mock := &ssh.MockTransport{HostKey: key}
	session := newTrustSession(t, mock, knownHosts)

	var out bytes.Buffer
	if err := verifyHost(&out, session, "prod"); err != nil {
		t.Fatal(err)
	}

	if want := "prod " + gossh.FingerprintSHA256(key) + "\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	data, err := os.ReadFile(knownHosts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "prod.example.com ssh-ed25519 ") {
		t.Errorf("unexpected known_hosts content %q", data)
	}
	if mock.PasswordAttempts != 0 {
		t.Error("trust must not authenticate")
	}
	if mock.Connected {
		t.Error("expected session to be disconnected")
	}
}

func TestVerifyHost_ChangedKey(t *testing.T) {
	knownHosts := filepath.Join(t.TempDir(), "known_hosts")
	if err := ssh.NewKnownHostsFile(knownHosts).Add("prod.example.com", 22, newHostKey(t)); err != nil {
		t.Fatal(err)
	}
	mock := &ssh.MockTransport{HostKey: newHostKey(t)}
	session := newTrustSession(t, mock, knownHosts)

	var out bytes.Buffer
	err := verifyHost(&out, session, "prod")
	if !errors.Is(err, ssh.ErrHostKeyChanged) {
		t.Fatalf("expected host key changed, got %v", err)
	}
	if !strings.Contains(err.Error(), "remove its old entry") {
		t.Errorf("expected hint in error, got %q", err.Error())
	}
	if mock.Connected {
		t.Error("expected session to be disconnected")
	}
}

func TestVerifyHost_ConnectFailure(t *testing.T) {
	mock := &ssh.MockTransport{ConnectErr: errors.New("connection refused")}
	session := newTrustSession(t, mock, filepath.Join(t.TempDir(), "known_hosts"))

	var out bytes.Buffer
	err := verifyHost(&out, session, "prod")
	if !errors.Is(err, ssh.ErrConnectionFailed) {
		t.Fatalf("expected connection failure, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}
