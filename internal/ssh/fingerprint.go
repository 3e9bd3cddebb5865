package ssh

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// HashAlgorithm selects the digest used for host key fingerprints.
type HashAlgorithm string

const (
	HashSHA1   HashAlgorithm = "sha1"
	HashSHA256 HashAlgorithm = "sha256"
	HashMD5    HashAlgorithm = "md5"
)

// DefaultHashAlgorithm matches the classic known-hosts SHA-1 fingerprint.
const DefaultHashAlgorithm = HashSHA1

// ParseHashAlgorithm parses a case-insensitive algorithm name. Empty means the default.
func ParseHashAlgorithm(name string) (HashAlgorithm, error) {
	switch HashAlgorithm(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultHashAlgorithm, nil
	case HashSHA1:
		return HashSHA1, nil
	case HashSHA256:
		return HashSHA256, nil
	case HashMD5:
		return HashMD5, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm %q (want sha1, sha256 or md5)", name)
	}
}

// Fingerprint is a digest of a server public key.
type Fingerprint struct {
	Algorithm HashAlgorithm
	Sum       []byte
}

// Hex returns the colon-separated lowercase hex form, e.g. "ab:cd:...".
func (f Fingerprint) Hex() string {
	if len(f.Sum) == 0 {
		return ""
	}
	var b strings.Builder
	for i, c := range f.Sum {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(hex.EncodeToString([]byte{c}))
	}
	return b.String()
}

// String formats the fingerprint the way ssh-keygen -l does for the algorithm.
func (f Fingerprint) String() string {
	switch f.Algorithm {
	case HashSHA256:
		return "SHA256:" + base64.RawStdEncoding.EncodeToString(f.Sum)
	case HashMD5:
		return "MD5:" + f.Hex()
	default:
		return strings.ToUpper(string(f.Algorithm)) + ":" + f.Hex()
	}
}

// ComputeFingerprint hashes the wire encoding of key.
func ComputeFingerprint(key ssh.PublicKey, alg HashAlgorithm) (Fingerprint, error) {
	if key == nil {
		return Fingerprint{}, fmt.Errorf("no public key to hash")
	}
	blob := key.Marshal()
	if len(blob) == 0 {
		return Fingerprint{}, fmt.Errorf("public key %s has an empty encoding", key.Type())
	}

	var sum []byte
	switch alg {
	case HashSHA1:
		s := sha1.Sum(blob)
		sum = s[:]
	case HashSHA256:
		s := sha256.Sum256(blob)
		sum = s[:]
	case HashMD5:
		s := md5.Sum(blob)
		sum = s[:]
	default:
		return Fingerprint{}, fmt.Errorf("unsupported hash algorithm %q", alg)
	}
	return Fingerprint{Algorithm: alg, Sum: sum}, nil
}
