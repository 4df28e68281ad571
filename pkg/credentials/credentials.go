// Package credentials stores the portal login next to the user data.
package credentials

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	fileName = "credentials.json"

	// EnvUsername and EnvPassword override stored credentials.
	EnvUsername = "GOLESTAN_USERNAME"
	EnvPassword = "GOLESTAN_PASSWORD"
)

var (
	// ErrNotFound is returned when credentials.json does not exist.
	ErrNotFound = errors.New("no saved credentials")
	// ErrPassphraseRequired is returned when loading a sealed password without a passphrase.
	ErrPassphraseRequired = errors.New("saved password is sealed; a passphrase is required")
	// ErrWrongPassphrase is returned when a sealed password cannot be opened.
	ErrWrongPassphrase = errors.New("wrong passphrase")
)

// Credentials is a portal login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// file is the on-disk form. Exactly one of Password or Sealed is set.
type file struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Sealed   string `json:"sealed,omitempty"`
	Salt     string `json:"salt,omitempty"`
}

// Vault reads and writes credentials.json in a data directory.
type Vault struct {
	path string
}

// New returns a vault rooted at dir.
func New(dir string) *Vault {
	return &Vault{path: filepath.Join(dir, fileName)}
}

// Path is the credentials file location.
func (v *Vault) Path() string { return v.path }

// Exists reports whether credentials have been saved.
func (v *Vault) Exists() bool {
	_, err := os.Stat(v.path)
	return err == nil
}

// Save writes the credentials with mode 0600. A non-empty passphrase seals
// the password.
func (v *Vault) Save(c Credentials, passphrase string) error {
	if c.Username == "" || c.Password == "" {
		return errors.New("username and password are required")
	}
	f := file{Username: c.Username}
	if passphrase == "" {
		f.Password = c.Password
	} else {
		salt := make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return err
		}
		key, err := deriveKey(passphrase, salt)
		if err != nil {
			return err
		}
		var nonce [24]byte
		if _, err := rand.Read(nonce[:]); err != nil {
			return err
		}
		sealed := secretbox.Seal(nonce[:], []byte(c.Password), &nonce, key)
		f.Sealed = base64.StdEncoding.EncodeToString(sealed)
		f.Salt = base64.StdEncoding.EncodeToString(salt)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(v.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(v.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(v.path, 0600)
}

// Load reads saved credentials, opening a sealed password with passphrase.
func (v *Vault) Load(passphrase string) (Credentials, error) {
	data, err := os.ReadFile(v.path)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, ErrNotFound
	}
	if err != nil {
		return Credentials{}, err
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse %s: %w", v.path, err)
	}
	if f.Sealed == "" {
		return Credentials{Username: f.Username, Password: f.Password}, nil
	}
	if passphrase == "" {
		return Credentials{Username: f.Username}, ErrPassphraseRequired
	}

	sealed, err := base64.StdEncoding.DecodeString(f.Sealed)
	if err != nil || len(sealed) < 24 {
		return Credentials{}, fmt.Errorf("corrupt sealed password in %s", v.path)
	}
	salt, err := base64.StdEncoding.DecodeString(f.Salt)
	if err != nil {
		return Credentials{}, fmt.Errorf("corrupt salt in %s", v.path)
	}
	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return Credentials{}, err
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	plain, ok := secretbox.Open(nil, sealed[24:], &nonce, key)
	if !ok {
		return Credentials{Username: f.Username}, ErrWrongPassphrase
	}
	return Credentials{Username: f.Username, Password: string(plain)}, nil
}

// Sealed reports whether the saved password needs a passphrase.
func (v *Vault) Sealed() bool {
	data, err := os.ReadFile(v.path)
	if err != nil {
		return false
	}
	var f file
	return json.Unmarshal(data, &f) == nil && f.Sealed != ""
}

// Delete removes saved credentials. Deleting nothing is not an error.
func (v *Vault) Delete() error {
	if err := os.Remove(v.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// FromEnv returns credentials from GOLESTAN_USERNAME and GOLESTAN_PASSWORD.
func FromEnv() (Credentials, bool) {
	c := Credentials{Username: os.Getenv(EnvUsername), Password: os.Getenv(EnvPassword)}
	return c, c.Username != "" && c.Password != ""
}

// Resolve prefers environment credentials and falls back to the vault.
func (v *Vault) Resolve(passphrase string) (Credentials, error) {
	if c, ok := FromEnv(); ok {
		return c, nil
	}
	return v.Load(passphrase)
}

func deriveKey(passphrase string, salt []byte) (*[32]byte, error) {
	k, err := scrypt.Key([]byte(passphrase), salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, err
	}
	var key [32]byte
	copy(key[:], k)
	return &key, nil
}
