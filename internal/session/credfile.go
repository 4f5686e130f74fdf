// ABOUTME: Durable credential record for the session store
// ABOUTME: Stores identity and token as JSON in the XDG config directory

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Record is the persisted subset of the session: identity and token.
// Absence of the record means logged-out at next start.
type Record struct {
	Identity Identity `json:"identity"`
	Token    string   `json:"token"`
}

// CredentialFile reads and writes the durable session record.
type CredentialFile struct {
	configDir string
}

// NewCredentialFile creates a credential file manager rooted at the given
// config directory.
func NewCredentialFile(configDir string) *CredentialFile {
	return &CredentialFile{configDir: configDir}
}

// DefaultConfigDir returns the default config directory following XDG spec.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "siteseo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "siteseo")
}

// file returns the path to the session record.
func (f *CredentialFile) file() string {
	return filepath.Join(f.configDir, "session.json")
}

// Load reads the persisted record. A missing or corrupt file yields a nil
// record, never an error; a stale session must not block startup.
func (f *CredentialFile) Load() (*Record, error) {
	data, err := os.ReadFile(f.file())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, nil
	}
	if rec.Token == "" {
		return nil, nil
	}
	return &rec, nil
}

// Save writes the record to disk. The file holds a bearer token, so both
// the directory and the file are private to the user.
func (f *CredentialFile) Save(rec Record) error {
	if err := os.MkdirAll(f.configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.file(), data, 0600)
}

// Clear removes the record. Removing an absent record is not an error.
func (f *CredentialFile) Clear() error {
	err := os.Remove(f.file())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
