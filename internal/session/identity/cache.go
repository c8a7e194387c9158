package identity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// storedSession is the on-disk and in-memory session record. The
// refresh token outlives the ID token, so an expired cache is still
// usable: the token source refreshes it on first use.
type storedSession struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	IDToken      string    `json:"idToken"`
	RefreshToken string    `json:"refreshToken"`
	Expiry       time.Time `json:"expiry"`
}

// DefaultCachePath returns the session file under the user config dir.
func DefaultCachePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, "taskdeck", "session.json"), nil
}

func loadCache(path string) (*storedSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("corrupt session cache: %w", err)
	}
	if stored.RefreshToken == "" || stored.UserID == "" {
		return nil, fmt.Errorf("incomplete session cache")
	}
	return &stored, nil
}

func saveCache(path string, stored *storedSession) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func removeCache(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
