package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultProfile is used when --profile is not given
const DefaultProfile = "default"

const sessionFile = "session.json"

// Store persists one cookie set per profile under <base>/profiles/<name>/session.json
type Store struct {
	baseDir string
	logger  *log.Entry
}

// NewStore returns a Store rooted at baseDir
func NewStore(baseDir string) *Store {
	return &Store{
		baseDir: baseDir,
		logger: log.WithFields(log.Fields{
			"module": "auth",
		}),
	}
}

// BaseDir is the root of the store
func (s *Store) BaseDir() string {
	return s.baseDir
}

// ValidateProfile rejects names that would escape the profiles directory
func ValidateProfile(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return errors.Errorf("invalid profile name %q", name)
	}
	return nil
}

func (s *Store) profileDir(profile string) string {
	return filepath.Join(s.baseDir, "profiles", profile)
}

func (s *Store) sessionPath(profile string) string {
	return filepath.Join(s.profileDir(profile), sessionFile)
}

// Migrate moves a pre-profile <base>/session.json into the default profile
func (s *Store) Migrate() error {
	oldFile := filepath.Join(s.baseDir, sessionFile)
	newFile := s.sessionPath(DefaultProfile)
	if _, err := os.Stat(oldFile); err != nil {
		return nil
	}
	if _, err := os.Stat(newFile); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(newFile), 0o700); err != nil {
		return errors.Wrap(err, "failed to create profile directory")
	}
	if err := os.Rename(oldFile, newFile); err != nil {
		return errors.Wrap(err, "failed to migrate session file")
	}
	s.logger.Infof("Migrated %s to profile %q", oldFile, DefaultProfile)
	return nil
}

// Load returns the saved cookies of profile, or nil when none are saved
func (s *Store) Load(profile string) (Cookies, error) {
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.sessionPath(profile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read session file")
	}
	var cookies Cookies
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, errors.Wrapf(err, "corrupt session file %s", s.sessionPath(profile))
	}
	return cookies, nil
}

// Save writes cookies for profile, readable only by the current user
func (s *Store) Save(profile string, cookies Cookies) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}
	if err := os.MkdirAll(s.profileDir(profile), 0o700); err != nil {
		return errors.Wrap(err, "failed to create profile directory")
	}
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode session")
	}
	if err := os.WriteFile(s.sessionPath(profile), data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write session file")
	}
	return nil
}

// Clear removes the session of profile. Clearing a missing session is not an error.
func (s *Store) Clear(profile string) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}
	if err := os.Remove(s.sessionPath(profile)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove session file")
	}
	return nil
}

// Profiles lists profile names that have a saved session, sorted
func (s *Store) Profiles() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, "profiles"))
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list profiles")
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(s.sessionPath(e.Name())); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
