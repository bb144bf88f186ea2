package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/yhkl-dev/qqm/domain"
)

// ErrNoSessionKey is returned by Login when the imported cookies lack qm_keyst
var ErrNoSessionKey = errors.New(strings.Join([]string{
	"Could not find QQ Music login cookies.",
	"",
	"Options:",
	"  1. Login to y.qq.com in your browser",
	"  2. Copy the Cookie header and run `qqm auth login --cookie '<header>'`",
	"  3. Or export cookies.txt and run `qqm auth login --cookie-file <path>`",
}, "\n"))

// ProfileFetcher validates a session against the remote service
type ProfileFetcher interface {
	Profile(ctx context.Context) (*domain.UserProfile, error)
}

// Manager holds the credential set of one profile for the lifetime of a command
type Manager struct {
	store   *Store
	profile string
	cookies Cookies
	source  string
	logger  *log.Entry
}

// NewManager loads the saved session of profile. A corrupt session file is
// reported in the log and treated as logged out.
func NewManager(store *Store, profile string) (*Manager, error) {
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}
	m := &Manager{
		store:   store,
		profile: profile,
		logger: log.WithFields(log.Fields{
			"module":  "auth",
			"profile": profile,
		}),
	}
	cookies, err := store.Load(profile)
	if err != nil {
		m.logger.Warnf("Ignoring saved session: %v", err)
	}
	m.cookies = cookies
	return m, nil
}

// Profile is the name this manager was loaded for
func (m *Manager) Profile() string {
	return m.profile
}

// Cookies returns the active credential set, nil when logged out
func (m *Manager) Cookies() map[string]string {
	return m.cookies
}

// CookieString renders the Cookie header for the active credential set
func (m *Manager) CookieString() string {
	if m.cookies == nil {
		return ""
	}
	return m.cookies.String()
}

// IsAuthenticated reports whether qm_keyst is present
func (m *Manager) IsAuthenticated() bool {
	return m.cookies.SessionKey() != ""
}

// Source names where the current cookies were imported from
func (m *Manager) Source() string {
	return m.source
}

// Login replaces the credential set and persists it
func (m *Manager) Login(cookies Cookies, source string) error {
	filtered := cookies.Filter()
	if filtered.SessionKey() == "" {
		return ErrNoSessionKey
	}
	if err := m.store.Save(m.profile, filtered); err != nil {
		return err
	}
	m.cookies = filtered
	m.source = source
	m.logger.Infof("Saved %d cookies from %s", len(filtered), source)
	return nil
}

// Logout forgets the credential set and removes the session file
func (m *Manager) Logout() error {
	m.cookies = nil
	m.source = ""
	return m.store.Clear(m.profile)
}

// CredentialFlags reports which required cookies are present
type CredentialFlags struct {
	SessionKey bool `json:"qm_keyst"`
	UIN        bool `json:"uin"`
}

// CheckResult is the outcome of Check
type CheckResult struct {
	Valid       bool            `json:"valid"`
	UserID      string          `json:"userId,omitempty"`
	Nickname    string          `json:"nickname,omitempty"`
	Error       string          `json:"error,omitempty"`
	Credentials CredentialFlags `json:"credentials"`
	Warnings    []string        `json:"warnings"`
}

// Check inspects the local credentials and, when they look complete, confirms
// them by fetching the account profile.
func (m *Manager) Check(ctx context.Context, fetcher ProfileFetcher) CheckResult {
	result := CheckResult{
		Credentials: CredentialFlags{
			SessionKey: m.cookies.SessionKey() != "",
			UIN:        m.cookies.UIN() != "",
		},
		Warnings: []string{},
	}

	if m.cookies == nil {
		result.Error = "Not logged in"
		result.Warnings = append(result.Warnings, "No session file found. Run `qqm auth login` to import cookies from your browser.")
		return result
	}
	if !result.Credentials.SessionKey {
		result.Error = "Missing credentials"
		result.Warnings = append(result.Warnings, "Missing qm_keyst cookie, login session not found")
		return result
	}

	profile, err := fetcher.Profile(ctx)
	if err != nil {
		result.Error = err.Error()
		result.Warnings = append(result.Warnings, "Session validation failed: "+err.Error())
		return result
	}
	result.Valid = true
	result.UserID = profile.ID
	result.Nickname = profile.Nickname
	return result
}
