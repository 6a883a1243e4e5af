// Package session owns the process-wide authentication and quota state.
// It is initialized once with Restore and torn down with Logout; everything
// else reads it through the permissions.Session view.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"feeder-workbench/application/ports"
	"feeder-workbench/application/sagas"
	"feeder-workbench/domain/identity"
	pkgerrors "feeder-workbench/pkg/errors"
)

// wait before retrying a profile load that hit a network failure
var loginRetryDelay = 500 * time.Millisecond

// View is a copy of the session state for display
type View struct {
	Authenticated      bool                   `json:"authenticated"`
	Tier               identity.Tier          `json:"tier"`
	User               *identity.User         `json:"user,omitempty"`
	Subscription       *identity.Subscription `json:"subscription,omitempty"`
	Quota              *identity.Quota        `json:"quota,omitempty"`
	PendingSimulations int                    `json:"pending_simulations"`
}

// Manager holds the authentication state and the quota the identity service reported
type Manager struct {
	identity ports.IdentityService
	tokens   ports.TokenStore
	logger   *zap.Logger

	mu           sync.RWMutex
	user         *identity.User
	subscription *identity.Subscription
	quota        *identity.Quota
	// simulations issued since the last authoritative quota; memory only
	pending int
}

// NewManager creates an anonymous session manager
func NewManager(identitySvc ports.IdentityService, tokens ports.TokenStore, logger *zap.Logger) *Manager {
	return &Manager{
		identity: identitySvc,
		tokens:   tokens,
		logger:   logger,
	}
}

// Restore loads the persisted token and, if present, the profile behind it.
// A rejected or expired token is cleared and the session stays anonymous.
func (m *Manager) Restore(ctx context.Context) error {
	token := m.tokens.Token()
	if token == "" {
		m.logger.Info("No stored credential, starting anonymous session")
		return nil
	}
	if m.tokens.Expired(token) {
		m.logger.Info("Stored credential expired, starting anonymous session")
		m.Logout()
		return nil
	}

	if err := m.RefreshQuota(ctx); err != nil {
		m.logger.Warn("Session restore failed", zap.Error(err))
		return err
	}
	return nil
}

// Login completes an OAuth flow, stores the issued token and loads the full
// profile. If the profile cannot be loaded, the previous credential and
// session state are put back.
func (m *Manager) Login(ctx context.Context, provider, code, state string) (*View, error) {
	var res *ports.LoginResult
	previousToken := m.tokens.Token()
	previous := m.capture()

	err := sagas.New("login", m.logger).
		Step("exchange_code", func(ctx context.Context) error {
			var err error
			res, err = m.identity.OAuthCallback(ctx, provider, code, state)
			if err != nil {
				return err
			}
			if res.Token == "" {
				return pkgerrors.NewSessionExpired("identity service issued no token")
			}
			return nil
		}).
		CompensableStep("store_credential",
			func(context.Context) error {
				if err := m.tokens.Save(res.Token); err != nil {
					return pkgerrors.Wrap(err, "failed to store credential")
				}
				m.mu.Lock()
				user := res.User
				m.user = &user
				m.mu.Unlock()
				return nil
			},
			func(context.Context) error {
				m.restore(previous)
				if previousToken == "" {
					return m.tokens.Clear()
				}
				return m.tokens.Save(previousToken)
			},
		).
		Add(sagas.Step{
			Name:       "load_profile",
			Execute:    m.RefreshQuota,
			Retryable:  pkgerrors.IsNetworkFailure,
			MaxRetries: 1,
			RetryDelay: loginRetryDelay,
		}).
		Execute(ctx)
	if err != nil {
		return nil, err
	}

	m.logger.Info("Operator logged in",
		zap.String("user_id", res.User.ID),
		zap.String("provider", provider),
	)
	v := m.View()
	return &v, nil
}

type snapshot struct {
	user         *identity.User
	subscription *identity.Subscription
	quota        *identity.Quota
	pending      int
}

func (m *Manager) capture() snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return snapshot{user: m.user, subscription: m.subscription, quota: m.quota, pending: m.pending}
}

func (m *Manager) restore(s snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = s.user
	m.subscription = s.subscription
	m.quota = s.quota
	m.pending = s.pending
}

// AuthURL returns where to send the operator to start an OAuth flow
func (m *Manager) AuthURL(ctx context.Context, provider, state string) (*ports.AuthURL, error) {
	return m.identity.AuthURL(ctx, provider, state)
}

// RefreshToken exchanges the current token for a new one
func (m *Manager) RefreshToken(ctx context.Context) error {
	token := m.tokens.Token()
	if token == "" {
		return pkgerrors.NewSessionExpired("no credential to refresh")
	}
	creds, err := m.identity.Refresh(ctx, token)
	if err != nil {
		m.HandleError(err)
		return err
	}
	if err := m.tokens.Save(creds.Token); err != nil {
		return pkgerrors.Wrap(err, "failed to store credential")
	}
	return nil
}

// RefreshQuota reloads user, subscription and quota from the identity service.
// The authoritative quota replaces any optimistic estimate.
func (m *Manager) RefreshQuota(ctx context.Context) error {
	if m.tokens.Token() == "" {
		return nil
	}

	profile, err := m.identity.Me(ctx)
	if err != nil {
		m.HandleError(err)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user := profile.User
	m.user = &user
	m.subscription = profile.Subscription
	m.quota = profile.Quota
	m.pending = 0
	return nil
}

// Logout clears the stored token and resets all session state
func (m *Manager) Logout() {
	if err := m.tokens.Clear(); err != nil {
		m.logger.Warn("Failed to clear stored credential", zap.Error(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	m.subscription = nil
	m.quota = nil
	m.pending = 0
}

// HandleError forces a logout when an authoritative call rejected the credential
func (m *Manager) HandleError(err error) {
	if pkgerrors.IsSessionExpired(err) {
		m.logger.Warn("Credential rejected, forcing logout", zap.Error(err))
		m.Logout()
	}
}

// NoteSimulationIssued records a simulation the backend has not confirmed yet
func (m *Manager) NoteSimulationIssued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.quota != nil {
		m.pending++
	}
}

// IsAuthenticated implements permissions.Session
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// Tier implements permissions.Session
func (m *Manager) Tier() identity.Tier {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return identity.TierDemo
	}
	return m.user.SubscriptionTier
}

// Quota implements permissions.Session. Pending simulations are added to the
// reported usage so the gate can block before the backend confirms.
func (m *Manager) Quota() *identity.Quota {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.quota == nil {
		return nil
	}
	q := *m.quota
	q.UsedSimulationsToday += m.pending
	return &q
}

// View returns a copy of the session state
func (m *Manager) View() View {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v := View{
		Authenticated:      m.user != nil,
		Tier:               identity.TierDemo,
		PendingSimulations: m.pending,
	}
	if m.user != nil {
		u := *m.user
		v.User = &u
		v.Tier = u.SubscriptionTier
	}
	if m.subscription != nil {
		s := *m.subscription
		v.Subscription = &s
	}
	if m.quota != nil {
		q := *m.quota
		v.Quota = &q
	}
	return v
}
