// Package session owns the cached identity: who is logged in, their role,
// the ID token replayed to the remote API, and the remembered shipping
// address. All of it lives in the device store under well-known keys; the
// remote API is the actual authority on access.
package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/config"
	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/internal/orderapi"
	"github.com/david-git-2/Wholesale-UK/internal/repository"
	"github.com/david-git-2/Wholesale-UK/pkg/errors"
)

// LoginAPI is the slice of the order API the session needs
type LoginAPI interface {
	Login(ctx context.Context, email string) (*orderapi.LoginResponse, error)
}

// Manager caches and resolves the current identity
type Manager struct {
	store  repository.Store
	api    LoginAPI
	keys   config.StorageConfig
	logger *zap.Logger
}

// NewManager creates a session manager
func NewManager(store repository.Store, api LoginAPI, keys config.StorageConfig, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, api: api, keys: keys, logger: logger}
}

// Login runs the remote access check and caches the resulting identity and
// token. The remote decides role and admin flag.
func (m *Manager) Login(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, &errors.ErrValidation{Message: "email is required"}
	}

	resp, err := m.api.Login(ctx, email)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:   resp.Email,
		Name:    resp.Name,
		Role:    resp.Role,
		IsAdmin: resp.IsAdmin,
	}
	if err := m.store.Put(m.keys.UserKey, user); err != nil {
		return nil, err
	}
	if resp.Token != "" {
		if err := m.store.Put(m.keys.TokenKey, resp.Token); err != nil {
			m.logger.Warn("Failed to cache ID token", zap.Error(err))
		}
	}

	m.logger.Info("User logged in", zap.String("email", user.Email), zap.Bool("admin", user.Admin()))
	return user, nil
}

// CurrentUser returns the cached identity, if any
func (m *Manager) CurrentUser() (*domain.User, bool) {
	var user domain.User
	if !m.store.Get(m.keys.UserKey, &user) || user.Email == "" {
		return nil, false
	}
	return &user, true
}

// RequireUser returns the cached identity or an unauthorized error
func (m *Manager) RequireUser() (*domain.User, error) {
	user, ok := m.CurrentUser()
	if !ok {
		return nil, &errors.ErrUnauthorized{Message: "please login first"}
	}
	return user, nil
}

// Logout drops the cached identity and token. The shipping address stays;
// it is convenience data, not a credential.
func (m *Manager) Logout() {
	if err := m.store.Delete(m.keys.UserKey); err != nil {
		m.logger.Warn("Failed to clear cached user", zap.Error(err))
	}
	if err := m.store.Delete(m.keys.TokenKey); err != nil {
		m.logger.Warn("Failed to clear cached token", zap.Error(err))
	}
}

// SaveShipping remembers the last-used shipping address
func (m *Manager) SaveShipping(s domain.ShippingAddress) error {
	return m.store.Put(m.keys.ShippingKey, s)
}

// Shipping returns the remembered shipping address, if any
func (m *Manager) Shipping() (domain.ShippingAddress, bool) {
	var s domain.ShippingAddress
	if !m.store.Get(m.keys.ShippingKey, &s) {
		return domain.ShippingAddress{}, false
	}
	return s, true
}
