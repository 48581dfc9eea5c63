// Package services contains the client's application services. This file
// holds authentication: the startup session verifier, login, registration
// and logout, each of which keeps the session store in step with the
// backend.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
	"github.com/dmitrijs2005/zamazon/internal/logging"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// AuthAPI is the part of the backend client used here.
type AuthAPI interface {
	AuthCheck(ctx context.Context) error
	Login(ctx context.Context, creds models.Credentials) error
	Logout(ctx context.Context) error
	Register(ctx context.Context, req models.RegisterRequest) (models.Registration, error)
}

// SessionWriter is the write side of the session store.
type SessionWriter interface {
	Write(ctx context.Context, status bool)
}

// RegisterForm is what the user types on the register page.
type RegisterForm struct {
	models.RegisterRequest
	ConfirmPassword string
}

// AuthService defines authentication operations for the shell.
//
// Contract:
//   - Verify: ask the backend whether the credential is still valid and
//     write the answer to the session. Any failure counts as "no".
//   - Login: on success write true; on failure leave the session alone.
//   - Logout: write false first, then tell the backend. The backend's
//     answer is returned for reporting only.
//   - Register: reject mismatched passwords locally, otherwise relay.
type AuthService interface {
	Verify(ctx context.Context) bool
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Register(ctx context.Context, form RegisterForm) (models.Registration, error)
}

type authService struct {
	api     AuthAPI
	session SessionWriter
	logger  logging.Logger
}

func NewAuthService(api AuthAPI, session SessionWriter, logger logging.Logger) AuthService {
	return &authService{api: api, session: session, logger: logger}
}

func (a *authService) Verify(ctx context.Context) bool {
	err := a.api.AuthCheck(ctx)
	if err != nil {
		a.logger.Debug(ctx, "session not confirmed", "error", err)
	}
	ok := err == nil
	a.session.Write(ctx, ok)
	return ok
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	if err := a.api.Login(ctx, models.Credentials{Email: email, Password: password}); err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	a.session.Write(ctx, true)
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.session.Write(ctx, false)

	if err := a.api.Logout(ctx); err != nil {
		a.logger.Warn(ctx, "backend logout failed", "error", err)
		return fmt.Errorf("logout error: %w", err)
	}
	return nil
}

func (a *authService) Register(ctx context.Context, form RegisterForm) (models.Registration, error) {
	if form.Password != form.ConfirmPassword {
		return models.Registration{}, ErrPasswordMismatch
	}

	reg, err := a.api.Register(ctx, form.RegisterRequest)
	if err != nil {
		return models.Registration{}, fmt.Errorf("register error: %w", err)
	}
	return reg, nil
}

// UnauthorizedNotifier is implemented by the backend client.
type UnauthorizedNotifier interface {
	OnUnauthorized(fn func(ctx context.Context))
}

// ReconcileUnauthorized makes every 401 from the backend write false to the
// session. Without it the session stays as it is until the next Verify.
func ReconcileUnauthorized(api UnauthorizedNotifier, session SessionWriter, logger logging.Logger) {
	api.OnUnauthorized(func(ctx context.Context) {
		logger.Info(ctx, "backend rejected credential, signing out locally")
		session.Write(ctx, false)
	})
}
