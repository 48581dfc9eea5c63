package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/zamazon/internal/client/client"
	"github.com/dmitrijs2005/zamazon/internal/client/format"
	"github.com/dmitrijs2005/zamazon/internal/client/models"
	"github.com/dmitrijs2005/zamazon/internal/client/services"
	"github.com/dmitrijs2005/zamazon/internal/client/views"
)

var errInvalidCredentials = errors.New("Invalid email or password")

// interactive pages prompt for input as soon as they are shown.
type interactive interface {
	Run(ctx context.Context) (views.Outcome, error)
}

type prompter interface {
	text(prompt string) (string, error)
	password(prompt string) (string, error)
}

// fieldErrors is a form rejected by the backend, one line per field message.
type fieldErrors []string

func (f fieldErrors) Error() string { return strings.Join(f, "\n") }

var retryCommands = []views.Command{{Name: "submit", Help: "fill in the form again"}}

type loginPage struct {
	auth services.AuthService
	in   prompter
}

func (p *loginPage) Title() string                  { return "Login" }
func (p *loginPage) Load(ctx context.Context) error { return nil }
func (p *loginPage) Commands() []views.Command      { return retryCommands }

func (p *loginPage) Render(w io.Writer) {
	fmt.Fprintln(w, format.Heading("Login"))
	fmt.Fprintln(w, format.Muted("Sign in with your email and password."))
}

func (p *loginPage) Handle(ctx context.Context, name string, args []string) (views.Outcome, error) {
	if name != "submit" {
		return views.Outcome{}, views.ErrUnknownCommand
	}
	return p.Run(ctx)
}

func (p *loginPage) Run(ctx context.Context) (views.Outcome, error) {
	email, err := p.in.text("Email")
	if err != nil {
		return views.Outcome{}, err
	}
	password, err := p.in.password("Password")
	if err != nil {
		return views.Outcome{}, err
	}

	if err := p.auth.Login(ctx, email, password); err != nil {
		return views.Outcome{}, loginError(err)
	}
	return views.Outcome{Notice: "Logged in.", Navigate: "/"}, nil
}

func loginError(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		if fe := apiErr.FieldErrors(); len(fe) > 0 {
			return fieldErrors(fe)
		}
	}
	if errors.Is(err, client.ErrUnauthorized) {
		return errInvalidCredentials
	}
	return err
}

type registerPage struct {
	auth services.AuthService
	in   prompter
}

func (p *registerPage) Title() string                  { return "Register" }
func (p *registerPage) Load(ctx context.Context) error { return nil }
func (p *registerPage) Commands() []views.Command      { return retryCommands }

func (p *registerPage) Render(w io.Writer) {
	fmt.Fprintln(w, format.Heading("Register"))
	fmt.Fprintln(w, format.Muted("Create a Zamazon account."))
}

func (p *registerPage) Handle(ctx context.Context, name string, args []string) (views.Outcome, error) {
	if name != "submit" {
		return views.Outcome{}, views.ErrUnknownCommand
	}
	return p.Run(ctx)
}

func (p *registerPage) Run(ctx context.Context) (views.Outcome, error) {
	var form services.RegisterForm
	fields := []struct {
		prompt string
		dst    *string
		secret bool
	}{
		{"First name", &form.Firstname, false},
		{"Last name", &form.Lastname, false},
		{"Email", &form.Email, false},
		{"Address", &form.Address, false},
		{"Password", &form.Password, true},
		{"Confirm password", &form.ConfirmPassword, true},
	}

	for _, f := range fields {
		read := p.in.text
		if f.secret {
			read = p.in.password
		}
		v, err := read(f.prompt)
		if err != nil {
			return views.Outcome{}, err
		}
		*f.dst = v
	}

	reg, err := p.auth.Register(ctx, form)
	if err != nil {
		return views.Outcome{}, err
	}
	return views.Outcome{Notice: registered(reg), Navigate: "/login"}, nil
}

func registered(reg models.Registration) string {
	if reg.Message != "" {
		return reg.Message
	}
	return "Registration successful. Please login."
}
