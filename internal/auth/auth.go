// Package auth implements sign-up, sign-in and sign-out against the Chorify API.
// Each operation stores or clears the session token and tells the front end
// where to go next.
package auth

import (
	"context"
	"net/http"

	"github.com/chorify/chorify/internal/common/apperrors"
	"github.com/chorify/chorify/internal/common/httpclient"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Endpoints relative to the API base address.
const (
	RegistrationEndpoint = "auth/registration/"
	LoginEndpoint        = "auth/login/"
)

// Messages shown to the user on failure. Server details are only logged.
const (
	RegistrationFailedMsg = "Registration failed. Please try again."
	LoginFailedMsg        = "Login failed. Please try again."
)

// Target is the view a front end should move to after an auth operation.
type Target int

const (
	None Target = iota
	Main
	Login
)

func (t Target) String() string {
	switch t {
	case Main:
		return "main"
	case Login:
		return "login"
	default:
		return "none"
	}
}

// Result is the outcome of an auth operation. Message is empty on success.
type Result struct {
	Navigate Target
	Message  string
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Message == ""
}

// TokenStore is where the auth token is kept. *session.Session implements it.
type TokenStore interface {
	SetToken(value string)
	ClearToken()
}

// SignUpRequest is the registration form.
type SignUpRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Password1 string `json:"password1" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Flow performs auth operations. It is safe for concurrent use.
type Flow struct {
	client   httpclient.HTTPClientInterface
	tokens   TokenStore
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewFlow returns a Flow that talks to client and stores tokens in tokens.
func NewFlow(client httpclient.HTTPClientInterface, tokens TokenStore, logger zerolog.Logger) *Flow {
	return &Flow{
		client:   client,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// SignUp registers a new account. A token returned by the server is stored.
// When the server answers 204 No Content no token is available, but the
// result still navigates to the main view.
func (f *Flow) SignUp(ctx context.Context, req SignUpRequest) Result {
	if err := f.validate.Struct(req); err != nil {
		f.logger.Error().Err(apperrors.ErrValidation.Err(err)).Msg("registration form incomplete")
		return Result{Message: RegistrationFailedMsg}
	}

	rsp, err := f.client.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodPost,
		Path:   RegistrationEndpoint,
		Body:   req,
	})
	if err != nil {
		f.logFailure("registration", err)
		return Result{Message: RegistrationFailedMsg}
	}

	if rsp.StatusCode == http.StatusNoContent || rsp.Empty() {
		f.logger.Info().Str("username", req.Username).Msg("registered without token")
		return Result{Navigate: Main}
	}
	if key := rsp.Get("key"); key.Exists() && key.String() != "" {
		f.tokens.SetToken(key.String())
	}
	f.logger.Info().Str("username", req.Username).Msg("registered")
	return Result{Navigate: Main}
}

// SignIn exchanges credentials for a token. identifier is a username or an
// e-mail address.
func (f *Flow) SignIn(ctx context.Context, identifier, password string) Result {
	req := loginRequest{Username: identifier, Password: password}
	if err := f.validate.Struct(req); err != nil {
		f.logger.Error().Err(apperrors.ErrValidation.Err(err)).Msg("login form incomplete")
		return Result{Message: LoginFailedMsg}
	}

	rsp, err := f.client.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodPost,
		Path:   LoginEndpoint,
		Body:   req,
	})
	if err != nil {
		f.logFailure("login", err)
		return Result{Message: LoginFailedMsg}
	}

	key := rsp.Get("key")
	if key.String() == "" {
		f.logFailure("login", apperrors.ErrMalformedResponse.New("login response has no key"))
		return Result{Message: LoginFailedMsg}
	}
	f.tokens.SetToken(key.String())
	f.logger.Info().Str("username", identifier).Msg("logged in")
	return Result{Navigate: Main}
}

// SignOut forgets the token. It never fails and may be called repeatedly.
func (f *Flow) SignOut() Result {
	f.tokens.ClearToken()
	return Result{Navigate: Login}
}

func (f *Flow) logFailure(op string, err error) {
	ev := f.logger.Error().Err(err).Str("op", op)
	if status := httpclient.StatusCode(err); status != 0 {
		ev = ev.Int("status", status)
	}
	ev.Msgf("%s failed", op)
}
