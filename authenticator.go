package identity

import (
	"context"
	"reflect"
	"time"
)

// LoginSession is the result of a successful authentication: the signed
// token plus the claim set it encodes.
type LoginSession struct {
	Token   string         `json:"token"`
	Claims  AuthClaims     `json:"-"`
	Session *SessionObject `json:"session"`
}

type Auther struct {
	provider        IdentityProvider
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        []string
	logger          Logger
	tokenService    TokenService
	tokenValidator  TokenValidator
	activitySink    ActivitySink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:        provider,
		signingKey:      []byte(opts.GetSigningKey()),
		tokenExpiration: opts.GetTokenExpiration(),
		audience:        opts.GetAudience(),
		issuer:          opts.GetIssuer(),
		logger:          defLogger{},
		tokenService:    tokenService,
		activitySink:    noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenExpiration,
		s.issuer,
		s.audience,
		logger,
	)
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithTokenValidator sets a custom token validator, e.g. a
// MultiTokenValidator spanning rotated signing keys.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	s.tokenValidator = validator
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and mints a fresh session. The provider
// already collapsed unknown/inactive/mismatch into ErrInvalidCredentials.
func (s *Auther) Login(ctx context.Context, email, password string) (*LoginSession, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"email": email,
			"error": ErrInvalidCredentials.Error(),
		})
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, s.actorFromIdentity(identity), identity.ID(), map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}

	claims, err := s.tokenService.Validate(token)
	if err != nil {
		return nil, err
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		return nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, s.actorFromIdentity(identity), identity.ID(), map[string]any{
		"email": email,
	})

	return &LoginSession{
		Token:   token,
		Claims:  claims,
		Session: session,
	}, nil
}

// SessionFromToken verifies a bearer token and returns the session it encodes.
func (s Auther) SessionFromToken(raw string) (Session, error) {
	validator := s.tokenValidator
	if validator == nil {
		validator = s.tokenService
	}

	claims, err := validator.Validate(raw)
	if err != nil {
		s.logger.Debug("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		s.logger.Error("SessionFromToken failed to create session from claims", "error", err)
		return nil, err
	}

	return session, nil
}

// IdentityFromSession re-resolves the identity behind a session against the
// current store state.
func (s *Auther) IdentityFromSession(ctx context.Context, session Session) (Identity, error) {
	identity, err := s.provider.FindIdentityByIdentifier(ctx, session.GetUserID())
	if err != nil {
		s.logger.Error("IdentityFromSession find identity by identifier", "error", err)
		return nil, err
	}

	return identity, nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, actor ActorRef, accountID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		Actor:     actor,
		AccountID: accountID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}

func (s *Auther) actorFromIdentity(identity Identity) ActorRef {
	if identity == nil {
		return ActorRef{Type: "unknown"}
	}

	return ActorRef{
		ID:   identity.ID(),
		Type: "user",
	}
}

var _ Authenticator = (*Auther)(nil)
