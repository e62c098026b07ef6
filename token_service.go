package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenService issues and verifies signed session tokens
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	TokenValidator
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        jwt.ClaimStrings
	logger          Logger
	now             func() time.Time
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, tokenExpiration int, issuer string, audience jwt.ClaimStrings, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey:      signingKey,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		audience:        audience,
		logger:          logger,
		now:             time.Now,
	}
}

// WithClock overrides the time source (useful for tests)
func (ts *TokenServiceImpl) WithClock(clock func() time.Time) *TokenServiceImpl {
	if clock != nil {
		ts.now = clock
	}
	return ts
}

// Generate creates a signed token carrying the identity's claim set
func (ts *TokenServiceImpl) Generate(identity Identity) (string, error) {
	if identity == nil {
		return "", goerrors.New("identity must not be nil", goerrors.CategoryInternal)
	}

	now := ts.now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.tokenExpiration) * time.Hour)),
		},
		UID:       identity.ID(),
		UserEmail: identity.Email(),
		Name:      identity.FullName(),
		UserRole:  identity.Role(),
	}

	if link, ok := identity.PatientLink(); ok {
		claims.PatientID = link
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and verifies a token string, returning structured claims.
// Signature, issuer, audience, and the not-before/expiry window are all
// checked; every failure collapses into ErrUnauthenticated so callers cannot
// probe which check rejected the token. The cause is logged at debug level.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, goerrors.New("unexpected signing method", goerrors.CategoryAuth)
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		ts.logger.Debug("token rejected", "error", err)
		return nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Debug("token claims could not be decoded")
		return nil, ErrUnauthenticated
	}

	return claims, nil
}

var _ TokenService = (*TokenServiceImpl)(nil)
