package identity

import (
	"log"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// DefaultTokenExpiration is the token lifetime in hours.
	DefaultTokenExpiration = 24
	// DefaultMinPasswordLength is the minimum accepted password length.
	DefaultMinPasswordLength = 6
)

// Options is the concrete Config implementation. A missing signing key is a
// startup error: call Validate (or MustValidate) before wiring services.
type Options struct {
	SigningKey        string
	Issuer            string
	Audience          []string
	TokenExpiration   int
	MinPasswordLength int
}

var _ Config = Options{}

func (o Options) GetSigningKey() string { return o.SigningKey }

func (o Options) GetIssuer() string { return o.Issuer }

func (o Options) GetAudience() []string { return o.Audience }

func (o Options) GetTokenExpiration() int {
	if o.TokenExpiration <= 0 {
		return DefaultTokenExpiration
	}
	return o.TokenExpiration
}

func (o Options) GetMinPasswordLength() int {
	if o.MinPasswordLength <= 0 {
		return DefaultMinPasswordLength
	}
	return o.MinPasswordLength
}

// Validate ensures the configuration can issue and verify tokens.
func (o Options) Validate() error {
	if o.SigningKey == "" {
		return goerrors.New("signing key is not configured", goerrors.CategoryInternal).
			WithTextCode(TextCodeConfiguration)
	}
	return nil
}

// MustValidate panics on invalid configuration. Meant for process startup.
func (o Options) MustValidate() Options {
	if err := o.Validate(); err != nil {
		log.Panic(err)
	}
	return o
}
