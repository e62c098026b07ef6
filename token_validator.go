package identity

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrUnauthenticated
	}
	return f(tokenString)
}

// MultiTokenValidator tries validators in order until one succeeds. Useful
// during signing-key rotation, where tokens issued under the previous key
// must remain verifiable until they expire.
type MultiTokenValidator struct {
	validators []TokenValidator
}

// NewMultiTokenValidator filters nil validators and returns a composite validator.
func NewMultiTokenValidator(validators ...TokenValidator) *MultiTokenValidator {
	filtered := make([]TokenValidator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			filtered = append(filtered, v)
		}
	}
	return &MultiTokenValidator{validators: filtered}
}

// Validate satisfies the TokenValidator interface. Individual failures are
// opaque, so every validator gets a chance before the composite rejects.
func (m *MultiTokenValidator) Validate(tokenString string) (AuthClaims, error) {
	for _, v := range m.validators {
		claims, err := v.Validate(tokenString)
		if err == nil {
			return claims, nil
		}
	}
	return nil, ErrUnauthenticated
}
