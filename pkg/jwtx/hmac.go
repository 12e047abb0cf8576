package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
	Validate() error
}

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	// ErrMissingSubject reports claims signed without a subject. This is a
	// programmer error at the call site, never a runtime condition.
	ErrMissingSubject = errors.New("jwtx: claims missing subject")

	ErrUnknownAlg   = errors.New("jwtx: unknown signing algorithm")
	ErrEmptySecret  = errors.New("jwtx: empty signing secret")
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// hmacMethod resolves an algorithm identifier to its HMAC signing method.
// Only symmetric algorithms are supported; a token claiming anything else is
// rejected at verification time regardless of its signature.
func hmacMethod(alg string) (*jwt.SigningMethodHMAC, error) {
	switch alg {
	case jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlg, alg)
	}
}

// HMACSigner implements the Signer interface using an HMAC-SHA family
// algorithm and a process-wide symmetric secret.
type HMACSigner struct {
	method *jwt.SigningMethodHMAC
	secret []byte
}

// NewSignerHMAC creates a signer for the given algorithm (HS256, HS384 or
// HS512) and secret. An empty secret is a configuration error.
func NewSignerHMAC(alg string, secret []byte) (*HMACSigner, error) {
	method, err := hmacMethod(alg)
	if err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &HMACSigner{method: method, secret: secret}, nil
}

func (s *HMACSigner) Alg() string { return s.method.Alg() }

// Sign takes your claims and turns them into a signed JWT string. Claims
// without a subject fail fast before any token is produced.
func (s *HMACSigner) Sign(claims Claims) (string, error) {
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}

	t := jwt.NewWithClaims(s.method, claims)
	return t.SignedString(s.secret)
}

// Validate does a quick sanity check to make sure we actually have a secret.
func (s *HMACSigner) Validate() error {
	if len(s.secret) == 0 {
		return ErrEmptySecret
	}
	return nil
}

// HMACVerifier validates JWTs signed with the matching HMAC algorithm and
// secret. It is a pure function of (token, secret, current time).
type HMACVerifier struct {
	method *jwt.SigningMethodHMAC
	secret []byte
	issuer string
}

// NewVerifierHMAC creates a verifier bound to one algorithm and secret.
// Tokens signed with any other algorithm are rejected even when otherwise
// well-formed, which closes the usual downgrade/confusion hole.
func NewVerifierHMAC(alg string, secret []byte, issuer string) (*HMACVerifier, error) {
	method, err := hmacMethod(alg)
	if err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &HMACVerifier{method: method, secret: secret, issuer: issuer}, nil
}

// Verify validates the JWT string and returns its parsed Claims. Expiry is
// checked with no leeway; ErrExpired and the invalid family are distinct so
// callers can log the difference, even though both map to the same 401.
func (v *HMACVerifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{v.method.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		default:
			return Claims{}, fmt.Errorf("%w: %w", ErrInvalidClaim, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}
