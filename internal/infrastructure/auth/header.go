package auth

import (
	"errors"
	"strings"
)

// Scheme is an authorization header scheme
type Scheme string

const (
	SchemeBasic  Scheme = "basic"
	SchemeBearer Scheme = "bearer"
)

// Header parsing errors. Each makes the presentation malformed.
var (
	ErrMissingAuthorization = errors.New("missing authorization header")
	ErrUnsupportedScheme    = errors.New("authorization scheme must be basic or bearer")
	ErrMissingPayload       = errors.New("missing credentials in authorization")
)

// Presentation is a parsed authorization header
type Presentation struct {
	Scheme  Scheme
	Payload string
}

// ParseAuthorizationHeader splits "<scheme> <payload>". The scheme is
// matched case-insensitively.
func ParseAuthorizationHeader(header string) (Presentation, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Presentation{}, ErrMissingAuthorization
	}

	scheme, payload, _ := strings.Cut(header, " ")
	switch Scheme(strings.ToLower(scheme)) {
	case SchemeBasic:
		scheme = string(SchemeBasic)
	case SchemeBearer:
		scheme = string(SchemeBearer)
	default:
		return Presentation{}, ErrUnsupportedScheme
	}

	payload = strings.TrimSpace(payload)
	if payload == "" {
		return Presentation{}, ErrMissingPayload
	}
	return Presentation{Scheme: Scheme(scheme), Payload: payload}, nil
}

// BasicCredentials is a login and password pair
type BasicCredentials struct {
	Login    string
	Password string
}

// DecodeBasic reads a basic payload as raw "login:password", splitting on
// the first colon, then applies the legacy double-encoding fallback.
func DecodeBasic(payload string) BasicCredentials {
	login, password, _ := strings.Cut(payload, ":")
	creds := BasicCredentials{Login: login, Password: password}
	if decoded, ok := decodeLegacyBasic(creds); ok {
		return decoded
	}
	return creds
}
