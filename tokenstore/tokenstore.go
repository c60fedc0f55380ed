// Package tokenstore persists the OAuth tokens a Bitrix24 portal hands to the
// application when it is installed.
//
// Three backends are provided: a JSON file (single-instance deployments),
// Redis and Postgres. All of them keep tokens per portal domain and merge
// new tokens into what is already stored.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("tokens not found")

// Tokens are the parts of the install payload the application keeps.
type Tokens struct {
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token"`
	ClientEndpoint string `json:"client_endpoint"`
	Expires        string `json:"expires"`
}

// Store saves and loads tokens per portal domain.
type Store interface {
	Save(ctx context.Context, domain string, t Tokens) error
	Load(ctx context.Context, domain string) (Tokens, error)
}

// FromAuth picks the token fields out of the "auth" part of a Bitrix24
// event payload. Everything else in auth is dropped.
func FromAuth(auth map[string]any) Tokens {
	get := func(k string) string {
		switch v := auth[k].(type) {
		case nil:
			return ""
		case string:
			return v
		default:
			return fmt.Sprint(v)
		}
	}
	return Tokens{
		AccessToken:    get("access_token"),
		RefreshToken:   get("refresh_token"),
		ClientEndpoint: get("client_endpoint"),
		Expires:        get("expires"),
	}
}

// Merge returns old updated with the non-empty fields of t.
func (t Tokens) Merge(old Tokens) Tokens {
	if t.AccessToken != "" {
		old.AccessToken = t.AccessToken
	}
	if t.RefreshToken != "" {
		old.RefreshToken = t.RefreshToken
	}
	if t.ClientEndpoint != "" {
		old.ClientEndpoint = t.ClientEndpoint
	}
	if t.Expires != "" {
		old.Expires = t.Expires
	}
	return old
}

// IsZero reports whether no field is set.
func (t Tokens) IsZero() bool {
	return t == Tokens{}
}

func checkDomain(domain string) error {
	if domain == "" {
		return errors.New("empty portal domain")
	}
	return nil
}
