// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

const MaxDisplayNameLen = 36

var (
	ErrNameTooLong = errors.New("display name too long")
	ErrNameEmpty   = errors.New("display name empty")
)

// Identity is what the external auth service resolves a token into.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// Profile is the presentable part of a connection, shared with the peer
// on pairing. All fields are optional; an anonymous connection has none.
type Profile struct {
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

func (p *Profile) SetName(name string) error {
	if len(name) == 0 {
		return ErrNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return ErrNameTooLong
	}
	p.Name = name
	return nil
}
