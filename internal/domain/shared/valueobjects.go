// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UserID represents a unique user identifier (UUID format).
type UserID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the user ID is a valid UUID.
func (u UserID) IsValid() bool {
	return uuidRegex.MatchString(string(u))
}

// String returns the string representation.
func (u UserID) String() string {
	return string(u)
}

// NewUserID creates a new UserID with validation.
func NewUserID(id string) (UserID, error) {
	uid := UserID(strings.TrimSpace(id))
	if !uid.IsValid() {
		return "", ErrInvalidID
	}
	return uid, nil
}

// Email represents a validated email address.
type Email string

// Simple email validation - full RFC 5322 is overkill here.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsValid checks if the email has a plausible format.
func (e Email) IsValid() bool {
	return emailRegex.MatchString(string(e))
}

// String returns the string representation.
func (e Email) String() string {
	return string(e)
}

// Normalize returns a normalized (lowercase, trimmed) version of the email.
func (e Email) Normalize() Email {
	return Email(strings.ToLower(strings.TrimSpace(string(e))))
}

// NewEmail creates a new Email with validation.
func NewEmail(raw string) (Email, error) {
	e := Email(raw).Normalize()
	if !e.IsValid() {
		return "", ErrInvalidEmail
	}
	return e, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Pair - canonical unordered user pair
// ═══════════════════════════════════════════════════════════════════════════

// Pair represents an unordered pair of user IDs in canonical order
// (lexicographically smaller ID first). Match requests and connections
// between two users are keyed by their canonical pair, which is what makes
// the "at most one request per pair" uniqueness enforceable in storage.
type Pair struct {
	// Low is the lexicographically smaller user ID.
	Low UserID

	// High is the lexicographically larger user ID.
	High UserID
}

// NewPair creates a canonical pair from two user IDs in any order.
func NewPair(a, b UserID) Pair {
	if string(a) <= string(b) {
		return Pair{Low: a, High: b}
	}
	return Pair{Low: b, High: a}
}

// Contains reports whether the pair involves the given user.
func (p Pair) Contains(id UserID) bool {
	return p.Low == id || p.High == id
}

// Other returns the other member of the pair.
func (p Pair) Other(id UserID) UserID {
	if p.Low == id {
		return p.High
	}
	return p.Low
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination
// ═══════════════════════════════════════════════════════════════════════════

// Pagination describes a limit/offset window for list queries.
type Pagination struct {
	Limit  int
	Offset int
}

// Normalize clamps the pagination to sane bounds.
func (p Pagination) Normalize(defaultLimit, maxLimit int) Pagination {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
