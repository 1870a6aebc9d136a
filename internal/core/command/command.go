// Package command implements the serialized write path.
//
// All state mutations (create, revoke, extend) are expressed as commands,
// submitted to a queue, and applied by a single executor goroutine. The
// executor updates the durable store first and the validation cache
// second, so a cache entry never precedes its store row.
package command

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/amplify-platform/ampauth/internal/core/domain"
)

// Kind discriminates command variants.
type Kind string

const (
	KindCreate Kind = "create_token"
	KindRevoke Kind = "revoke_token"
	KindExtend Kind = "extend_token"
)

// CreateToken carries the payload of a token creation command. TTLDays
// nil means the token never expires.
type CreateToken struct {
	Name    string
	Scopes  []string
	TTLDays *int
}

// RevokeToken carries the payload of a revocation command.
type RevokeToken struct {
	TokenID string
}

// ExtendToken carries the payload of an expiry extension command.
type ExtendToken struct {
	TokenID string
	TTLDays int
}

// Result is the outcome of one applied command. Plaintext is set only
// for create commands and is never stored.
type Result struct {
	Record    *domain.TokenRecord
	Plaintext string
	Err       error
}

// Command is one unit of work for the executor. Exactly one of the
// payload fields is set, matching Kind. The executor resolves each
// command exactly once via its result channel.
type Command struct {
	ID          string
	Kind        Kind
	SubmittedAt time.Time

	Create *CreateToken
	Revoke *RevokeToken
	Extend *ExtendToken

	result chan Result
}

func newCommand(kind Kind) *Command {
	return &Command{
		ID:          "ampcmd-" + strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()),
		Kind:        kind,
		SubmittedAt: time.Now().UTC(),
		result:      make(chan Result, 1),
	}
}

// NewCreate builds a create command.
func NewCreate(name string, scopes []string, ttlDays *int) *Command {
	cmd := newCommand(KindCreate)
	cmd.Create = &CreateToken{Name: name, Scopes: scopes, TTLDays: ttlDays}
	return cmd
}

// NewRevoke builds a revoke command.
func NewRevoke(tokenID string) *Command {
	cmd := newCommand(KindRevoke)
	cmd.Revoke = &RevokeToken{TokenID: tokenID}
	return cmd
}

// NewExtend builds an extend command.
func NewExtend(tokenID string, ttlDays int) *Command {
	cmd := newCommand(KindExtend)
	cmd.Extend = &ExtendToken{TokenID: tokenID, TTLDays: ttlDays}
	return cmd
}

func (c *Command) resolve(res Result) {
	c.result <- res
}
