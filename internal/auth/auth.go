package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"laundry-cycle-backend/config"
)

// Role is what a staff member does in the laundry room.
type Role string

const (
	RoleRunner    Role = "runner"
	RoleFrontDesk Role = "frontdesk"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleRunner || r == RoleFrontDesk
}

// Actor is the staff member behind a request.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Anonymous is used for every request when sessions are disabled.
var Anonymous = Actor{ID: "anonymous", Name: "anonymous", Role: RoleRunner}

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrInvalidRole  = errors.New("role must be runner or frontdesk")
)

// Resolver finds the actor behind a request.
type Resolver interface {
	CurrentActor(r *http.Request) (*Actor, bool)
}

// NewResolver returns a session resolver, or an anonymous one when auth is off.
func NewResolver(cfg config.AuthConfig) Resolver {
	if !cfg.Enabled {
		return AnonymousResolver{}
	}
	return &SessionResolver{
		codec:  NewSessionCodec(cfg.SessionSecret, cfg.TokenTTL),
		cookie: cfg.CookieName,
	}
}

// AnonymousResolver accepts every request as Anonymous.
type AnonymousResolver struct{}

func (AnonymousResolver) CurrentActor(*http.Request) (*Actor, bool) {
	a := Anonymous
	return &a, true
}

// SessionResolver reads a signed session token from a cookie or bearer header.
type SessionResolver struct {
	codec  *SessionCodec
	cookie string
}

func (s *SessionResolver) CurrentActor(r *http.Request) (*Actor, bool) {
	token := bearerToken(r)
	if c, err := r.Cookie(s.cookie); err == nil && c.Value != "" {
		token = c.Value
	}
	if token == "" {
		return nil, false
	}
	actor, err := s.codec.Parse(token)
	if err != nil {
		return nil, false
	}
	return actor, true
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

type sessionClaims struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	jwt.RegisteredClaims
}

// SessionCodec issues and verifies HS256 session tokens.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionCodec(secret string, ttl time.Duration) *SessionCodec {
	return &SessionCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for actor. An actor without an ID gets a fresh one.
func (c *SessionCodec) Issue(actor Actor) (string, error) {
	if !actor.Role.Valid() {
		return "", ErrInvalidRole
	}
	if actor.ID == "" {
		actor.ID = uuid.NewString()
	}

	now := c.now()
	claims := sessionClaims{
		Name: actor.Name,
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the actor it names.
func (c *SessionCodec) Parse(token string) (*Actor, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return &Actor{ID: claims.Subject, Name: claims.Name, Role: claims.Role}, nil
}

type actorKey struct{}

// WithActor stores actor in ctx.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// FromContext returns the actor stored by WithActor.
func FromContext(ctx context.Context) (*Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(*Actor)
	return a, ok
}
