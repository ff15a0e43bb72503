package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"hotel_booking/internal/domain"
)

// AuthService registers users and issues bearer tokens. Each token carries a
// session id (jti) that must still exist in the session store, so logout
// revokes it before expiry.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionStore
	secret   []byte
	ttl      time.Duration
	cost     int
	now      func() time.Time
}

func NewAuthService(u domain.UserRepository, s domain.SessionStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: u, sessions: s, secret: []byte(secret), ttl: ttl, cost: bcrypt.DefaultCost, now: time.Now}
}

// WithBcryptCost lowers hashing cost, for tests.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.cost = cost
	return s
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (domain.User, error) {
	if err := Validate(req); err != nil {
		return domain.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.users.CreateUser(ctx, domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
}

// Login checks credentials and returns a signed token for a fresh session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, domain.User, error) {
	if err := Validate(req); err != nil {
		return "", domain.User{}, err
	}
	u, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.User{}, domain.ErrUnauthorized
	}
	if err != nil {
		return "", domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return "", domain.User{}, domain.ErrUnauthorized
	}

	sid, err := s.sessions.Create(ctx, u.ID, s.ttl)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("create session: %w", err)
	}
	now := s.now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(u.ID, 10),
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}).SignedString(s.secret)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("sign token: %w", err)
	}
	return tok, u, nil
}

func (s *AuthService) parse(token string) (*jwt.RegisteredClaims, error) {
	var c jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || c.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	return &c, nil
}

// Authenticate resolves a bearer token to the user id of a live session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (int64, error) {
	c, err := s.parse(token)
	if err != nil {
		return 0, err
	}
	uid, err := s.sessions.Lookup(ctx, c.ID)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	if strconv.FormatInt(uid, 10) != c.Subject {
		return 0, domain.ErrUnauthorized
	}
	return uid, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	c, err := s.parse(token)
	if err != nil {
		return err
	}
	return s.sessions.Delete(ctx, c.ID)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (domain.User, error) {
	return s.users.GetUser(ctx, userID)
}
