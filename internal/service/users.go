package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mikey2020/docs-cabinet-cp2/internal/access"
	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
	"github.com/mikey2020/docs-cabinet-cp2/internal/repository"
	"github.com/mikey2020/docs-cabinet-cp2/internal/utils"
)

// UserService handles signup and login and issues access tokens.
type UserService struct {
	users      UserStore
	secret     string
	tokenTTL   time.Duration
	bcryptCost int
	log        zerolog.Logger
}

// UserServiceConfig holds the collaborators and settings of a UserService.
type UserServiceConfig struct {
	Users      UserStore
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
	Logger     zerolog.Logger
}

// NewUserService creates a UserService. Zero TTL and cost take defaults.
func NewUserService(cfg UserServiceConfig) *UserService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = utils.DefaultBcryptCost
	}
	return &UserService{
		users:      cfg.Users,
		secret:     cfg.Secret,
		tokenTTL:   ttl,
		bcryptCost: cost,
		log:        cfg.Logger,
	}
}

// SignupInput is the payload of a signup request.
type SignupInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// Session is a signed-in user and the token issued for them.
type Session struct {
	User  *model.User
	Token utils.AccessToken
}

// Signup registers an ordinary user (role 0) and signs them in.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (Session, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimSpace(in.Username)
	if in.FirstName == "" || in.LastName == "" || in.Username == "" || in.Password == "" {
		return Session{}, access.New(access.KindInvalidSignupData, "")
	}

	u := &model.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
	}
	if err := s.users.Create(ctx, u, in.Password, s.bcryptCost); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return Session{}, access.New(access.KindUsernameTaken, "")
		}
		return Session{}, err
	}
	s.log.Info().Int64("user_id", u.ID).Msg("user signed up")
	return s.session(u)
}

// Login verifies the credentials and issues a fresh token. Unknown users
// and wrong passwords fail the same way.
func (s *UserService) Login(ctx context.Context, username, password string) (Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return Session{}, access.New(access.KindInvalidCredentials, "")
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Session{}, access.New(access.KindInvalidCredentials, "")
		}
		return Session{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, access.New(access.KindInvalidCredentials, "")
	}
	return s.session(u)
}

func (s *UserService) session(u *model.User) (Session, error) {
	tok, err := utils.NewAccessToken(s.secret, u.Principal(), s.tokenTTL)
	if err != nil {
		return Session{}, err
	}
	return Session{User: u, Token: tok}, nil
}
