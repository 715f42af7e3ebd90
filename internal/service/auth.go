package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/utils"
)

// AuthConfig holds token and hashing settings.
type AuthConfig struct {
	JWTSecret    string
	AccessTTLMin int
	BcryptCost   int
}

// AuthService registers end users and logs in all three principal kinds.
type AuthService struct {
	users       UserStore
	admins      CredentialStore
	superadmins CredentialStore
	jobs        queue.Publisher
	cfg         AuthConfig
}

func NewAuthService(users UserStore, admins, superadmins CredentialStore, jobs queue.Publisher, cfg AuthConfig) *AuthService {
	return &AuthService{users: users, admins: admins, superadmins: superadmins, jobs: jobs, cfg: cfg}
}

// RegisterInput is the self-registration form.
type RegisterInput struct {
	Username    string
	Password    string
	Email       string
	PhoneNumber string
	Address     string
}

// Register creates an end user and queues a welcome email.  Every field is
// required, the password must be strong and the username is unique
// case-insensitively (repository.ErrUsernameExists).
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uint64, error) {
	in.Username = repository.NormalizeUsername(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Address = strings.TrimSpace(in.Address)
	if in.Username == "" || in.Password == "" || in.Email == "" || in.PhoneNumber == "" || in.Address == "" {
		return 0, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return 0, ErrInvalidInput
	}
	if !utils.IsPasswordStrong(in.Password) {
		return 0, ErrWeakPassword
	}
	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return 0, err
	}
	id, err := s.users.Create(ctx, model.User{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		Address:      in.Address,
	})
	if err != nil {
		return 0, err
	}
	job := queue.NewUserRegistered(queue.UserRegisteredJob{UserID: id, Username: in.Username, Email: in.Email})
	if err := s.jobs.Publish(ctx, job); err != nil {
		log.Warn().Err(err).Uint64("user_id", id).Msg("auth: welcome job not queued")
	}
	return id, nil
}

// Login verifies credentials for role and issues an access token.
func (s *AuthService) Login(ctx context.Context, role, username, password string) (utils.AccessToken, error) {
	var store CredentialStore
	switch role {
	case model.RoleUser:
		store = s.users
	case model.RoleAdmin:
		store = s.admins
	case model.RoleSuperadmin:
		store = s.superadmins
	default:
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return utils.AccessToken{}, ErrInvalidInput
	}
	cred, err := store.CredentialByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	if err != nil {
		return utils.AccessToken{}, err
	}
	if !utils.VerifyPassword(cred.PasswordHash, password) {
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	return utils.NewAccessToken(s.cfg.JWTSecret, cred.ID, role, s.cfg.AccessTTLMin)
}
