package services

import (
	"context"
	"strings"

	"github.com/lumenlive/backend/internal/apperr"
	"github.com/lumenlive/backend/internal/auth"
	"github.com/lumenlive/backend/internal/models"
	repo "github.com/lumenlive/backend/internal/repository"
)

type UserService struct {
	users   repo.Users
	wallets repo.Wallets
	admin   *AdminService
	notify  *NotificationService
}

func NewUserService(users repo.Users, wallets repo.Wallets, admin *AdminService, notify *NotificationService) *UserService {
	return &UserService{users: users, wallets: wallets, admin: admin, notify: notify}
}

type RegisterParams struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

func (s *UserService) Register(ctx context.Context, p RegisterParams) (models.User, error) {
	if err := s.admin.CheckFeature(models.FeatureRegistration); err != nil {
		return models.User{}, err
	}
	if len(p.Password) < 8 {
		return models.User{}, apperr.Validation("password must be at least 8 characters")
	}
	if p.DisplayName == "" {
		p.DisplayName = p.Username
	}
	u := models.User{
		Username:    strings.TrimSpace(p.Username),
		Email:       strings.ToLower(strings.TrimSpace(p.Email)),
		DisplayName: strings.TrimSpace(p.DisplayName),
	}
	if err := u.Validate(); err != nil {
		return models.User{}, apperr.Validation(err.Error())
	}
	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = hash

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	if _, err := s.wallets.GetOrCreate(ctx, created.ID); err != nil {
		return models.User{}, err
	}
	s.notify.Push(created.ID, models.NotifyAccount, "Welcome", "Your account is ready.", created.ID)
	return created, nil
}

// Login verifies credentials and account standing. Callers mint the token
// pair; invalid credentials are reported as a generic permission error so the
// response does not reveal whether the email exists.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if e := apperr.From(err); e != nil && e.Kind == apperr.KindNotFound {
			return models.User{}, apperr.Permission("invalid credentials")
		}
		return models.User{}, err
	}
	if auth.VerifyPassword(password, u.PasswordHash) != nil {
		return models.User{}, apperr.Permission("invalid credentials")
	}
	if u.Status != models.StatusActive {
		return models.User{}, apperr.Permission("account is " + string(u.Status))
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Actor builds the capability view minted into tokens.
func (s *UserService) Actor(u models.User) models.Actor {
	return models.Actor{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Permissions: u.Permissions,
	}
}
