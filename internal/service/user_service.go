package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/internal/repository"
	"github.com/d60-Lab/streamhub/pkg/apperr"
	"github.com/d60-Lab/streamhub/pkg/objectid"
)

// RegisterInput 注册信息
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Profile(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	fullName := strings.TrimSpace(in.FullName)
	if username == "" || email == "" || fullName == "" || in.Password == "" {
		return nil, apperr.InvalidArgument("all fields are required")
	}
	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, storeErr(err, "user not found")
	}
	if exists {
		return nil, apperr.Conflict("user with email or username already exists", nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.InvalidArgument("password can not be hashed")
	}
	u := &model.User{
		ID:       objectid.New(),
		Username: username,
		Email:    email,
		FullName: fullName,
		Password: string(hash),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, storeErr(err, "user not found")
	}
	return u, nil
}

func (s *userService) Profile(ctx context.Context, id string) (*model.User, error) {
	if err := requireID(id, "invalid user id"); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "user not found")
	}
	return u, nil
}
