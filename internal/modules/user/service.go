package user

import (
	"context"
	"time"

	"github.com/restful-go/accounts/internal/database"
	"github.com/restful-go/accounts/internal/models"
	"github.com/restful-go/accounts/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the hashing strength used for stored account passwords.
const bcryptCost = 8

type Service struct {
	users database.UserRepository
}

func NewService(users database.UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.users.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errUserNotFound
	}
	return u, nil
}

// Create validates the password policy, hashes the password and inserts the
// account. The email must not be taken.
func (s *Service) Create(ctx context.Context, dto *CreateUserDTO) (*models.User, error) {
	if err := validate.Password(dto.Password); err != nil {
		return nil, err
	}
	dob, err := time.Parse(dobFormat, dto.DOB)
	if err != nil {
		return nil, errInvalidDOB
	}

	existing, err := s.users.FindByEmail(ctx, dto.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:        dto.Name,
		Email:       dto.Email,
		Password:    string(hash),
		DOB:         dob,
		Address:     dto.Address,
		Description: dto.Description,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		if err == database.ErrDuplicateEmail {
			return nil, errUserAlreadyExists
		}
		return nil, err
	}
	return u, nil
}

// Update applies the provided fields to an existing account. Password and
// refresh-token state are never touched here.
func (s *Service) Update(ctx context.Context, u *models.User, dto *UpdateUserDTO) (*models.User, error) {
	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Email != nil {
		u.Email = *dto.Email
	}
	if dto.DOB != nil {
		dob, err := time.Parse(dobFormat, *dto.DOB)
		if err != nil {
			return nil, errInvalidDOB
		}
		u.DOB = dob
	}
	if dto.Address != nil {
		u.Address = *dto.Address
	}
	if dto.Description != nil {
		u.Description = *dto.Description
	}
	return u, s.users.Update(ctx, u)
}

func (s *Service) Delete(ctx context.Context, u *models.User) error {
	return s.users.Delete(ctx, u.ID)
}
