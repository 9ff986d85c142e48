package spaceapimodels

import (
	"creative-tools-backend/models"

	"github.com/pkg/errors"
)

type SpaceUserCommonData struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PhoneNumber  string `json:"phone_number"`
	IsAdmin      bool   `json:"is_admin"`
	SpaceID      string `json:"space_id"`
	DepartmentID string `json:"department_id,omitempty"`
	Role         string `json:"role"`
}

type SpaceUser struct {
	SpaceUserCommonData
	ID string `json:"id"`
}

type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginData) Validate() error {
	if r.Email == "" {
		return errors.New("не указана почта")
	}
	if r.Password == "" {
		return errors.New("не указан пароль")
	}
	return nil
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type CreateUser struct {
	SpaceID      string          `json:"space_id"`
	Email        string          `json:"email"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	PhoneNumber  string          `json:"phone_number"`
	Password     string          `json:"password"`
	DepartmentID string          `json:"department_id"`
	Role         models.UserRole `json:"role"`
	PushEnabled  bool            `json:"push_enabled"`
}

func (r CreateUser) Validate() error {
	if r.Email == "" {
		return errors.New("не указана почта")
	}
	if r.Password == "" {
		return errors.New("не указан пароль")
	}
	if r.FirstName == "" || r.LastName == "" {
		return errors.New("не указаны имя и фамилия")
	}
	if r.Role == "" {
		return errors.New("не указана роль")
	}
	return nil
}

type UpdateUser struct {
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	PhoneNumber  string          `json:"phone_number"`
	DepartmentID string          `json:"department_id"`
	Role         models.UserRole `json:"role"`
	IsActive     bool            `json:"is_active"`
	PushEnabled  bool            `json:"push_enabled"`
}
