package spaceusershandler

import (
	"fmt"

	"creative-tools-backend/db"
	spaceusersstore "creative-tools-backend/lib/space/users/store"
	authutils "creative-tools-backend/lib/utils/auth-utils"
	"creative-tools-backend/models"
	spaceapimodels "creative-tools-backend/models/api/space"
	dbmodels "creative-tools-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	CreateUser(request spaceapimodels.CreateUser) (id string, err error)
	UpdateUser(spaceID, userID string, request spaceapimodels.UpdateUser) error
	DeleteUser(spaceID, userID string) error
	GetListUsers(spaceID string, page, limit int) (usersList []spaceapimodels.SpaceUser, err error)
	GetByID(spaceID, userID string) (user spaceapimodels.SpaceUser, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		spaceUserStore: spaceusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	spaceUserStore spaceusersstore.Provider
}

func (i impl) GetByID(spaceID, userID string) (user spaceapimodels.SpaceUser, err error) {
	userDB, err := i.spaceUserStore.GetByID(userID)
	if err != nil {
		log.
			WithField("user_id", userID).
			WithError(err).
			Error("ошибка поиска пользователя")
		return spaceapimodels.SpaceUser{}, err
	}
	if userDB == nil || userDB.SpaceID != spaceID {
		return spaceapimodels.SpaceUser{}, models.NewNotFoundError("пользователь не найден")
	}
	return userDB.ToModel(), nil
}

func (i impl) CreateUser(request spaceapimodels.CreateUser) (string, error) {
	if err := request.Validate(); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	existing, err := i.spaceUserStore.FindByEmail(request.Email)
	if err != nil {
		log.
			WithField("request", fmt.Sprintf("%+v", request)).
			WithError(err).
			Error("ошибка проверки уже существующего пользователя")
		return "", err
	}
	if existing != nil {
		return "", models.NewValidationError("пользователь с такой почтой уже существует")
	}
	password, err := authutils.HashPassword(request.Password)
	if err != nil {
		return "", err
	}
	rec := dbmodels.SpaceUser{
		Password:    password,
		FirstName:   request.FirstName,
		LastName:    request.LastName,
		Email:       request.Email,
		IsActive:    true,
		PhoneNumber: request.PhoneNumber,
		SpaceID:     request.SpaceID,
		Role:        request.Role,
		PushEnabled: request.PushEnabled,
	}
	if request.DepartmentID != "" {
		rec.DepartmentID = &request.DepartmentID
	}
	id, err := i.spaceUserStore.Create(rec)
	if err != nil {
		log.
			WithField("request", fmt.Sprintf("%+v", request)).
			WithError(err).
			Error("ошибка создания пользователя")
		return "", err
	}
	return id, nil
}

func (i impl) UpdateUser(spaceID, userID string, request spaceapimodels.UpdateUser) error {
	_, err := i.GetByID(spaceID, userID)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"first_name":   request.FirstName,
		"last_name":    request.LastName,
		"phone_number": request.PhoneNumber,
		"role":         request.Role,
		"is_active":    request.IsActive,
		"push_enabled": request.PushEnabled,
	}
	if request.DepartmentID != "" {
		updMap["department_id"] = request.DepartmentID
	} else {
		updMap["department_id"] = nil
	}
	err = i.spaceUserStore.Update(userID, updMap)
	if err != nil {
		log.
			WithField("request", fmt.Sprintf("%+v", request)).
			WithError(err).
			Error("ошибка обновления пользователя")
		return err
	}
	return nil
}

func (i impl) DeleteUser(spaceID, userID string) error {
	_, err := i.GetByID(spaceID, userID)
	if err != nil {
		return err
	}
	err = i.spaceUserStore.Delete(userID)
	if err != nil {
		log.
			WithField("user_id", userID).
			WithError(err).
			Error("ошибка удаления пользователя")
		return err
	}
	return nil
}

func (i impl) GetListUsers(spaceID string, page, limit int) (usersList []spaceapimodels.SpaceUser, err error) {
	list, err := i.spaceUserStore.GetList(spaceID, page, limit)
	if err != nil {
		log.WithField("space_id", spaceID).WithError(err).Error("ошибка получения списка пользователей")
		return nil, err
	}
	usersList = make([]spaceapimodels.SpaceUser, 0, len(list))
	for _, user := range list {
		usersList = append(usersList, user.ToModel())
	}
	return usersList, nil
}
