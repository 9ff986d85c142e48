package spaceauthhandler

import (
	"time"

	"creative-tools-backend/db"
	spaceusersstore "creative-tools-backend/lib/space/users/store"
	authutils "creative-tools-backend/lib/utils/auth-utils"
	"creative-tools-backend/models"
	spaceapimodels "creative-tools-backend/models/api/space"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Login(data spaceapimodels.LoginData) (resp spaceapimodels.TokenResponse, err error)
	// Refresh новая пара токенов по субъекту refresh токена
	Refresh(userID string) (resp spaceapimodels.TokenResponse, err error)
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

func (i impl) Login(data spaceapimodels.LoginData) (spaceapimodels.TokenResponse, error) {
	if err := data.Validate(); err != nil {
		return spaceapimodels.TokenResponse{}, models.NewValidationError(err.Error())
	}
	user, err := i.spaceUserStore.FindByEmail(data.Email)
	if err != nil {
		return spaceapimodels.TokenResponse{}, err
	}
	if user == nil || !user.IsActive || !authutils.CheckPassword(user.Password, data.Password) {
		// не раскрываем, что именно не подошло
		return spaceapimodels.TokenResponse{}, models.NewValidationError("неверная почта или пароль")
	}
	resp, err := i.issueTokens(user.ID, user.GetFullName(), user.SpaceID, user.Role)
	if err != nil {
		return spaceapimodels.TokenResponse{}, err
	}
	err = i.spaceUserStore.Update(user.ID, map[string]interface{}{
		"last_login": time.Now(),
	})
	if err != nil {
		log.WithField("user_id", user.ID).WithError(err).Error("ошибка обновления времени входа")
	}
	return resp, nil
}

func (i impl) Refresh(userID string) (spaceapimodels.TokenResponse, error) {
	user, err := i.spaceUserStore.GetByID(userID)
	if err != nil {
		return spaceapimodels.TokenResponse{}, err
	}
	if user == nil || !user.IsActive {
		return spaceapimodels.TokenResponse{}, models.NewValidationError("пользователь не найден или заблокирован")
	}
	return i.issueTokens(user.ID, user.GetFullName(), user.SpaceID, user.Role)
}

func (i impl) issueTokens(userID, name, spaceID string, role models.UserRole) (spaceapimodels.TokenResponse, error) {
	accessToken, err := authutils.GetToken(userID, name, spaceID, role.IsSpaceAdmin(), role)
	if err != nil {
		return spaceapimodels.TokenResponse{}, err
	}
	refreshToken, err := authutils.GetRefreshToken(userID, name)
	if err != nil {
		return spaceapimodels.TokenResponse{}, err
	}
	return spaceapimodels.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
