package pushhandler

import (
	"fmt"
	"time"

	"creative-tools-backend/db"
	"creative-tools-backend/lib/smtp"
	pushdatastore "creative-tools-backend/lib/space/push/data-store"
	pushsettingsstore "creative-tools-backend/lib/space/push/settings-store"
	spaceusersstore "creative-tools-backend/lib/space/users/store"
	connectionhub "creative-tools-backend/lib/ws/hub/connection-hub"
	"creative-tools-backend/models"
	dbmodels "creative-tools-backend/models/db"
	wsmodels "creative-tools-backend/models/ws"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// SendNotification отправка события пользователю, ошибки только логируются:
	// уведомления не должны ронять бизнес-операцию
	SendNotification(userID string, code models.SpacePushSettingCode, args ...any)
	// NotifySpaceAdmins событие всем активным администраторам пространства
	NotifySpaceAdmins(spaceID string, code models.SpacePushSettingCode, args ...any)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		spaceUserStore:    spaceusersstore.NewInstance(db.DB),
		pushSettingsStore: pushsettingsstore.NewInstance(db.DB),
		pushDataStore:     pushdatastore.NewInstance(db.DB),
	}
}

type impl struct {
	spaceUserStore    spaceusersstore.Provider
	pushSettingsStore pushsettingsstore.Provider
	pushDataStore     pushdatastore.Provider
}

func (i impl) getLogger(userID, code string) *log.Entry {
	logger := log.
		WithField("user_id", userID).
		WithField("event_code", code)
	return logger
}

func (i impl) SendNotification(userID string, code models.SpacePushSettingCode, args ...any) {
	logger := i.getLogger(userID, string(code))
	tpl, ok := models.PushCodeMap[code]
	if !ok {
		logger.Error("неизвестный код события")
		return
	}
	user, err := i.spaceUserStore.GetByID(userID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения пользователя")
		return
	}
	if user == nil {
		logger.Error("пользователь не найден")
		return
	}
	if !user.PushEnabled {
		return
	}
	msg := fmt.Sprintf(tpl.Msg, args...)
	systemOn, emailOn := i.channels(userID, code, logger)
	if systemOn {
		i.sendSystem(*user, code, tpl.Title, msg, logger)
	}
	if emailOn && user.Email != "" {
		err = smtp.Instance.SendEMail(tpl.Name, user.Email, msg, tpl.Title)
		if err != nil {
			logger.WithError(err).Error("ошибка отправки письма о событии")
		}
	}
}

func (i impl) NotifySpaceAdmins(spaceID string, code models.SpacePushSettingCode, args ...any) {
	adminList, err := i.spaceUserStore.ListAdmins(spaceID)
	if err != nil {
		log.WithField("space_id", spaceID).
			WithError(err).
			Error("ошибка получения администраторов пространства")
		return
	}
	for _, admin := range adminList {
		i.SendNotification(admin.ID, code, args...)
	}
}

// channels настройка не заведена — событие включено по системному каналу
func (i impl) channels(userID string, code models.SpacePushSettingCode, logger *log.Entry) (systemOn, emailOn bool) {
	setting, err := i.pushSettingsStore.GetByCode(userID, code)
	if err != nil {
		logger.WithError(err).Error("ошибка получения настройки по событию")
		return true, false
	}
	if setting == nil {
		return true, false
	}
	systemOn = setting.SystemValue == nil || *setting.SystemValue
	emailOn = setting.EmailValue != nil && *setting.EmailValue
	return systemOn, emailOn
}

func (i impl) sendSystem(user dbmodels.SpaceUser, code models.SpacePushSettingCode, title, msg string, logger *log.Entry) {
	if connectionhub.Instance != nil && connectionhub.Instance.IsConnected(user.ID) {
		connectionhub.Instance.SendMessage(wsmodels.ServerMessage{
			ToUserID: user.ID,
			Time:     time.Now().Format("02.01.2006 15:04:05"),
			Code:     string(code),
			Title:    title,
			Msg:      msg,
		})
		return
	}
	// нет активного соединения, событие будет доставлено при подключении
	err := i.pushDataStore.Create(dbmodels.PushData{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: user.SpaceID,
		},
		SpaceUserID: user.ID,
		Code:        code,
		Title:       title,
		Msg:         msg,
	})
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения отложенного события")
	}
}
