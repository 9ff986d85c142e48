package db

import (
	dbmodels "creative-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	for _, model := range []struct {
		name string
		rec  any
	}{
		{"Space", &dbmodels.Space{}},
		{"SpaceUser", &dbmodels.SpaceUser{}},
		{"Department", &dbmodels.Department{}},
		{"Project", &dbmodels.Project{}},
		{"ProjectAssignment", &dbmodels.ProjectAssignment{}},
		{"JobType", &dbmodels.JobType{}},
		{"ApprovalFlow", &dbmodels.ApprovalFlow{}},
		{"Job", &dbmodels.Job{}},
		{"Approval", &dbmodels.Approval{}},
		{"RejectionRequest", &dbmodels.RejectionRequest{}},
		{"ActivityLog", &dbmodels.ActivityLog{}},
		{"JobFile", &dbmodels.JobFile{}},
		{"PushSetting", &dbmodels.PushSetting{}},
		{"PushData", &dbmodels.PushData{}},
	} {
		if err := DB.AutoMigrate(model.rec); err != nil {
			return errors.Wrapf(err, "ошибка создания структуры %v", model.name)
		}
	}
	log.Info("Миграция прошла успешно")
	return nil
}
