package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// ActivityLog журнал действий по работе, записи не изменяются и не удаляются
type ActivityLog struct {
	BaseSpaceModel
	JobID   string  `gorm:"type:varchar(36);index"`
	ActorID *string `gorm:"type:varchar(36)"` // null — действие системы
	Action  string  `gorm:"type:varchar(100);index"`
	Details ActivityDetails `gorm:"type:jsonb"`
}

type ActivityDetails map[string]any

func (j ActivityDetails) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *ActivityDetails) Scan(value any) error {
	data, ok := value.([]byte)
	if !ok {
		return errors.New("неожиданный тип значения для деталей журнала")
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	return nil
}
