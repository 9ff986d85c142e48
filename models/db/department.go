package dbmodels

// Department отдел, руководитель используется как запасной вариант автоназначения
type Department struct {
	BaseSpaceModel
	Name      string  `gorm:"type:varchar(255)"`
	ManagerID *string `gorm:"type:varchar(36)"`
	Manager   *SpaceUser
}
