package dbmodels

// Project проект, группирует работы
type Project struct {
	BaseSpaceModel
	Name        string `gorm:"type:varchar(255)"`
	Code        string `gorm:"type:varchar(50)"`
	Description string
	IsActive    bool
}

// ProjectAssignment исполнитель по умолчанию для вида работ на проекте
type ProjectAssignment struct {
	BaseSpaceModel
	ProjectID  string `gorm:"type:varchar(36);index:idx_project_assignment"`
	Project    *Project
	JobTypeID  string `gorm:"type:varchar(36);index:idx_project_assignment"`
	JobType    *JobType
	AssigneeID string `gorm:"type:varchar(36)"`
	Assignee   *SpaceUser `gorm:"foreignKey:AssigneeID"`
}
