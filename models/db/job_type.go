package dbmodels

// JobType вид работ, NextJobTypeID задаёт граф последователей по видам
type JobType struct {
	BaseSpaceModel
	Name          string `gorm:"type:varchar(255)"`
	SlaDays       int
	NextJobTypeID *string `gorm:"type:varchar(36)"`
	NextJobType   *JobType
}
