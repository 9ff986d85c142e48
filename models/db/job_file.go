package dbmodels

// JobFile метаданные вложения работы (бриф, исходники, результат), тело в S3
type JobFile struct {
	BaseSpaceModel
	JobID       string `gorm:"type:varchar(36);index"`
	FileName    string `gorm:"type:varchar(255)"`
	ContentType string `gorm:"type:varchar(100)"`
	Size        int64
	UploadedBy  string `gorm:"type:varchar(36)"`
}
