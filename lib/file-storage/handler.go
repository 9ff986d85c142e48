package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"creative-tools-backend/config"
	"creative-tools-backend/db"
	jobfilestore "creative-tools-backend/lib/file-storage/store"
	jobstore "creative-tools-backend/lib/job/store"
	"creative-tools-backend/models"
	dbmodels "creative-tools-backend/models/db"

	"github.com/minio/minio-go/v7"
	log "github.com/sirupsen/logrus"
)

// вложения работ: метаданные в БД, тело в S3, бакет на пространство
type Provider interface {
	UploadJobFile(ctx context.Context, principal models.Principal, jobID, fileName, contentType string, body []byte) (id string, err error)
	GetJobFile(ctx context.Context, spaceID, fileID string) (body []byte, rec *dbmodels.JobFile, err error)
	ListJobFiles(spaceID, jobID string) (list []dbmodels.JobFile, err error)
	DeleteJobFile(ctx context.Context, spaceID, fileID string) error
	MakeSpaceBucket(ctx context.Context, spaceID string) error
}

var Instance Provider

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client: s3client,
		store:    jobfilestore.NewInstance(db.DB),
		jobStore: jobstore.NewInstance(db.DB),
	}
}

type impl struct {
	s3client *minio.Client
	store    jobfilestore.Provider
	jobStore jobstore.Provider
}

func (i impl) UploadJobFile(ctx context.Context, principal models.Principal, jobID, fileName, contentType string, body []byte) (string, error) {
	job, err := i.jobStore.GetByID(principal.SpaceID, jobID)
	if err != nil {
		return "", err
	}
	if job == nil {
		return "", models.NewNotFoundError("работа не найдена")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	rec := dbmodels.JobFile{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: principal.SpaceID,
		},
		JobID:       jobID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(body)),
		UploadedBy:  principal.UserID,
	}
	id, err := i.store.Save(rec)
	if err != nil {
		return "", err
	}
	if err := i.MakeSpaceBucket(ctx, principal.SpaceID); err != nil {
		return "", err
	}
	_, err = i.s3client.PutObject(ctx, i.getSpaceBucketName(principal.SpaceID), id,
		bytes.NewReader(body), rec.Size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		if delErr := i.store.Delete(principal.SpaceID, id); delErr != nil {
			log.WithField("file_id", id).WithError(delErr).Error("ошибка удаления метаданных незагруженного файла")
		}
		return "", err
	}
	return id, nil
}

func (i impl) GetJobFile(ctx context.Context, spaceID, fileID string) ([]byte, *dbmodels.JobFile, error) {
	rec, err := i.store.GetByID(spaceID, fileID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, models.NewNotFoundError("файл не найден")
	}
	obj, err := i.s3client.GetObject(ctx, i.getSpaceBucketName(spaceID), fileID, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer obj.Close()
	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, nil, err
	}
	return body, rec, nil
}

func (i impl) ListJobFiles(spaceID, jobID string) (list []dbmodels.JobFile, err error) {
	return i.store.ListByJob(spaceID, jobID)
}

func (i impl) DeleteJobFile(ctx context.Context, spaceID, fileID string) error {
	rec, err := i.store.GetByID(spaceID, fileID)
	if err != nil {
		return err
	}
	if rec == nil {
		return models.NewNotFoundError("файл не найден")
	}
	err = i.s3client.RemoveObject(ctx, i.getSpaceBucketName(spaceID), fileID, minio.RemoveObjectOptions{})
	if err != nil {
		return err
	}
	return i.store.Delete(spaceID, fileID)
}

func (i impl) MakeSpaceBucket(ctx context.Context, spaceID string) error {
	bucketName := i.getSpaceBucketName(spaceID)
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
}

func (i impl) getSpaceBucketName(spaceID string) string {
	return fmt.Sprintf("%s-%s", config.Conf.S3.BucketName, spaceID)
}
