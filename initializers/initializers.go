package initializers

import (
	"context"

	activityloghandler "creative-tools-backend/lib/activity-log"
	approvalflowhandler "creative-tools-backend/lib/approval-flow"
	autoassignhandler "creative-tools-backend/lib/auto-assign"
	departmentprovider "creative-tools-backend/lib/dicts/department"
	jobtypeprovider "creative-tools-backend/lib/dicts/job-type"
	projectprovider "creative-tools-backend/lib/dicts/project"
	xlsexport "creative-tools-backend/lib/export/xls"
	filestorage "creative-tools-backend/lib/file-storage"
	jobhandler "creative-tools-backend/lib/job"
	jobchainhandler "creative-tools-backend/lib/job-chain"
	rejectionrequesthandler "creative-tools-backend/lib/rejection-request"
	rejectionworker "creative-tools-backend/lib/rejection-request/worker"
	spaceauthhandler "creative-tools-backend/lib/space/auth"
	pushhandler "creative-tools-backend/lib/space/push/handler"
	spaceusershandler "creative-tools-backend/lib/space/users/handler"
	urgenthandler "creative-tools-backend/lib/urgent"
	initchecker "creative-tools-backend/lib/utils/init-checker"
	connectionhub "creative-tools-backend/lib/ws/hub/connection-hub"
	s3client "creative-tools-backend/s3"

	"creative-tools-backend/config"
	"creative-tools-backend/fiberlog"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	connectionhub.Init()
	pushhandler.NewHandler()
	activityloghandler.NewHandler()
	approvalflowhandler.NewHandler()
	autoassignhandler.NewHandler()
	urgenthandler.NewHandler()
	jobchainhandler.NewHandler()
	rejectionrequesthandler.NewHandler()
	jobhandler.NewHandler()
	departmentprovider.NewHandler()
	jobtypeprovider.NewHandler()
	projectprovider.NewHandler()
	spaceusershandler.NewHandler()
	spaceauthhandler.NewHandler()
	xlsexport.NewHandler()
	filestorage.NewInstance(s3client.Client)
	initchecker.CheckInit(
		"push", pushhandler.Instance,
		"activity-log", activityloghandler.Instance,
		"approval-flow", approvalflowhandler.Instance,
		"auto-assign", autoassignhandler.Instance,
		"urgent", urgenthandler.Instance,
		"job-chain", jobchainhandler.Instance,
		"rejection-request", rejectionrequesthandler.Instance,
		"job", jobhandler.Instance,
		"file-storage", filestorage.Instance,
	)
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача авто-согласования просроченных запросов на отказ
	rejectionworker.StartWorker(ctx)
}
