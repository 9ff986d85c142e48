package rejectionworker

import (
	"context"
	"time"

	"creative-tools-backend/config"
	rejectionrequesthandler "creative-tools-backend/lib/rejection-request"
	baseworker "creative-tools-backend/lib/utils/base-worker"
	"creative-tools-backend/lib/utils/lock"
)

func StartWorker(ctx context.Context) {
	interval := time.Duration(config.Conf.Engine.RejectionSweepMinutes) * time.Minute
	i := &impl{
		BaseImpl: *baseworker.NewInstance("RejectionSweepWorker", 30*time.Second, interval),
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	// защита от наложения запусков при долгой выборке
	_, err := lock.WithDelay(ctx, "rejection-sweep", time.Second, func() error {
		processed, err := rejectionrequesthandler.Instance.SweepExpired()
		if err != nil {
			return err
		}
		if processed > 0 {
			logger.Infof("Авто-согласовано запросов отказа: %v", processed)
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("Ошибка авто-закрытия запросов отказа")
	}
}
