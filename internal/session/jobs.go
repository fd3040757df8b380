package session

import (
	"context"

	"github.com/osse101/IdleGarden_Go/internal/logger"
)

// FlushJob saves every dirty session; the scheduler enqueues it every save debounce interval
type FlushJob struct {
	Manager *Manager
}

// Process implements worker.Job
func (j FlushJob) Process(ctx context.Context) error {
	if err := j.Manager.Flush(ctx); err != nil {
		logger.FromContext(ctx).Warn(LogMsgFlushFailed, "error", err)
		return err
	}
	return nil
}

// WeatherJob rotates expired weather in every live garden
type WeatherJob struct {
	Manager *Manager
}

// Process implements worker.Job
func (j WeatherJob) Process(ctx context.Context) error {
	j.Manager.RotateWeather(ctx)
	return nil
}
