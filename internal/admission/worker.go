// Package admission runs the gate between incoming launch requests and
// the rest of the system: every request is validated before anything
// else is allowed to act on it.
package admission

import (
	"context"
	"time"

	"github.com/armada-cluster/armada/internal/event"
	"github.com/armada-cluster/armada/internal/launch"
	"github.com/armada-cluster/armada/internal/metric"
	"github.com/armada-cluster/armada/internal/task"
	"github.com/armada-cluster/armada/internal/task/validation"
	"go.uber.org/zap"
)

// Launcher starts an admitted task. The docker implementation lives in
// internal/launcher.
type Launcher interface {
	Launch(ctx context.Context, t task.TaskInfo) (containerID string, err error)
}

type WorkerOpts struct {
	Source       launch.Source
	PollInterval time.Duration

	Publisher event.Publisher

	// Optional. When nil, decisions are not recorded / tasks not started.
	Metrics  *metric.WriteSession
	Launcher Launcher
}

type Worker struct {
	log *zap.Logger

	WorkerOpts
}

func NewWorker(log *zap.Logger, opts WorkerOpts) *Worker {
	return &Worker{log: log, WorkerOpts: opts}
}

// Run polls the source until the context is canceled. Each request is
// validated, its decision published, and the request marked as done.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("admission worker running")

	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		receipt, req, err := w.Source.Poll(ctx)
		if err != nil {
			if err != launch.NoErrEmptyQueue {
				w.log.Error("failed to poll a request", zap.Error(err))
			}
			continue
		}

		log := w.log.With(zap.String("requestID", req.ID.String()))
		log.Info("polled request", zap.String("taskID", req.Task.TaskID.Value))

		if err := w.handle(ctx, log, req); err != nil {
			log.Error("failed to handle request", zap.Error(err))
			continue
		}

		if err := w.Source.MarkAsDone(ctx, receipt); err != nil {
			log.Error("failed to mark request as done", zap.Error(err))
			continue
		}
	}
}

func (w *Worker) handle(ctx context.Context, log *zap.Logger, req launch.Request) error {
	start := time.Now()

	verdict := Admit(req)

	e := event.AdmissionEvent{
		ID:       req.ID,
		TaskID:   req.Task.TaskID.Value,
		Accepted: verdict == nil,
		Took:     time.Since(start),
	}
	if verdict != nil {
		e.Reason = verdict.Error()
		log.Info("request rejected", zap.String("reason", e.Reason))
	}

	if err := w.Publisher.Publish(ctx, e); err != nil {
		return err
	}

	if w.Metrics != nil {
		w.Metrics.Write(metric.NewAdmissionPoint(e))
	}

	if verdict == nil && w.Launcher != nil {
		containerID, err := w.Launcher.Launch(ctx, req.Task)
		if err != nil {
			return err
		}

		log.Info("task launched", zap.String("containerID", containerID))
	}

	return nil
}

// Admit decides whether a launch request may enter the system.
func Admit(req launch.Request) error {
	if err := validation.ValidateFrameworkID(req.FrameworkID); err != nil {
		return err
	}

	return validation.ValidateTask(req.Task)
}
