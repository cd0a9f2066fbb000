package launch

import (
	"context"

	"github.com/armada-cluster/armada/internal/task"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var NoErrEmptyQueue = errors.New("queue is empty")

// Request asks the cluster to run one task on behalf of a framework.
type Request struct {
	ID          uuid.UUID        `json:"id"`
	FrameworkID task.FrameworkID `json:"frameworkID"`
	Task        task.TaskInfo    `json:"task"`
}

// Source hands out launch requests one at a time. A request stays
// available for redelivery until it is marked as done.
type Source interface {
	Poll(ctx context.Context) (receipt string, req Request, err error)
	MarkAsDone(ctx context.Context, receipt string) (err error)
}
