package metric

import (
	"strconv"
	"time"

	"github.com/armada-cluster/armada/internal/event"
	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
	"github.com/influxdata/influxdb-client-go/api/write"
)

type Storage struct {
	client influxdb2.Client
}

func NewStorage(client influxdb2.Client) *Storage {
	return &Storage{client: client}
}

func (s *Storage) WriteSession(org, bucket string) (*WriteSession, <-chan error) {
	writer := s.client.WriteAPI(org, bucket)
	return &WriteSession{writer: writer}, writer.Errors()
}

type WriteSession struct {
	writer api.WriteAPI
}

func (ws *WriteSession) Write(point *write.Point) {
	ws.writer.WritePoint(point)
}

func (ws *WriteSession) Flush() {
	ws.writer.Flush()
}

func (ws *WriteSession) Close() {
	ws.writer.Flush()
	ws.writer.Close()
}

// NewAdmissionPoint turns an admission decision into a measurement point.
func NewAdmissionPoint(e event.AdmissionEvent) *write.Point {
	tags := map[string]string{
		"task":     e.TaskID,
		"accepted": strconv.FormatBool(e.Accepted),
	}

	fields := map[string]interface{}{
		"took":   e.Took.Nanoseconds(),
		"reason": e.Reason,
	}

	return write.NewPoint("admission", tags, fields, time.Now())
}

// NewUsagePoint turns a container usage sample into a measurement point.
func NewUsagePoint(stat Stat) *write.Point {
	tags := map[string]string{"container": stat.Container}

	fields := map[string]interface{}{
		"cpu-usage":    stat.CPUUsage,
		"memory-usage": stat.MemoryUsage,
		"block-read":   stat.BlockRead,
		"block-write":  stat.BlockWrite,
		"net-read":     stat.NetRead,
		"net-write":    stat.NetWrite,
	}

	return write.NewPoint("task-usage", tags, fields, time.Now())
}
