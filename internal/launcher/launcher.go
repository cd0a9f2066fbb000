// Package launcher turns admitted task descriptions into running docker
// containers. It expects its inputs to have passed validation already.
package launcher

import (
	"context"
	"io"
	"time"

	"github.com/armada-cluster/armada/internal/metric"
	"github.com/armada-cluster/armada/internal/resource"
	"github.com/armada-cluster/armada/internal/task"
	"github.com/armada-cluster/armada/internal/util/stream"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type instance struct {
	ID   string
	Name string
}

type Opts struct {
	Network    string
	SandboxDir string

	Log    *zap.Logger
	Docker client.APIClient
}

type Launcher struct {
	instances []*instance

	Opts
}

func New(opts Opts) *Launcher {
	return &Launcher{Opts: opts}
}

// Launch pulls the task's image and starts a container for it. The
// returned ID is docker's container ID.
func (l *Launcher) Launch(ctx context.Context, t task.TaskInfo) (string, error) {
	l.Log.Info("launching task", zap.String("taskID", t.TaskID.Value))

	start := time.Now()

	if t.Container == nil || t.Container.Docker == nil {
		return "", errors.New("task has no docker image to run")
	}

	env, err := buildEnv(commandEnvironment(t.Command))
	if err != nil {
		return "", errors.Wrap(err, "building environment")
	}

	mounts, err := buildMounts(l.SandboxDir, t.Container.Volumes)
	if err != nil {
		return "", errors.Wrap(err, "building mounts")
	}

	exposed, bindings, err := buildPorts(t.Container.Docker.PortMappings)
	if err != nil {
		return "", errors.Wrap(err, "building port bindings")
	}

	containerConf := &container.Config{
		Image:        t.Container.Docker.Image,
		Hostname:     t.Name,
		Env:          env,
		Cmd:          buildCmd(t.Command),
		ExposedPorts: exposed,
	}

	network := t.Container.Docker.Network
	if network == "" {
		network = l.Network
	}

	hostConf := &container.HostConfig{
		NetworkMode:  container.NetworkMode(network),
		Mounts:       mounts,
		PortBindings: bindings,
		Resources:    buildResources(resource.Pool(t.Resources)),
	}

	platformConf := &v1.Platform{
		Architecture: "amd64",
		OS:           "linux",
	}

	content, err := l.Docker.ImagePull(ctx, containerConf.Image, image.PullOptions{Platform: "linux/amd64"})
	if err != nil {
		return "", errors.Wrap(err, "pulling image")
	}

	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", errors.Wrap(err, "reading output from docker daemon")
	}

	con, err := l.Docker.ContainerCreate(ctx, containerConf, hostConf, nil, platformConf, t.TaskID.Value)
	if err != nil {
		return "", errors.Wrap(err, "creating container")
	}

	if len(con.Warnings) > 0 {
		l.Log.Warn("warning during container creation", zap.Strings("warnings", con.Warnings))
	}

	if err := l.Docker.ContainerStart(ctx, con.ID, container.StartOptions{}); err != nil {
		return "", errors.Wrap(err, "starting container")
	}

	l.instances = append(l.instances, &instance{ID: con.ID, Name: t.TaskID.Value})

	l.Log.Info("task launch done",
		zap.String("containerID", con.ID),
		zap.Duration("took", time.Since(start)),
	)

	return con.ID, nil
}

// Teardown stops every launched container and prunes what is left.
func (l *Launcher) Teardown(ctx context.Context) {
	l.Log.Info("tearing down tasks")

	start := time.Now()

	for _, inst := range l.instances {
		if err := l.Docker.ContainerStop(ctx, inst.ID, container.StopOptions{}); err != nil {
			l.Log.Error("failed to stop container",
				zap.String("containerID", inst.ID),
				zap.Error(err),
			)
		}
	}

	{
		report, err := l.Docker.ContainersPrune(ctx, filters.NewArgs())
		if err != nil {
			l.Log.Error("failed to prune containers", zap.Error(err))
			return
		}

		l.Log.Info("containers pruned",
			zap.Strings("containers", report.ContainersDeleted),
			zap.Uint64("space-reclaimed", report.SpaceReclaimed),
		)
	}

	{
		report, err := l.Docker.ImagesPrune(ctx, filters.NewArgs())
		if err != nil {
			l.Log.Error("failed to prune images", zap.Error(err))
			return
		}

		l.Log.Info("images pruned",
			zap.Any("images", report.ImagesDeleted),
			zap.Uint64("space-reclaimed", report.SpaceReclaimed),
		)
	}

	l.Log.Info("task teardown done", zap.Duration("took", time.Since(start)))
}

// WatchUsage streams usage samples for every launched container into the
// metric session until the context is canceled. cancel is invoked when a
// stats stream fails.
func (l *Launcher) WatchUsage(ctx context.Context, metrics *metric.WriteSession, cancel func(error)) {
	collector := metric.Collector{Docker: l.Docker}

	statStreams := make([]<-chan metric.Stat, len(l.instances))
	errchans := make([]<-chan error, len(l.instances))

	for idx, inst := range l.instances {
		statStream, errchan := collector.Collect(ctx, inst.Name)
		statStreams[idx] = statStream
		errchans[idx] = errchan
	}

	go func() {
		statStream := stream.FanIn(statStreams...)
		errchan := stream.FanIn(errchans...)

		for {
			var stat metric.Stat
			var ok bool

			select {
			case <-ctx.Done():
				return
			case err, ok := <-errchan:
				if ok && err != nil {
					cancel(err)
				}
				return
			case stat, ok = <-statStream:
				if !ok {
					return
				}
			}

			metrics.Write(metric.NewUsagePoint(stat))
		}
	}()
}

func commandEnvironment(command *task.CommandInfo) *task.Environment {
	if command == nil {
		return nil
	}

	return command.Environment
}
