package launcher

import (
	"path/filepath"
	"strconv"

	"github.com/armada-cluster/armada/internal/resource"
	"github.com/armada-cluster/armada/internal/task"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
)

const defaultCPUPeriod = 100_000

// buildEnv flattens a task environment into docker's KEY=VALUE form.
// Inline secret values are materialized here; reference secrets would
// need a secret store and are refused.
func buildEnv(env *task.Environment) ([]string, error) {
	if env == nil {
		return nil, nil
	}

	out := make([]string, 0, len(env.Variables))
	for _, variable := range env.Variables {
		switch variable.Type {
		case task.EnvironmentVariableValue:
			if variable.Value == nil {
				return nil, errors.Errorf("variable '%s' has no value", variable.Name)
			}
			out = append(out, variable.Name+"="+*variable.Value)

		case task.EnvironmentVariableSecret:
			if variable.Secret == nil || variable.Secret.Value == nil {
				return nil, errors.Errorf(
					"variable '%s' carries a reference secret, which cannot be materialized here",
					variable.Name,
				)
			}
			out = append(out, variable.Name+"="+string(variable.Secret.Value.Data))

		default:
			return nil, errors.Errorf("variable '%s' has unusable type %q", variable.Name, variable.Type)
		}
	}

	return out, nil
}

// buildMounts translates task volumes into docker mounts. Sandbox paths
// are resolved against the task's sandbox directory.
func buildMounts(sandboxDir string, volumes []task.Volume) ([]mount.Mount, error) {
	mounts := make([]mount.Mount, 0, len(volumes))

	for _, volume := range volumes {
		m := mount.Mount{
			Target:   volume.ContainerPath,
			ReadOnly: volume.Mode == task.VolumeRO,
		}

		switch {
		case volume.HostPath != nil:
			m.Type = mount.TypeBind
			m.Source = *volume.HostPath

		case volume.Image != nil:
			return nil, errors.Errorf("image volume '%s' is not supported by the docker launcher", volume.Image.Name)

		case volume.Source != nil:
			switch volume.Source.Type {
			case task.VolumeSourceDockerVolume:
				m.Type = mount.TypeVolume
				m.Source = volume.Source.DockerVolume.Name
				if driver := volume.Source.DockerVolume.Driver; driver != "" {
					m.VolumeOptions = &mount.VolumeOptions{
						DriverConfig: &mount.Driver{Name: driver},
					}
				}

			case task.VolumeSourceHostPath:
				m.Type = mount.TypeBind
				m.Source = volume.Source.HostPath.Path

			case task.VolumeSourceSandboxPath:
				m.Type = mount.TypeBind
				m.Source = filepath.Join(sandboxDir, volume.Source.SandboxPath.Path)

			default:
				return nil, errors.Errorf("source type %q is not supported by the docker launcher", volume.Source.Type)
			}

		default:
			return nil, errors.New("volume has no backing set")
		}

		mounts = append(mounts, m)
	}

	return mounts, nil
}

// buildPorts translates port mappings into an exposed port set and host
// bindings.
func buildPorts(mappings []task.PortMapping) (nat.PortSet, nat.PortMap, error) {
	if len(mappings) == 0 {
		return nil, nil, nil
	}

	set := make(nat.PortSet, len(mappings))
	bindings := make(nat.PortMap, len(mappings))

	for _, mapping := range mappings {
		protocol := mapping.Protocol
		if protocol == "" {
			protocol = "tcp"
		}

		port, err := nat.NewPort(protocol, strconv.Itoa(int(mapping.ContainerPort)))
		if err != nil {
			return nil, nil, errors.Wrap(err, "parsing binding")
		}

		set[port] = struct{}{}
		bindings[port] = append(bindings[port], nat.PortBinding{
			HostPort: strconv.Itoa(int(mapping.HostPort)),
		})
	}

	return set, bindings, nil
}

// buildResources translates scalar resources into cgroup limits. Memory
// is specified in MiB; gpus become a device request against the nvidia
// driver.
func buildResources(pool resource.Pool) container.Resources {
	res := container.Resources{
		Memory:    int64(pool.Mem() * 1024 * 1024),
		CPUPeriod: defaultCPUPeriod,
		CPUQuota:  int64(pool.Cpus() * float64(defaultCPUPeriod)),
	}

	if gpus, ok := pool.Gpus(); ok && gpus > 0 {
		res.DeviceRequests = []container.DeviceRequest{{
			Driver:       "nvidia",
			Count:        int(gpus),
			Capabilities: [][]string{{"gpu"}},
		}}
	}

	return res
}

// buildCmd translates a command into docker's Cmd form.
func buildCmd(command *task.CommandInfo) []string {
	if command == nil || command.Value == "" {
		return nil
	}

	if command.Shell {
		return []string{"/bin/sh", "-c", command.Value}
	}

	return append([]string{command.Value}, command.Arguments...)
}
