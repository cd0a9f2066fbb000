package validation

import (
	"strings"
	"testing"

	"github.com/armada-cluster/armada/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateID(t *testing.T) {
	testcases := []struct {
		desc    string
		id      string
		wantErr string
	}{
		{
			desc:    "empty",
			id:      "",
			wantErr: "must not be empty",
		},
		{
			desc:    "too long",
			id:      strings.Repeat("a", 256),
			wantErr: "must not be greater than 255 characters",
		},
		{
			desc: "exactly at the limit",
			id:   strings.Repeat("a", 255),
		},
		{
			desc:    "single dot",
			id:      ".",
			wantErr: "disallowed",
		},
		{
			desc:    "double dot",
			id:      "..",
			wantErr: "disallowed",
		},
		{
			desc: "leading dot is fine",
			id:   ".hidden",
		},
		{
			desc: "ordinary id",
			id:   "my-task_1",
		},
		{
			desc:    "posix path separator",
			id:      "tasks/1",
			wantErr: "contains invalid characters",
		},
		{
			desc:    "windows path separator",
			id:      `tasks\1`,
			wantErr: "contains invalid characters",
		},
		{
			desc:    "control character",
			id:      "task\x01",
			wantErr: "contains invalid characters",
		},
		{
			desc:    "newline",
			id:      "task\n1",
			wantErr: "contains invalid characters",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			err := ValidateID(tc.id)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

// Each wrapper should behave exactly like ValidateID on the wrapped value.
func TestValidateIDWrappers(t *testing.T) {
	for _, id := range []string{"", ".", "..", "a/b", "ok-id"} {
		want := ValidateID(id)

		results := map[string]error{
			"task":      ValidateTaskID(task.TaskID{Value: id}),
			"executor":  ValidateExecutorID(task.ExecutorID{Value: id}),
			"agent":     ValidateAgentID(task.AgentID{Value: id}),
			"framework": ValidateFrameworkID(task.FrameworkID{Value: id}),
		}

		for kind, got := range results {
			if want == nil {
				assert.NoError(t, got, "%s id %q", kind, id)
			} else {
				require.Error(t, got, "%s id %q", kind, id)
				assert.Equal(t, want.Error(), got.Error(), "%s id %q", kind, id)
			}
		}
	}
}

func TestValidateSecret(t *testing.T) {
	reference := &task.SecretReference{Name: "vault/db-password"}
	value := &task.SecretValue{Data: []byte("hunter2")}

	testcases := []struct {
		desc    string
		secret  task.Secret
		wantErr string
	}{
		{
			desc:   "reference with reference only",
			secret: task.Secret{Type: task.SecretReferenceType, Reference: reference},
		},
		{
			desc:    "reference without reference",
			secret:  task.Secret{Type: task.SecretReferenceType},
			wantErr: "must have the 'reference' field set",
		},
		{
			desc: "reference with value also set",
			secret: task.Secret{
				Type:      task.SecretReferenceType,
				Reference: reference,
				Value:     value,
			},
			wantErr: "'vault/db-password' of type REFERENCE must not have the 'value' field set",
		},
		{
			desc:   "value with value only",
			secret: task.Secret{Type: task.SecretValueType, Value: value},
		},
		{
			desc:    "value without value",
			secret:  task.Secret{Type: task.SecretValueType},
			wantErr: "must have the 'value' field set",
		},
		{
			desc: "value with reference also set",
			secret: task.Secret{
				Type:      task.SecretValueType,
				Value:     value,
				Reference: reference,
			},
			wantErr: "must not have the 'reference' field set",
		},
		{
			desc:   "unknown type is accepted",
			secret: task.Secret{Type: task.SecretUnknownType},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			err := ValidateSecret(tc.secret)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidateSecretPanicsOnBadTag(t *testing.T) {
	assert.Panics(t, func() {
		_ = ValidateSecret(task.Secret{Type: "GARBAGE"})
	})
}

func strptr(s string) *string { return &s }

func TestValidateEnvironment(t *testing.T) {
	goodSecret := &task.Secret{
		Type:  task.SecretValueType,
		Value: &task.SecretValue{Data: []byte("shh")},
	}

	testcases := []struct {
		desc    string
		env     task.Environment
		wantErr string
	}{
		{
			desc: "empty environment",
			env:  task.Environment{},
		},
		{
			desc: "plain value variable",
			env: task.Environment{Variables: []task.EnvironmentVariable{
				{Name: "PATH", Type: task.EnvironmentVariableValue, Value: strptr("/bin")},
			}},
		},
		{
			desc: "value variable without value",
			env: task.Environment{Variables: []task.EnvironmentVariable{
				{Name: "PATH", Type: task.EnvironmentVariableValue},
			}},
			wantErr: "'PATH' of type 'VALUE' must have a value set",
		},
		{
			desc: "value variable with secret also set",
			env: task.Environment{Variables: []task.EnvironmentVariable{
				{
					Name:   "PATH",
					Type:   task.EnvironmentVariableValue,
					Value:  strptr("/bin"),
					Secret: goodSecret,
				},
			}},
			wantErr: "'PATH' of type 'VALUE' must not have a secret set",
		},
		{
			desc: "secret variable",
			env: task.Environment{Variables: []task.EnvironmentVariable{
				{Name: "TOKEN", Type: task.EnvironmentVariableSecret, Secret: goodSecret},
			}},
		},
		{
			desc: "secret variable without secret",
			env: task.Environment{Variables: []task.EnvironmentVariable{
				{Name: "TOKEN", Type: task.EnvironmentVariableSecret},
			}},
			wantErr: "'TOKEN' of type 'SECRET' must have a secret set",
		},
		{
			desc: "secret variable with value also set",
			env: task.Environment{Variables: []task.EnvironmentVariable{
				{
					Name:   "X",
					Type:   task.EnvironmentVariableSecret,
					Secret: goodSecret,
					Value:  strptr("leak"),
				},
			}},
			wantErr: "'X' of type 'SECRET' must not have a value set",
		},
		{
			desc: "secret variable with invalid embedded secret",
			env: task.Environment{Variables: []task.EnvironmentVariable{
				{
					Name:   "TOKEN",
					Type:   task.EnvironmentVariableSecret,
					Secret: &task.Secret{Type: task.SecretValueType},
				},
			}},
			wantErr: "'TOKEN' specifies an invalid secret",
		},
		{
			desc: "secret variable with reference secret is fine",
			env: task.Environment{Variables: []task.EnvironmentVariable{
				{
					Name: "TOKEN",
					Type: task.EnvironmentVariableSecret,
					Secret: &task.Secret{
						Type:      task.SecretReferenceType,
						Reference: &task.SecretReference{Name: "vault/token"},
					},
				},
			}},
		},
		{
			desc: "inline secret with null byte",
			env: task.Environment{Variables: []task.EnvironmentVariable{
				{
					Name: "TOKEN",
					Type: task.EnvironmentVariableSecret,
					Secret: &task.Secret{
						Type:  task.SecretValueType,
						Value: &task.SecretValue{Data: []byte("a\x00b")},
					},
				},
			}},
			wantErr: "null bytes",
		},
		{
			desc: "unknown variable type is rejected",
			env: task.Environment{Variables: []task.EnvironmentVariable{
				{Name: "WHAT", Type: task.EnvironmentVariableUnknown},
			}},
			wantErr: "'UNKNOWN' is not allowed",
		},
		{
			desc: "fail-fast on first invalid variable",
			env: task.Environment{Variables: []task.EnvironmentVariable{
				{Name: "FIRST", Type: task.EnvironmentVariableValue},
				{Name: "SECOND", Type: task.EnvironmentVariableUnknown},
			}},
			wantErr: "'FIRST'",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			err := ValidateEnvironment(tc.env)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidateEnvironmentPanicsOnBadTag(t *testing.T) {
	assert.Panics(t, func() {
		_ = ValidateEnvironment(task.Environment{Variables: []task.EnvironmentVariable{
			{Name: "X", Type: "GARBAGE"},
		}})
	})
}

func TestValidateCommandInfo(t *testing.T) {
	t.Run("no environment", func(t *testing.T) {
		assert.NoError(t, ValidateCommandInfo(task.CommandInfo{Value: "sleep 100"}))
	})

	t.Run("valid environment", func(t *testing.T) {
		cmd := task.CommandInfo{
			Environment: &task.Environment{Variables: []task.EnvironmentVariable{
				{Name: "HOME", Type: task.EnvironmentVariableValue, Value: strptr("/tmp")},
			}},
		}
		assert.NoError(t, ValidateCommandInfo(cmd))
	})

	t.Run("invalid environment", func(t *testing.T) {
		cmd := task.CommandInfo{
			Environment: &task.Environment{Variables: []task.EnvironmentVariable{
				{Name: "HOME", Type: task.EnvironmentVariableUnknown},
			}},
		}
		assert.Error(t, ValidateCommandInfo(cmd))
	})
}

func TestValidateVolume(t *testing.T) {
	testcases := []struct {
		desc    string
		volume  task.Volume
		wantErr string
	}{
		{
			desc:    "nothing set",
			volume:  task.Volume{ContainerPath: "/data"},
			wantErr: "only one of them should be set",
		},
		{
			desc: "host path only",
			volume: task.Volume{
				ContainerPath: "/data",
				HostPath:      strptr("/var/data"),
			},
		},
		{
			desc: "image only",
			volume: task.Volume{
				ContainerPath: "/data",
				Image:         &task.Image{Name: "busybox"},
			},
		},
		{
			desc: "host path and image together",
			volume: task.Volume{
				ContainerPath: "/data",
				HostPath:      strptr("/var/data"),
				Image:         &task.Image{Name: "busybox"},
			},
			wantErr: "only one of them should be set",
		},
		{
			desc: "docker volume source with payload",
			volume: task.Volume{
				ContainerPath: "/data",
				Source: &task.VolumeSource{
					Type:         task.VolumeSourceDockerVolume,
					DockerVolume: &task.DockerVolumeInfo{Name: "dbdata"},
				},
			},
		},
		{
			desc: "docker volume source without payload",
			volume: task.Volume{
				ContainerPath: "/data",
				Source:        &task.VolumeSource{Type: task.VolumeSourceDockerVolume},
			},
			wantErr: "'source.docker_volume' is not set",
		},
		{
			desc: "host path source without payload",
			volume: task.Volume{
				ContainerPath: "/data",
				Source:        &task.VolumeSource{Type: task.VolumeSourceHostPath},
			},
			wantErr: "'source.host_path' is not set",
		},
		{
			desc: "sandbox path source without payload",
			volume: task.Volume{
				ContainerPath: "/data",
				Source:        &task.VolumeSource{Type: task.VolumeSourceSandboxPath},
			},
			wantErr: "'source.sandbox_path' is not set",
		},
		{
			desc: "secret source with payload",
			volume: task.Volume{
				ContainerPath: "/data",
				Source: &task.VolumeSource{
					Type: task.VolumeSourceSecret,
					Secret: &task.Secret{
						Type:      task.SecretReferenceType,
						Reference: &task.SecretReference{Name: "vault/cert"},
					},
				},
			},
		},
		{
			desc: "secret source without payload",
			volume: task.Volume{
				ContainerPath: "/data",
				Source:        &task.VolumeSource{Type: task.VolumeSourceSecret},
			},
			wantErr: "'source.secret' is not set",
		},
		{
			desc: "unknown source type",
			volume: task.Volume{
				ContainerPath: "/data",
				Source:        &task.VolumeSource{Type: "CSI_VOLUME"},
			},
			wantErr: "'source.type' is unknown",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			err := ValidateVolume(tc.volume)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidateContainerInfo(t *testing.T) {
	t.Run("no volumes", func(t *testing.T) {
		assert.NoError(t, ValidateContainerInfo(task.ContainerInfo{Type: task.ContainerDocker}))
	})

	t.Run("all volumes valid", func(t *testing.T) {
		container := task.ContainerInfo{
			Type: task.ContainerDocker,
			Volumes: []task.Volume{
				{ContainerPath: "/a", HostPath: strptr("/var/a")},
				{ContainerPath: "/b", Image: &task.Image{Name: "busybox"}},
			},
		}
		assert.NoError(t, ValidateContainerInfo(container))
	})

	t.Run("first invalid volume wins", func(t *testing.T) {
		container := task.ContainerInfo{
			Type: task.ContainerDocker,
			Volumes: []task.Volume{
				{ContainerPath: "/a", HostPath: strptr("/var/a")},
				{ContainerPath: "/b"},
			},
		}

		err := ValidateContainerInfo(container)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid volume")
		assert.Contains(t, err.Error(), "only one of them should be set")
	})
}

func gpus(v float64) task.Resource {
	return task.Resource{Name: "gpus", Type: task.ResourceScalar, Scalar: &task.Scalar{Value: v}}
}

func TestValidateGpus(t *testing.T) {
	testcases := []struct {
		desc      string
		resources []task.Resource
		wantErr   bool
	}{
		{
			desc:      "no gpus at all",
			resources: nil,
			wantErr:   false,
		},
		{
			desc:      "whole number",
			resources: []task.Resource{gpus(3.0)},
			wantErr:   false,
		},
		{
			desc:      "fractional",
			resources: []task.Resource{gpus(2.5)},
			wantErr:   true,
		},
		{
			desc:      "smallest representable fraction",
			resources: []task.Resource{gpus(0.001)},
			wantErr:   true,
		},
		{
			desc:      "fractions summing to a whole number",
			resources: []task.Resource{gpus(0.5), gpus(1.5)},
			wantErr:   false,
		},
		{
			desc:      "fractions summing to a fraction",
			resources: []task.Resource{gpus(0.5), gpus(0.75)},
			wantErr:   true,
		},
		{
			desc: "other resources are ignored",
			resources: []task.Resource{
				{Name: "cpus", Type: task.ResourceScalar, Scalar: &task.Scalar{Value: 0.5}},
				gpus(1.0),
			},
			wantErr: false,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			err := ValidateGpus(tc.resources)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "must be an unsigned integer")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTask(t *testing.T) {
	valid := task.TaskInfo{
		Name:    "web",
		TaskID:  task.TaskID{Value: "web-1"},
		AgentID: task.AgentID{Value: "agent-1"},
		Resources: []task.Resource{
			{Name: "cpus", Type: task.ResourceScalar, Scalar: &task.Scalar{Value: 0.5}},
			gpus(1.0),
		},
		Command: &task.CommandInfo{
			Value: "./server",
			Environment: &task.Environment{Variables: []task.EnvironmentVariable{
				{Name: "PORT", Type: task.EnvironmentVariableValue, Value: strptr("8080")},
			}},
		},
		Container: &task.ContainerInfo{
			Type:    task.ContainerDocker,
			Docker:  &task.DockerInfo{Image: "busybox"},
			Volumes: []task.Volume{{ContainerPath: "/data", HostPath: strptr("/var/data")}},
		},
	}

	t.Run("valid task", func(t *testing.T) {
		assert.NoError(t, ValidateTask(valid))
	})

	t.Run("validation is idempotent", func(t *testing.T) {
		assert.NoError(t, ValidateTask(valid))
		assert.NoError(t, ValidateTask(valid))
	})

	t.Run("bad task id", func(t *testing.T) {
		bad := valid
		bad.TaskID = task.TaskID{Value: ".."}

		err := ValidateTask(bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validating task ID")
	})

	t.Run("bad agent id", func(t *testing.T) {
		bad := valid
		bad.AgentID = task.AgentID{Value: ""}
		assert.Error(t, ValidateTask(bad))
	})

	t.Run("bad environment", func(t *testing.T) {
		bad := valid
		bad.Command = &task.CommandInfo{
			Environment: &task.Environment{Variables: []task.EnvironmentVariable{
				{Name: "X", Type: task.EnvironmentVariableUnknown},
			}},
		}
		assert.Error(t, ValidateTask(bad))
	})

	t.Run("bad volume", func(t *testing.T) {
		bad := valid
		bad.Container = &task.ContainerInfo{
			Type:    task.ContainerDocker,
			Volumes: []task.Volume{{ContainerPath: "/data"}},
		}
		assert.Error(t, ValidateTask(bad))
	})

	t.Run("fractional gpus", func(t *testing.T) {
		bad := valid
		bad.Resources = []task.Resource{gpus(2.5)}

		err := ValidateTask(bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be an unsigned integer")
	})
}
