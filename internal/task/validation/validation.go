// Package validation rejects structurally or semantically invalid task
// messages before they are admitted into the rest of the system. Every
// check is pure and fail-fast: the first violated invariant is returned
// as a descriptive error and nothing else is scanned.
package validation

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/armada-cluster/armada/internal/resource"
	"github.com/armada-cluster/armada/internal/task"
	"github.com/pkg/errors"
)

// nameMax is the platform NAME_MAX limit for a single path component.
// IDs are frequently mapped to directory names, so they must fit.
const nameMax = 255

// ValidateID checks the constraints shared by every identifier kind.
func ValidateID(id string) error {
	if id == "" {
		return errors.New("ID must not be empty")
	}

	if len(id) > nameMax {
		return errors.Errorf("ID must not be greater than %d characters", nameMax)
	}

	// The ID cannot be exactly these special path components.
	if id == "." || id == ".." {
		return errors.Errorf("'%s' is disallowed", id)
	}

	// Control characters are never meaningful in a name, and both path
	// separator flavors are rejected regardless of host platform so IDs
	// stay portable as single path components.
	invalidCharacter := func(r rune) bool {
		return unicode.IsControl(r) || r == '/' || r == '\\'
	}

	if strings.ContainsFunc(id, invalidCharacter) {
		return errors.Errorf("'%s' contains invalid characters", id)
	}

	return nil
}

// These IDs are valid as long as they meet the common requirements
// enforced by ValidateID, but each gets its own function to be clear
// which IDs are subject to which rules.

func ValidateTaskID(taskID task.TaskID) error {
	return ValidateID(taskID.Value)
}

func ValidateExecutorID(executorID task.ExecutorID) error {
	return ValidateID(executorID.Value)
}

func ValidateAgentID(agentID task.AgentID) error {
	return ValidateID(agentID.Value)
}

func ValidateFrameworkID(frameworkID task.FrameworkID) error {
	return ValidateID(frameworkID.Value)
}

// ValidateSecret checks that a secret's payload matches its declared type.
func ValidateSecret(secret task.Secret) error {
	switch secret.Type {
	case task.SecretReferenceType:
		if secret.Reference == nil {
			return errors.New("secret of type REFERENCE must have the 'reference' field set")
		}

		if secret.Value != nil {
			return errors.Errorf(
				"secret '%s' of type REFERENCE must not have the 'value' field set",
				secret.Reference.Name,
			)
		}

	case task.SecretValueType:
		if secret.Value == nil {
			return errors.New("secret of type VALUE must have the 'value' field set")
		}

		if secret.Reference != nil {
			return errors.New("secret of type VALUE must not have the 'reference' field set")
		}

	case task.SecretUnknownType:
		// Accepted for forward compatibility with future secret kinds.

	default:
		panic(fmt.Sprintf("unexpected secret type: %q", secret.Type))
	}

	return nil
}

// ValidateEnvironment checks every variable in order and stops at the
// first invalid one.
func ValidateEnvironment(env task.Environment) error {
	for _, variable := range env.Variables {
		switch variable.Type {
		case task.EnvironmentVariableSecret:
			if variable.Secret == nil {
				return errors.Errorf(
					"environment variable '%s' of type 'SECRET' must have a secret set",
					variable.Name,
				)
			}

			if variable.Value != nil {
				return errors.Errorf(
					"environment variable '%s' of type 'SECRET' must not have a value set",
					variable.Name,
				)
			}

			if err := ValidateSecret(*variable.Secret); err != nil {
				return errors.Errorf(
					"environment variable '%s' specifies an invalid secret: %s",
					variable.Name, err.Error(),
				)
			}

			// A NUL byte cannot be represented in a process environment.
			if variable.Secret.Value != nil && bytes.IndexByte(variable.Secret.Value.Data, 0) != -1 {
				return errors.Errorf(
					"environment variable '%s' specifies a secret containing "+
						"null bytes, which is not allowed in the environment",
					variable.Name,
				)
			}

		case task.EnvironmentVariableValue:
			if variable.Value == nil {
				return errors.Errorf(
					"environment variable '%s' of type 'VALUE' must have a value set",
					variable.Name,
				)
			}

			if variable.Secret != nil {
				return errors.Errorf(
					"environment variable '%s' of type 'VALUE' must not have a secret set",
					variable.Name,
				)
			}

		case task.EnvironmentVariableUnknown:
			return errors.New("environment variable of type 'UNKNOWN' is not allowed")

		default:
			panic(fmt.Sprintf("unexpected environment variable type: %q", variable.Type))
		}
	}

	return nil
}

// ValidateCommandInfo only checks the embedded environment. The other
// command fields are out of scope here.
func ValidateCommandInfo(command task.CommandInfo) error {
	if command.Environment == nil {
		return nil
	}

	return ValidateEnvironment(*command.Environment)
}

// ValidateVolume checks that exactly one backing mechanism is set, and
// that a typed source carries the payload its type announces.
func ValidateVolume(volume task.Volume) error {
	count := 0
	if volume.HostPath != nil {
		count++
	}
	if volume.Image != nil {
		count++
	}
	if volume.Source != nil {
		count++
	}

	if count != 1 {
		return errors.New(
			"only one of them should be set: 'host_path', 'image' and 'source'",
		)
	}

	if volume.Source != nil {
		switch volume.Source.Type {
		case task.VolumeSourceDockerVolume:
			if volume.Source.DockerVolume == nil {
				return errors.New("'source.docker_volume' is not set for DOCKER_VOLUME volume")
			}
		case task.VolumeSourceHostPath:
			if volume.Source.HostPath == nil {
				return errors.New("'source.host_path' is not set for HOST_PATH volume")
			}
		case task.VolumeSourceSandboxPath:
			if volume.Source.SandboxPath == nil {
				return errors.New("'source.sandbox_path' is not set for SANDBOX_PATH volume")
			}
		case task.VolumeSourceSecret:
			if volume.Source.Secret == nil {
				return errors.New("'source.secret' is not set for SECRET volume")
			}
		default:
			// The source type set is open: external data may carry kinds
			// this build does not know.
			return errors.New("'source.type' is unknown")
		}
	}

	return nil
}

// ValidateContainerInfo checks every volume in order and stops at the
// first invalid one.
func ValidateContainerInfo(container task.ContainerInfo) error {
	for _, volume := range container.Volumes {
		if err := ValidateVolume(volume); err != nil {
			return errors.Errorf("invalid volume: %s", err.Error())
		}
	}

	return nil
}

// ValidateGpus checks that the summed "gpus" quantity is not fractional.
// Scalar resources carry 3 digits of fractional precision, so scaling by
// 1000 exposes any remainder without decimal arithmetic here.
func ValidateGpus(resources []task.Resource) error {
	gpus, _ := resource.Pool(resources).Gpus()

	if int64(gpus*1000.0)%1000 != 0 {
		return errors.New("the 'gpus' resource must be an unsigned integer")
	}

	return nil
}

// ValidateTask runs every check that applies to a task description. It is
// the composite the admission pipeline uses.
func ValidateTask(t task.TaskInfo) error {
	if err := ValidateTaskID(t.TaskID); err != nil {
		return errors.Wrap(err, "validating task ID")
	}

	if err := ValidateAgentID(t.AgentID); err != nil {
		return errors.Wrap(err, "validating agent ID")
	}

	if t.Command != nil {
		if err := ValidateCommandInfo(*t.Command); err != nil {
			return errors.Wrap(err, "validating command")
		}
	}

	if t.Container != nil {
		if err := ValidateContainerInfo(*t.Container); err != nil {
			return errors.Wrap(err, "validating container")
		}
	}

	if err := ValidateGpus(t.Resources); err != nil {
		return errors.Wrap(err, "validating resources")
	}

	return nil
}
