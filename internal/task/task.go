package task

// Identifier wrappers. They share the same value constraints but are kept
// as distinct types so call sites say which entity they are naming.

type TaskID struct {
	Value string `json:"value"`
}

type ExecutorID struct {
	Value string `json:"value"`
}

type AgentID struct {
	Value string `json:"value"`
}

type FrameworkID struct {
	Value string `json:"value"`
}

type SecretType string

const (
	SecretReferenceType SecretType = "REFERENCE"
	SecretValueType     SecretType = "VALUE"
	SecretUnknownType   SecretType = "UNKNOWN"
)

// Secret is either a reference to secret material stored elsewhere or an
// inline value. Exactly one payload field should be set for its type.
type Secret struct {
	Type      SecretType       `json:"type"`
	Reference *SecretReference `json:"reference,omitempty"`
	Value     *SecretValue     `json:"value,omitempty"`
}

type SecretReference struct {
	Name string `json:"name"`
	Key  string `json:"key,omitempty"`
}

type SecretValue struct {
	Data []byte `json:"data"`
}

type EnvironmentVariableType string

const (
	EnvironmentVariableValue   EnvironmentVariableType = "VALUE"
	EnvironmentVariableSecret  EnvironmentVariableType = "SECRET"
	EnvironmentVariableUnknown EnvironmentVariableType = "UNKNOWN"
)

type EnvironmentVariable struct {
	Name   string                  `json:"name"`
	Type   EnvironmentVariableType `json:"type"`
	Value  *string                 `json:"value,omitempty"`
	Secret *Secret                 `json:"secret,omitempty"`
}

type Environment struct {
	Variables []EnvironmentVariable `json:"variables"`
}

type CommandInfo struct {
	Shell       bool         `json:"shell"`
	Value       string       `json:"value,omitempty"`
	Arguments   []string     `json:"arguments,omitempty"`
	Environment *Environment `json:"environment,omitempty"`
}

type VolumeMode string

const (
	VolumeRW VolumeMode = "RW"
	VolumeRO VolumeMode = "RO"
)

// Volume describes a mount attached to a container. Exactly one of
// HostPath, Image and Source provides the mount's backing.
type Volume struct {
	ContainerPath string        `json:"containerPath"`
	Mode          VolumeMode    `json:"mode,omitempty"`
	HostPath      *string       `json:"hostPath,omitempty"`
	Image         *Image        `json:"image,omitempty"`
	Source        *VolumeSource `json:"source,omitempty"`
}

type Image struct {
	Name string `json:"name"`
}

// VolumeSourceType is an open set: values outside the known constants can
// arrive from external data and are rejected during validation.
type VolumeSourceType string

const (
	VolumeSourceDockerVolume VolumeSourceType = "DOCKER_VOLUME"
	VolumeSourceHostPath     VolumeSourceType = "HOST_PATH"
	VolumeSourceSandboxPath  VolumeSourceType = "SANDBOX_PATH"
	VolumeSourceSecret       VolumeSourceType = "SECRET"
)

type VolumeSource struct {
	Type         VolumeSourceType  `json:"type"`
	DockerVolume *DockerVolumeInfo `json:"dockerVolume,omitempty"`
	HostPath     *HostPathInfo     `json:"hostPath,omitempty"`
	SandboxPath  *SandboxPathInfo  `json:"sandboxPath,omitempty"`
	Secret       *Secret           `json:"secret,omitempty"`
}

type DockerVolumeInfo struct {
	Driver string `json:"driver,omitempty"`
	Name   string `json:"name"`
}

type HostPathInfo struct {
	Path string `json:"path"`
}

type SandboxPathInfo struct {
	Path string `json:"path"`
}

type ContainerType string

const (
	ContainerDocker ContainerType = "DOCKER"
	ContainerMesos  ContainerType = "MESOS"
)

type ContainerInfo struct {
	Type    ContainerType `json:"type"`
	Docker  *DockerInfo   `json:"docker,omitempty"`
	Volumes []Volume      `json:"volumes,omitempty"`
}

type DockerInfo struct {
	Image        string        `json:"image"`
	Network      string        `json:"network,omitempty"`
	PortMappings []PortMapping `json:"portMappings,omitempty"`
}

type PortMapping struct {
	HostPort      uint16 `json:"hostPort"`
	ContainerPort uint16 `json:"containerPort"`
	Protocol      string `json:"protocol,omitempty"`
}

type ResourceType string

const ResourceScalar ResourceType = "SCALAR"

// Resource is a named quantity consumed from an agent's pool. Only scalar
// resources are modeled here.
type Resource struct {
	Name   string       `json:"name"`
	Type   ResourceType `json:"type"`
	Scalar *Scalar      `json:"scalar,omitempty"`
}

type Scalar struct {
	Value float64 `json:"value"`
}

type TaskInfo struct {
	Name      string         `json:"name"`
	TaskID    TaskID         `json:"taskID"`
	AgentID   AgentID        `json:"agentID"`
	Resources []Resource     `json:"resources,omitempty"`
	Command   *CommandInfo   `json:"command,omitempty"`
	Container *ContainerInfo `json:"container,omitempty"`
}
