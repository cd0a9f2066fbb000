package config

var (
	SpoolPath  string
	SandboxDir string
)

var (
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
)

var (
	LaunchQueueURL string
	EventQueueURL  string

	Region          string
	AccessKeyID     string
	SecretAccessKey string
)

var (
	LaunchNetwork string
)
