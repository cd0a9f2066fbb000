package config

import (
	"os"
)

func LoadFromEnv() {
	SpoolPath = os.Getenv("SPOOL_PATH")
	SandboxDir = os.Getenv("SANDBOX_DIR")

	InfluxURL = os.Getenv("INFLUX_URL")
	InfluxToken = os.Getenv("INFLUX_TOKEN")
	InfluxOrg = os.Getenv("INFLUX_ORG")
	InfluxBucket = os.Getenv("INFLUX_BUCKET")

	LaunchQueueURL = os.Getenv("LAUNCH_QUEUE_URL")
	EventQueueURL = os.Getenv("EVENT_QUEUE_URL")

	Region = os.Getenv("AWS_REGION")
	AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	LaunchNetwork = os.Getenv("LAUNCH_NETWORK")
}
