package main

import (
	"context"
	"os"
	"time"

	"github.com/armada-cluster/armada/internal/admission"
	conf "github.com/armada-cluster/armada/internal/config"
	"github.com/armada-cluster/armada/internal/event"
	"github.com/armada-cluster/armada/internal/launch"
	"github.com/armada-cluster/armada/internal/launch/queue"
	"github.com/armada-cluster/armada/internal/launch/spool"
	"github.com/armada-cluster/armada/internal/launcher"
	"github.com/armada-cluster/armada/internal/metric"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/docker/docker/client"
	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load()
	conf.LoadFromEnv()

	logger := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(os.Stdout), zap.DebugLevel,
	))

	awsConfig := aws.Config{
		Region:      conf.Region,
		Credentials: credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.SecretAccessKey, ""),
	}

	sqsClient := sqs.NewFromConfig(awsConfig)

	var source launch.Source
	if conf.LaunchQueueURL != "" {
		source = queue.NewSQSSource(sqsClient, conf.LaunchQueueURL)
	} else {
		// Local replay mode: consume a pre-generated spool instead.
		source = spool.NewSource(spool.NewFSSpool(conf.SpoolPath))
	}

	opts := admission.WorkerOpts{
		Source:       source,
		PollInterval: 10 * time.Second,
		Publisher:    event.NewSQSEventBus(sqsClient, logger, conf.EventQueueURL),
	}

	if conf.InfluxURL != "" {
		influxClient := influxdb2.NewClientWithOptions(conf.InfluxURL, conf.InfluxToken, influxdb2.DefaultOptions())

		session, errchan := metric.NewStorage(influxClient).WriteSession(conf.InfluxOrg, conf.InfluxBucket)
		defer session.Close()

		go func() {
			for err := range errchan {
				logger.Error("failed to write metric", zap.Error(err))
			}
		}()

		opts.Metrics = session
	}

	if conf.LaunchNetwork != "" {
		dockerClient, err := client.NewClientWithOpts(client.FromEnv)
		if err != nil {
			logger.Fatal("failed to initialize docker client", zap.Error(err))
		}

		l := launcher.New(launcher.Opts{
			Network:    conf.LaunchNetwork,
			SandboxDir: conf.SandboxDir,
			Log:        logger,
			Docker:     dockerClient,
		})
		defer l.Teardown(context.Background())

		opts.Launcher = l
	}

	worker := admission.NewWorker(logger, opts)
	if err := worker.Run(context.TODO()); err != nil {
		logger.Error("worker stopped", zap.Error(err))
	}
}
