package queue

import (
	"context"
	"encoding/json"

	"github.com/armada-cluster/armada/internal/launch"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/pkg/errors"
)

// SQSSource receives launch requests from an SQS queue. Payloads are
// schema-checked before decoding so downstream code can rely on the
// closed tag sets.
type SQSSource struct {
	client   *sqs.Client
	queueURL string
}

var _ launch.Source = (*SQSSource)(nil)

func NewSQSSource(client *sqs.Client, queueURL string) *SQSSource {
	return &SQSSource{
		client:   client,
		queueURL: queueURL,
	}
}

func (s *SQSSource) Poll(ctx context.Context) (receipt string, req launch.Request, err error) {
	input := &sqs.ReceiveMessageInput{QueueUrl: aws.String(s.queueURL)}

	result, err := s.client.ReceiveMessage(ctx, input)
	if err != nil {
		return "", launch.Request{}, errors.Wrap(err, "receiving message")
	}

	if len(result.Messages) == 0 {
		return "", launch.Request{}, launch.NoErrEmptyQueue
	}

	msg := result.Messages[0]
	raw := []byte(aws.ToString(msg.Body))

	if err := launch.CheckPayload(raw); err != nil {
		return "", launch.Request{}, errors.Wrap(err, "checking payload")
	}

	var decoded launch.Request
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", launch.Request{}, errors.Wrap(err, "unmarshaling request")
	}

	return aws.ToString(msg.ReceiptHandle), decoded, nil
}

func (s *SQSSource) MarkAsDone(ctx context.Context, receipt string) error {
	input := &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.queueURL),
		ReceiptHandle: aws.String(receipt),
	}

	if _, err := s.client.DeleteMessage(ctx, input); err != nil {
		return errors.Wrap(err, "deleting message")
	}

	return nil
}
