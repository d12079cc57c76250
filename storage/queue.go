package storage

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
)

type SQS struct {
	svc      *sqs.SQS
	queueURL string
}

func NewSQS(sess *session.Session, queueURL string) *SQS {
	svc := sqs.New(sess)
	return &SQS{svc, queueURL}
}

// Poll long-polls for up to ten upload messages.
func (s *SQS) Poll(ctx context.Context) ([]*sqs.Message, error) {
	input := &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(s.queueURL),
		MaxNumberOfMessages: aws.Int64(10),
		WaitTimeSeconds:     aws.Int64(20),
	}
	output, err := s.svc.ReceiveMessageWithContext(ctx, input)
	if err != nil {
		return nil, err
	}
	return output.Messages, nil
}

func (s *SQS) DeleteMessage(ctx context.Context, m *sqs.Message) error {
	input := &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.queueURL),
		ReceiptHandle: m.ReceiptHandle,
	}
	_, err := s.svc.DeleteMessageWithContext(ctx, input)
	return err
}
