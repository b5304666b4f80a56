package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/intake-dal/internal/domain"
)

// Publisher pushes created notifications to an SNS topic for downstream delivery.
type Publisher interface {
	Publish(ctx context.Context, n domain.Notification) error
}

type publisher struct {
	client   *sns.Client
	topicARN string
}

// NewPublisher creates a publisher for topicARN. A non-nil endpoint (LocalStack)
// receives all traffic.
func NewPublisher(awsCfg aws.Config, endpoint *string, topicARN string) Publisher {
	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if endpoint != nil {
			o.BaseEndpoint = endpoint
		}
	})
	return NewPublisherWithClient(client, topicARN)
}

func NewPublisherWithClient(client *sns.Client, topicARN string) Publisher {
	return &publisher{client: client, topicARN: topicARN}
}

func (p *publisher) Publish(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(subject(n.Title)),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"userId": {DataType: aws.String("String"), StringValue: aws.String(n.UserID)},
		},
	})
	return err
}

// subject trims titles to the 100 character SNS subject limit.
func subject(title string) string {
	r := []rune(title)
	if len(r) > 100 {
		return string(r[:100])
	}
	if len(r) == 0 {
		return "notification"
	}
	return title
}
