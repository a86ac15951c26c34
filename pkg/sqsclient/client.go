/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package sqsclient implements the queue directory boundary over AWS SQS.
package sqsclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/queueops/sqswatch/pkg/logger"
	"github.com/queueops/sqswatch/pkg/models"
)

var (
	errNoRegion         = errors.New("no AWS region configured; set AWS_REGION or a profile region")
	errMissingAttribute = errors.New("attribute missing from response")
)

// sqsAPI is the slice of the SQS service client this package uses.
// ListQueuesAPIClient makes the paginator accept our test stubs.
type sqsAPI interface {
	sqs.ListQueuesAPIClient
	GetQueueAttributes(ctx context.Context, params *sqs.GetQueueAttributesInput,
		optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error)
}

// Client implements API over the AWS SQS service.
type Client struct {
	api    sqsAPI
	region string
	logger logger.Logger
}

var _ API = (*Client)(nil)

// NewClient builds a Client from the default AWS config chain
// (environment, shared config, instance metadata).
func NewClient(ctx context.Context, log logger.Logger) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	if cfg.Region == "" {
		return nil, errNoRegion
	}

	return &Client{
		api:    sqs.NewFromConfig(cfg),
		region: cfg.Region,
		logger: log,
	}, nil
}

// Region reports the region the client resolved, used for console links.
func (c *Client) Region() string {
	return c.region
}

// ListQueues enumerates all queue URLs, following pagination.
func (c *Client) ListQueues(ctx context.Context) ([]models.QueueRef, error) {
	var refs []models.QueueRef

	paginator := sqs.NewListQueuesPaginator(c.api, &sqs.ListQueuesInput{})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing queues: %w", err)
		}

		for _, url := range page.QueueUrls {
			refs = append(refs, models.NewQueueRef(url))
		}
	}

	c.logger.Debug().Int("queues", len(refs)).Msg("Listed queues")

	return refs, nil
}

// GetCounts reads the approximate message counts for one queue. The
// in-flight attribute is only requested when asked for, saving an
// attribute read otherwise.
func (c *Client) GetCounts(ctx context.Context, queue models.QueueRef, includeInFlight bool) (models.Counts, error) {
	names := []types.QueueAttributeName{
		types.QueueAttributeNameApproximateNumberOfMessages,
	}
	if includeInFlight {
		names = append(names, types.QueueAttributeNameApproximateNumberOfMessagesNotVisible)
	}

	out, err := c.api.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(queue.URL),
		AttributeNames: names,
	})
	if err != nil {
		return models.Counts{}, fmt.Errorf("fetching attributes for %s: %w", queue.Name, err)
	}

	visible, err := parseCount(out.Attributes, types.QueueAttributeNameApproximateNumberOfMessages)
	if err != nil {
		return models.Counts{}, err
	}

	counts := models.Counts{Visible: visible}

	if includeInFlight {
		// Some queue states omit the attribute; treat that as zero
		// rather than failing the queue.
		inFlight, err := parseCount(out.Attributes, types.QueueAttributeNameApproximateNumberOfMessagesNotVisible)
		if err == nil {
			counts.InFlight = inFlight
			counts.InFlightKnown = true
		} else if !errors.Is(err, errMissingAttribute) {
			return models.Counts{}, err
		}
	}

	return counts, nil
}

func parseCount(attrs map[string]string, name types.QueueAttributeName) (int, error) {
	raw, ok := attrs[string(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errMissingAttribute, name)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing %s value %q: %w", name, raw, err)
	}

	return n, nil
}
