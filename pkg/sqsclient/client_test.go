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

package sqsclient

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/queueops/sqswatch/pkg/logger"
	"github.com/queueops/sqswatch/pkg/models"
)

// mockSQSAPI is a mock implementation of the SQS service client slice.
type mockSQSAPI struct {
	mock.Mock
}

func (m *mockSQSAPI) ListQueues(
	ctx context.Context, in *sqs.ListQueuesInput, _ ...func(*sqs.Options)) (*sqs.ListQueuesOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.ListQueuesOutput), args.Error(1)
}

func (m *mockSQSAPI) GetQueueAttributes(
	ctx context.Context, in *sqs.GetQueueAttributesInput, _ ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.GetQueueAttributesOutput), args.Error(1)
}

func newTestClient(api sqsAPI) *Client {
	return &Client{
		api:    api,
		region: "eu-west-1",
		logger: logger.NewTestLogger(),
	}
}

func TestClient_ListQueues_Paginates(t *testing.T) {
	api := &mockSQSAPI{}
	api.On("ListQueues", mock.Anything, mock.Anything).Return(&sqs.ListQueuesOutput{
		QueueUrls: []string{
			"https://sqs.eu-west-1.amazonaws.com/123456789012/orders",
			"https://sqs.eu-west-1.amazonaws.com/123456789012/orders-dlq",
		},
		NextToken: aws.String("page-2"),
	}, nil).Once()
	api.On("ListQueues", mock.Anything, mock.Anything).Return(&sqs.ListQueuesOutput{
		QueueUrls: []string{
			"https://sqs.eu-west-1.amazonaws.com/123456789012/payments",
		},
	}, nil).Once()

	client := newTestClient(api)

	refs, err := client.ListQueues(context.Background())
	require.NoError(t, err)

	require.Len(t, refs, 3)
	assert.Equal(t, "orders", refs[0].Name)
	assert.Equal(t, "orders-dlq", refs[1].Name)
	assert.Equal(t, "payments", refs[2].Name)
	api.AssertExpectations(t)
}

func TestClient_ListQueues_Error(t *testing.T) {
	api := &mockSQSAPI{}
	api.On("ListQueues", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	client := newTestClient(api)

	_, err := client.ListQueues(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing queues")
}

func TestClient_GetCounts_VisibleOnly(t *testing.T) {
	api := &mockSQSAPI{}
	api.On("GetQueueAttributes", mock.Anything, mock.MatchedBy(func(in *sqs.GetQueueAttributesInput) bool {
		// Without the in-flight flag, only one attribute is requested.
		return len(in.AttributeNames) == 1 &&
			in.AttributeNames[0] == types.QueueAttributeNameApproximateNumberOfMessages
	})).Return(&sqs.GetQueueAttributesOutput{
		Attributes: map[string]string{
			string(types.QueueAttributeNameApproximateNumberOfMessages): "12",
		},
	}, nil)

	client := newTestClient(api)
	ref := models.NewQueueRef("https://sqs.eu-west-1.amazonaws.com/123456789012/orders")

	counts, err := client.GetCounts(context.Background(), ref, false)
	require.NoError(t, err)

	assert.Equal(t, 12, counts.Visible)
	assert.False(t, counts.InFlightKnown)
	api.AssertExpectations(t)
}

func TestClient_GetCounts_WithInFlight(t *testing.T) {
	api := &mockSQSAPI{}
	api.On("GetQueueAttributes", mock.Anything, mock.Anything).Return(&sqs.GetQueueAttributesOutput{
		Attributes: map[string]string{
			string(types.QueueAttributeNameApproximateNumberOfMessages):           "3",
			string(types.QueueAttributeNameApproximateNumberOfMessagesNotVisible): "7",
		},
	}, nil)

	client := newTestClient(api)
	ref := models.NewQueueRef("https://sqs.eu-west-1.amazonaws.com/123456789012/orders")

	counts, err := client.GetCounts(context.Background(), ref, true)
	require.NoError(t, err)

	assert.Equal(t, 3, counts.Visible)
	assert.Equal(t, 7, counts.InFlight)
	assert.True(t, counts.InFlightKnown)
}

func TestClient_GetCounts_InFlightAttributeMissing(t *testing.T) {
	api := &mockSQSAPI{}
	api.On("GetQueueAttributes", mock.Anything, mock.Anything).Return(&sqs.GetQueueAttributesOutput{
		Attributes: map[string]string{
			string(types.QueueAttributeNameApproximateNumberOfMessages): "5",
		},
	}, nil)

	client := newTestClient(api)
	ref := models.NewQueueRef("https://sqs.eu-west-1.amazonaws.com/123456789012/orders")

	counts, err := client.GetCounts(context.Background(), ref, true)
	require.NoError(t, err)

	assert.Equal(t, 5, counts.Visible)
	assert.Equal(t, 0, counts.InFlight)
	assert.False(t, counts.InFlightKnown)
}

func TestClient_GetCounts_ServiceError(t *testing.T) {
	api := &mockSQSAPI{}
	api.On("GetQueueAttributes", mock.Anything, mock.Anything).
		Return(nil, errors.New("queue does not exist"))

	client := newTestClient(api)
	ref := models.NewQueueRef("https://sqs.eu-west-1.amazonaws.com/123456789012/gone")

	_, err := client.GetCounts(context.Background(), ref, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone")
}

func TestClient_GetCounts_MalformedValue(t *testing.T) {
	api := &mockSQSAPI{}
	api.On("GetQueueAttributes", mock.Anything, mock.Anything).Return(&sqs.GetQueueAttributesOutput{
		Attributes: map[string]string{
			string(types.QueueAttributeNameApproximateNumberOfMessages): "not-a-number",
		},
	}, nil)

	client := newTestClient(api)
	ref := models.NewQueueRef("https://sqs.eu-west-1.amazonaws.com/123456789012/orders")

	_, err := client.GetCounts(context.Background(), ref, false)
	require.Error(t, err)
}
