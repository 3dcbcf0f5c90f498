/*
Copyright 2025 The Envlane Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package serverless

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueARN(t *testing.T) {
	tests := []struct {
		name     string
		queueURL string
		want     string
	}{
		{
			name:     "standard AWS URL",
			queueURL: "https://sqs.eu-west-1.amazonaws.com/123456789012/orders",
			want:     "arn:aws:sqs:eu-west-1:123456789012:orders",
		},
		{
			name:     "emulator URL falls back to wildcard",
			queueURL: "http://elasticmq:9324/000000000000/orders",
			want:     "*",
		},
		{
			name:     "missing path segments fall back to wildcard",
			queueURL: "https://sqs.eu-west-1.amazonaws.com/orders",
			want:     "*",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, queueARN(tt.queueURL))
		})
	}
}

func TestSQSConsumePolicy(t *testing.T) {
	raw, err := sqsConsumePolicy([]string{
		"https://sqs.us-east-1.amazonaws.com/123456789012/a",
		"https://sqs.us-east-1.amazonaws.com/123456789012/b",
	})
	require.NoError(t, err)

	var doc policyDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	require.Len(t, doc.Statement, 1)
	assert.Equal(t, "Allow", doc.Statement[0].Effect)
	assert.Contains(t, doc.Statement[0].Action, "sqs:ReceiveMessage")
	assert.Equal(t, []string{
		"arn:aws:sqs:us-east-1:123456789012:a",
		"arn:aws:sqs:us-east-1:123456789012:b",
	}, doc.Statement[0].Resource)
}

func TestLambdaTrustPolicy(t *testing.T) {
	raw, err := lambdaTrustPolicy()
	require.NoError(t, err)

	var doc policyDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	require.Len(t, doc.Statement, 1)
	require.NotNil(t, doc.Statement[0].Principal)
	assert.Equal(t, "lambda.amazonaws.com", doc.Statement[0].Principal.Service)
	assert.Equal(t, []string{"sts:AssumeRole"}, doc.Statement[0].Action)
}
