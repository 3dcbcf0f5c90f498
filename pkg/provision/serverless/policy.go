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
	"fmt"
	"net/url"
	"strings"
)

// policyDocument is the subset of the IAM policy grammar this tool emits.
type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Effect    string           `json:"Effect"`
	Action    []string         `json:"Action,omitempty"`
	Resource  []string         `json:"Resource,omitempty"`
	Principal *policyPrincipal `json:"Principal,omitempty"`
}

type policyPrincipal struct {
	Service string `json:"Service,omitempty"`
}

const policyVersion = "2012-10-17"

// lambdaTrustPolicy lets the Lambda service assume the role.
func lambdaTrustPolicy() (string, error) {
	doc := policyDocument{
		Version: policyVersion,
		Statement: []policyStatement{
			{
				Effect:    "Allow",
				Action:    []string{"sts:AssumeRole"},
				Principal: &policyPrincipal{Service: "lambda.amazonaws.com"},
			},
		},
	}
	return marshalPolicy(doc)
}

// sqsConsumePolicy grants read access to the given queues. Used as the
// role's inline policy when the stack scales on queue depth, so the
// function can drain the queues the autoscaler watches.
func sqsConsumePolicy(queueURLs []string) (string, error) {
	resources := make([]string, 0, len(queueURLs))
	for _, u := range queueURLs {
		resources = append(resources, queueARN(u))
	}

	doc := policyDocument{
		Version: policyVersion,
		Statement: []policyStatement{
			{
				Effect: "Allow",
				Action: []string{
					"sqs:ReceiveMessage",
					"sqs:DeleteMessage",
					"sqs:GetQueueAttributes",
				},
				Resource: resources,
			},
		},
	}
	return marshalPolicy(doc)
}

func marshalPolicy(doc policyDocument) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling policy document: %w", err)
	}
	return string(raw), nil
}

// queueARN derives an SQS queue ARN from its URL
// (https://sqs.<region>.amazonaws.com/<account>/<name>). URLs that do not
// follow the AWS scheme (local emulators, for instance) fall back to a
// wildcard resource.
func queueARN(queueURL string) string {
	u, err := url.Parse(queueURL)
	if err != nil {
		return "*"
	}

	host := strings.Split(u.Hostname(), ".")
	path := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(host) < 2 || host[0] != "sqs" || len(path) != 2 {
		return "*"
	}

	region, account, name := host[1], path[0], path[1]
	return fmt.Sprintf("arn:aws:sqs:%s:%s:%s", region, account, name)
}
