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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envlane/envlane/api/v1alpha1"
)

const validStackYAML = `
apiVersion: envlane.dev/v1alpha1
kind: Stack
spec:
  prefix: orders
  namespace: orders-prod
  labels:
    team: payments
  workload:
    name: orders-api
    image: registry.example.com/orders-api:1.4.2
    port: 8080
  autoscaling:
    targetWorkload: orders-api
    maxReplicaCount: 10
    triggers:
      - type: aws-sqs-queue
        queueURL: http://elasticmq:9324/000000000000/orders
        queueLength: 5
      - type: cpu
        value: 80
  database:
    database: orders
    username: orders
    storageSize: 10Gi
`

func TestParseStack(t *testing.T) {
	stack, err := ParseStack([]byte(validStackYAML))
	require.NoError(t, err)

	assert.Equal(t, "orders", stack.Spec.Prefix)
	assert.Equal(t, "orders-prod", stack.Spec.Namespace)
	require.NotNil(t, stack.Spec.Workload)
	assert.Equal(t, int32(8080), stack.Spec.Workload.Port)
	require.NotNil(t, stack.Spec.Autoscaling)
	require.Len(t, stack.Spec.Autoscaling.Triggers, 2)
	assert.Equal(t, v1alpha1.TriggerTypeQueue, stack.Spec.Autoscaling.Triggers[0].Type)

	// Numeric trigger values survive decoding and render as strings later.
	cpu := stack.Spec.Autoscaling.Triggers[1]
	require.NotNil(t, cpu.Value)
	assert.Equal(t, "80", cpu.Value.String())
}

func TestParseStackRejectsUnknownFields(t *testing.T) {
	doc := `
apiVersion: envlane.dev/v1alpha1
kind: Stack
spec:
  prefix: orders
  namespace: orders-prod
  workload:
    name: orders-api
    image: img
    replicaCount: 3
`
	_, err := ParseStack([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding stack file")
}

func TestValidateStackEnvelope(t *testing.T) {
	stack, err := ParseStack([]byte(validStackYAML))
	require.NoError(t, err)

	stack.APIVersion = "envlane.dev/v1"
	err = ValidateStack(stack)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported apiVersion")

	stack.APIVersion = v1alpha1.StackAPIVersion
	stack.Kind = "Environment"
	err = ValidateStack(stack)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported kind")
}

func TestValidateStackRequiredFields(t *testing.T) {
	stack := &v1alpha1.Stack{
		APIVersion: v1alpha1.StackAPIVersion,
		Kind:       v1alpha1.StackKind,
		Spec:       v1alpha1.StackSpec{Namespace: "orders-prod"},
	}
	err := ValidateStack(stack)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid stack spec")
}

func TestValidateStackReplicaBounds(t *testing.T) {
	stack, err := ParseStack([]byte(validStackYAML))
	require.NoError(t, err)

	min := int32(20)
	stack.Spec.Autoscaling.MinReplicaCount = &min
	err = ValidateStack(stack)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maxReplicaCount")
}

func TestValidateStackTargetWorkloadMismatch(t *testing.T) {
	stack, err := ParseStack([]byte(validStackYAML))
	require.NoError(t, err)

	stack.Spec.Autoscaling.TargetWorkload = "payments-api"
	err = ValidateStack(stack)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match workload")
}

func TestLoadStack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validStackYAML), 0o600))

	stack, err := LoadStack(path)
	require.NoError(t, err)
	assert.Equal(t, "orders", stack.Spec.Prefix)

	_, err = LoadStack(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestConfigMerge(t *testing.T) {
	cfg := &Config{
		Kubeconfig:     "/home/dev/.kube/config",
		DefaultProfile: "dev",
		DefaultRegion:  "eu-west-1",
	}

	k, p, r := cfg.Merge("", "", "")
	assert.Equal(t, "/home/dev/.kube/config", k)
	assert.Equal(t, "dev", p)
	assert.Equal(t, "eu-west-1", r)

	k, p, r = cfg.Merge("/tmp/kubeconfig", "prod", "us-east-1")
	assert.Equal(t, "/tmp/kubeconfig", k)
	assert.Equal(t, "prod", p)
	assert.Equal(t, "us-east-1", r)
}
