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

package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	"github.com/envlane/envlane/api/v1alpha1"
	kedav1alpha1 "github.com/envlane/envlane/pkg/apis/keda/v1alpha1"
)

func queueTrigger(url string, length int64) v1alpha1.TriggerSpec {
	return v1alpha1.TriggerSpec{
		Type:        v1alpha1.TriggerTypeQueue,
		QueueURL:    url,
		QueueLength: length,
	}
}

func TestComposeQueueTrigger(t *testing.T) {
	in := []v1alpha1.TriggerSpec{
		queueTrigger("https://sqs.example.com/000000000000/q", 5),
	}

	out, err := Compose(in, "svc-ns", Options{})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, kedav1alpha1.ScaleTriggers{
		Type: "aws-sqs-queue",
		Metadata: map[string]string{
			"queueURL":      "https://sqs.example.com/000000000000/q",
			"queueLength":   "5",
			"awsRegion":     "elasticmq",
			"identityOwner": "pod",
		},
		AuthenticationRef: &kedav1alpha1.AuthenticationRef{Name: "svc-ns-trigger-auth"},
	}, out[0])
}

func TestComposeQueueTriggerOptionalFields(t *testing.T) {
	in := []v1alpha1.TriggerSpec{
		{
			Type:                  v1alpha1.TriggerTypeQueue,
			QueueURL:              "https://sqs.eu-west-1.amazonaws.com/000000000000/jobs",
			QueueLength:           10,
			Region:                "eu-west-1",
			ActivationQueueLength: ptr.To[int64](2),
			ScaleOnInFlight:       ptr.To(false),
			ScaleOnDelayed:        ptr.To(true),
		},
	}

	out, err := Compose(in, "jobs-prod", Options{})
	require.NoError(t, err)
	require.Len(t, out, 1)

	md := out[0].Metadata
	assert.Equal(t, "eu-west-1", md["awsRegion"])
	assert.Equal(t, "2", md["activationQueueLength"])
	assert.Equal(t, "false", md["scaleOnInFlight"])
	assert.Equal(t, "true", md["scaleOnDelayed"])
}

func TestComposeQueueRegionDefaulting(t *testing.T) {
	in := []v1alpha1.TriggerSpec{queueTrigger("https://sqs.example.com/q", 1)}

	out, err := Compose(in, "p", Options{DefaultQueueRegion: "us-east-2"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-2", out[0].Metadata["awsRegion"])

	// Per-trigger region beats the option.
	in[0].Region = "ap-southeast-1"
	out, err = Compose(in, "p", Options{DefaultQueueRegion: "us-east-2"})
	require.NoError(t, err)
	assert.Equal(t, "ap-southeast-1", out[0].Metadata["awsRegion"])
}

func TestComposeResourceValueStringified(t *testing.T) {
	numeric := intstr.FromInt32(80)
	quoted := intstr.FromString("80")

	for _, value := range []intstr.IntOrString{numeric, quoted} {
		v := value
		out, err := Compose([]v1alpha1.TriggerSpec{
			{Type: v1alpha1.TriggerTypeCPU, Value: &v},
		}, "p", Options{})
		require.NoError(t, err)
		assert.Equal(t, "80", out[0].Metadata["value"])
	}
}

func TestComposeResourceMetricTypeDefault(t *testing.T) {
	v := intstr.FromInt32(75)
	out, err := Compose([]v1alpha1.TriggerSpec{
		{Type: v1alpha1.TriggerTypeMemory, Value: &v},
	}, "p", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Utilization", out[0].MetricType)

	out, err = Compose([]v1alpha1.TriggerSpec{
		{Type: v1alpha1.TriggerTypeMemory, MetricType: "AverageValue", Value: &v},
	}, "p", Options{})
	require.NoError(t, err)
	assert.Equal(t, "AverageValue", out[0].MetricType)
}

func TestComposeNoFieldLeakageBetweenKinds(t *testing.T) {
	v := intstr.FromInt32(60)
	in := []v1alpha1.TriggerSpec{
		queueTrigger("https://sqs.example.com/q", 3),
		{Type: v1alpha1.TriggerTypeCPU, Value: &v},
		{Type: v1alpha1.TriggerTypeMemory, Value: &v},
	}

	out, err := Compose(in, "p", Options{})
	require.NoError(t, err)
	require.Len(t, out, 3)

	// cpu/memory never see queue metadata or an authenticationRef.
	for _, trigger := range out[1:] {
		assert.NotContains(t, trigger.Metadata, "queueURL")
		assert.NotContains(t, trigger.Metadata, "queueLength")
		assert.NotContains(t, trigger.Metadata, "awsRegion")
		assert.NotContains(t, trigger.Metadata, "identityOwner")
		assert.Nil(t, trigger.AuthenticationRef)
	}
	// and the queue trigger never sees a resource value.
	assert.NotContains(t, out[0].Metadata, "value")
	assert.Empty(t, out[0].MetricType)
}

func TestComposePreservesOrder(t *testing.T) {
	v := intstr.FromInt32(50)
	in := []v1alpha1.TriggerSpec{
		{Type: v1alpha1.TriggerTypeCPU, Value: &v},
		queueTrigger("https://sqs.example.com/a", 1),
		{Type: v1alpha1.TriggerTypeMemory, Value: &v},
		queueTrigger("https://sqs.example.com/b", 2),
	}

	out, err := Compose(in, "p", Options{})
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, "cpu", out[0].Type)
	assert.Equal(t, "https://sqs.example.com/a", out[1].Metadata["queueURL"])
	assert.Equal(t, "memory", out[2].Type)
	assert.Equal(t, "https://sqs.example.com/b", out[3].Metadata["queueURL"])
}

func TestComposeIdempotent(t *testing.T) {
	v := intstr.FromString("85")
	in := []v1alpha1.TriggerSpec{
		queueTrigger("https://sqs.example.com/q", 7),
		{Type: v1alpha1.TriggerTypeCPU, Value: &v},
	}

	first, err := Compose(in, "svc", Options{})
	require.NoError(t, err)
	second, err := Compose(in, "svc", Options{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComposeEmptyInput(t *testing.T) {
	out, err := Compose(nil, "svc", Options{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestComposeRejectsUnknownKind(t *testing.T) {
	in := []v1alpha1.TriggerSpec{{Type: "unknown-kind"}}

	out, err := Compose(in, "svc", Options{})
	assert.Nil(t, out)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, verr.Index)
	assert.Equal(t, "unknown-kind", verr.Type)
}

func TestComposeFailsClosedOnMissingFields(t *testing.T) {
	cases := []struct {
		name string
		in   v1alpha1.TriggerSpec
	}{
		{"queue without URL", v1alpha1.TriggerSpec{Type: v1alpha1.TriggerTypeQueue, QueueLength: 5}},
		{"queue without length", v1alpha1.TriggerSpec{Type: v1alpha1.TriggerTypeQueue, QueueURL: "https://sqs.example.com/q"}},
		{"cpu without value", v1alpha1.TriggerSpec{Type: v1alpha1.TriggerTypeCPU}},
		{"memory without value", v1alpha1.TriggerSpec{Type: v1alpha1.TriggerTypeMemory}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Compose([]v1alpha1.TriggerSpec{tc.in}, "svc", Options{})
			assert.Nil(t, out)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestComposeNoPartialOutput(t *testing.T) {
	// A bad descriptor anywhere in the sequence fails the whole call, even
	// when earlier descriptors are valid.
	in := []v1alpha1.TriggerSpec{
		queueTrigger("https://sqs.example.com/q", 5),
		{Type: "bogus"},
	}

	out, err := Compose(in, "svc", Options{})
	assert.Nil(t, out)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Index)
}
