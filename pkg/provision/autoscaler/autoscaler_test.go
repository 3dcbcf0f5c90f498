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

package autoscaler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	"github.com/envlane/envlane/api/v1alpha1"
	"github.com/envlane/envlane/pkg/provision/composer"
)

func testStack() *v1alpha1.Stack {
	return &v1alpha1.Stack{
		Spec: v1alpha1.StackSpec{
			Prefix:    "orders",
			Namespace: "orders-prod",
			Autoscaling: &v1alpha1.AutoscalingSpec{
				TargetWorkload:  "orders-api",
				PollingInterval: ptr.To(int32(15)),
				MinReplicaCount: ptr.To(int32(1)),
				MaxReplicaCount: 20,
				Triggers: []v1alpha1.TriggerSpec{
					{
						Type:        v1alpha1.TriggerTypeQueue,
						QueueURL:    "https://sqs.eu-west-1.amazonaws.com/000000000000/orders",
						QueueLength: 10,
						Region:      "eu-west-1",
					},
				},
			},
		},
	}
}

func TestMakeScaledObject(t *testing.T) {
	so, err := MakeScaledObject(testStack())
	require.NoError(t, err)

	assert.Equal(t, "orders-scaler", so.Name)
	assert.Equal(t, "orders-prod", so.Namespace)
	assert.Equal(t, "orders-api", so.Spec.ScaleTargetRef.Name)
	assert.Equal(t, ptr.To(int32(15)), so.Spec.PollingInterval)
	assert.Equal(t, ptr.To(CooldownPeriod), so.Spec.CooldownPeriod)
	assert.Equal(t, ptr.To(int32(1)), so.Spec.MinReplicaCount)
	assert.Equal(t, ptr.To(int32(20)), so.Spec.MaxReplicaCount)

	require.Len(t, so.Spec.Triggers, 1)
	trigger := so.Spec.Triggers[0]
	assert.Equal(t, v1alpha1.TriggerTypeQueue, trigger.Type)
	require.NotNil(t, trigger.AuthenticationRef)
	assert.Equal(t, "orders-trigger-auth", trigger.AuthenticationRef.Name)
}

func TestMakeScaledObjectInvalidTrigger(t *testing.T) {
	stack := testStack()
	stack.Spec.Autoscaling.Triggers = append(stack.Spec.Autoscaling.Triggers,
		v1alpha1.TriggerSpec{Type: "unknown-kind"})

	so, err := MakeScaledObject(stack)
	assert.Nil(t, so)

	var verr *composer.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestMakeTriggerAuthentication(t *testing.T) {
	auth := MakeTriggerAuthentication(testStack())

	require.NotNil(t, auth)
	assert.Equal(t, "orders-trigger-auth", auth.Name)
	assert.Equal(t, "orders-prod", auth.Namespace)
	require.NotNil(t, auth.Spec.PodIdentity)
	assert.Equal(t, PodIdentityProvider, auth.Spec.PodIdentity.Provider)
}

func TestMakeTriggerAuthenticationOnlyForQueueTriggers(t *testing.T) {
	stack := testStack()
	v := intstr.FromInt32(80)
	stack.Spec.Autoscaling.Triggers = []v1alpha1.TriggerSpec{
		{Type: v1alpha1.TriggerTypeCPU, Value: &v},
	}

	assert.False(t, HasQueueTrigger(stack))
	assert.Nil(t, MakeTriggerAuthentication(stack))
}

func TestTriggerAuthNameMatchesComposedReference(t *testing.T) {
	stack := testStack()

	auth := MakeTriggerAuthentication(stack)
	so, err := MakeScaledObject(stack)
	require.NoError(t, err)

	// the name the composer stamped into the trigger must be the name the
	// TriggerAuthentication is created under
	assert.Equal(t, auth.Name, so.Spec.Triggers[0].AuthenticationRef.Name)
}
