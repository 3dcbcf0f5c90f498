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

// Package autoscaler builds the scaling policy objects: the ScaledObject
// carrying the composed triggers, and the TriggerAuthentication those
// triggers reference. The target workload is an explicit field of the stack;
// it is never derived from the naming prefix.
package autoscaler

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/envlane/envlane/api/v1alpha1"
	kedav1alpha1 "github.com/envlane/envlane/pkg/apis/keda/v1alpha1"
	"github.com/envlane/envlane/pkg/provision"
	"github.com/envlane/envlane/pkg/provision/composer"
)

// CooldownPeriod is the fixed scale-down wait in seconds. The policy keeps
// it out of the stack file: every stack cools down the same way.
const CooldownPeriod = int32(300)

// PodIdentityProvider is the identity provider queue-depth triggers
// authenticate through.
const PodIdentityProvider = "aws"

// MakeScaledObject composes the stack's triggers and wraps them in a
// ScaledObject. Fails when any trigger descriptor is invalid; no object is
// produced in that case.
func MakeScaledObject(stack *v1alpha1.Stack) (*kedav1alpha1.ScaledObject, error) {
	a := stack.Spec.Autoscaling

	triggers, err := composer.Compose(a.Triggers, stack.Spec.Prefix, composer.Options{
		DefaultQueueRegion: a.QueueRegion,
	})
	if err != nil {
		return nil, err
	}

	return &kedav1alpha1.ScaledObject{
		ObjectMeta: metav1.ObjectMeta{
			Name:      stack.Spec.ScaledObjectName(),
			Namespace: stack.Spec.Namespace,
			Labels:    provision.ComponentLabels(&stack.Spec, provision.ComponentAutoscaler),
		},
		Spec: kedav1alpha1.ScaledObjectSpec{
			ScaleTargetRef: &kedav1alpha1.ScaleTarget{
				Name: a.TargetWorkload,
			},
			PollingInterval:  a.PollingInterval,
			CooldownPeriod:   ptr.To(CooldownPeriod),
			IdleReplicaCount: a.IdleReplicaCount,
			MinReplicaCount:  a.MinReplicaCount,
			MaxReplicaCount:  ptr.To(a.MaxReplicaCount),
			Triggers:         triggers,
		},
	}, nil
}

// MakeTriggerAuthentication builds the pod-identity TriggerAuthentication
// under the name the composer stamps into queue-depth triggers. Returns nil
// when the stack has no queue-depth trigger, since nothing would reference it.
func MakeTriggerAuthentication(stack *v1alpha1.Stack) *kedav1alpha1.TriggerAuthentication {
	if !HasQueueTrigger(stack) {
		return nil
	}

	return &kedav1alpha1.TriggerAuthentication{
		ObjectMeta: metav1.ObjectMeta{
			Name:      stack.Spec.TriggerAuthenticationName(),
			Namespace: stack.Spec.Namespace,
			Labels:    provision.ComponentLabels(&stack.Spec, provision.ComponentAutoscaler),
		},
		Spec: kedav1alpha1.TriggerAuthenticationSpec{
			PodIdentity: &kedav1alpha1.AuthPodIdentity{
				Provider: PodIdentityProvider,
			},
		},
	}
}

// HasQueueTrigger reports whether the stack's autoscaling section contains
// at least one queue-depth trigger.
func HasQueueTrigger(stack *v1alpha1.Stack) bool {
	if stack.Spec.Autoscaling == nil {
		return false
	}
	for _, t := range stack.Spec.Autoscaling.Triggers {
		if t.Type == v1alpha1.TriggerTypeQueue {
			return true
		}
	}
	return false
}
