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

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ScaledObject tells the autoscaling controller how to scale a workload:
// the target reference, the replica bounds and an ordered list of triggers.
type ScaledObject struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ScaledObjectSpec `json:"spec"`
}

// ScaledObjectSpec is the desired scaling behavior for one workload.
type ScaledObjectSpec struct {
	ScaleTargetRef *ScaleTarget `json:"scaleTargetRef"`

	// PollingInterval is the interval (seconds) at which each trigger is
	// checked.
	PollingInterval *int32 `json:"pollingInterval,omitempty"`

	// CooldownPeriod is the wait (seconds) after the last active trigger
	// before scaling back down.
	CooldownPeriod *int32 `json:"cooldownPeriod,omitempty"`

	IdleReplicaCount *int32 `json:"idleReplicaCount,omitempty"`
	MinReplicaCount  *int32 `json:"minReplicaCount,omitempty"`
	MaxReplicaCount  *int32 `json:"maxReplicaCount,omitempty"`

	// Triggers are evaluated by the controller in order.
	Triggers []ScaleTriggers `json:"triggers"`
}

// ScaleTarget points at the scalable resource, a Deployment by default.
type ScaleTarget struct {
	Name       string `json:"name"`
	APIVersion string `json:"apiVersion,omitempty"`
	Kind       string `json:"kind,omitempty"`
}

// ScaleTriggers is one fully-populated trigger: a scaler type, its
// string-typed metadata and, for scalers that need credentials, a reference
// to a TriggerAuthentication.
type ScaleTriggers struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`

	// MetricType selects how cpu/memory values are interpreted
	// (Utilization or AverageValue).
	MetricType string `json:"metricType,omitempty"`

	Metadata map[string]string `json:"metadata"`

	AuthenticationRef *AuthenticationRef `json:"authenticationRef,omitempty"`
}

// AuthenticationRef names the TriggerAuthentication a trigger reads its
// credentials from.
type AuthenticationRef struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

// ScaledObjectList contains a list of ScaledObject.
type ScaledObjectList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ScaledObject `json:"items"`
}

func init() {
	SchemeBuilder.Register(&ScaledObject{}, &ScaledObjectList{})
}
