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
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

const (
	// StackAPIVersion is the apiVersion expected in stack definition files.
	StackAPIVersion = "envlane.dev/v1alpha1"
	// StackKind is the kind expected in stack definition files.
	StackKind = "Stack"
)

// Trigger kinds recognized by the trigger composer. The queue kind carries
// the scaler name used by the downstream autoscaling controller; cpu and
// memory map to the controller's resource scalers.
const (
	TriggerTypeQueue  = "aws-sqs-queue"
	TriggerTypeCPU    = "cpu"
	TriggerTypeMemory = "memory"
)

// Stack is the top-level document of a stack definition file. It describes
// one service environment: namespace, workload, autoscaling, database and
// serverless function. Every section is a plain mapping from fields to
// cluster or cloud API objects; sections left nil are not provisioned.
type Stack struct {
	APIVersion string `json:"apiVersion"`
	Kind       string `json:"kind"`

	Spec StackSpec `json:"spec"`
}

// StackSpec defines the desired resources of a stack.
type StackSpec struct {
	// Prefix is the naming prefix shared by every resource in the stack.
	// Derived names (trigger authentication, database, IAM role) are built
	// from it so that a stack's resources are recognizable and collision-free.
	Prefix string `json:"prefix" validate:"required"`

	// Namespace is the Kubernetes namespace the stack is provisioned into.
	// The namespace itself is created by the provisioner.
	Namespace string `json:"namespace" validate:"required"`

	// Labels are applied to every Kubernetes object the stack produces.
	Labels map[string]string `json:"labels,omitempty"`

	Workload    *WorkloadSpec    `json:"workload,omitempty"`
	Autoscaling *AutoscalingSpec `json:"autoscaling,omitempty"`
	Database    *DatabaseSpec    `json:"database,omitempty"`
	Serverless  *ServerlessSpec  `json:"serverless,omitempty"`
}

// WorkloadSpec describes the main Deployment and its Service.
type WorkloadSpec struct {
	Name  string `json:"name" validate:"required"`
	Image string `json:"image" validate:"required"`

	// Replicas is the initial replica count. The autoscaler takes over once
	// a ScaledObject targets this workload.
	Replicas *int32 `json:"replicas,omitempty"`

	// Port is the container port exposed through the Service.
	Port int32 `json:"port,omitempty"`

	Env []corev1.EnvVar `json:"env,omitempty"`

	Resources corev1.ResourceRequirements `json:"resources,omitempty"`

	ServiceAccountName string `json:"serviceAccountName,omitempty"`
}

// AutoscalingSpec describes the scaling policy submitted to the external
// autoscaling controller.
type AutoscalingSpec struct {
	// TargetWorkload is the name of the Deployment to scale. It is an
	// explicit field: the target is never inferred from the naming prefix.
	TargetWorkload string `json:"targetWorkload" validate:"required"`

	// PollingInterval is the trigger check interval in seconds.
	PollingInterval *int32 `json:"pollingInterval,omitempty"`

	IdleReplicaCount *int32 `json:"idleReplicaCount,omitempty"`
	MinReplicaCount  *int32 `json:"minReplicaCount,omitempty"`
	MaxReplicaCount  int32  `json:"maxReplicaCount" validate:"required,gt=0"`

	// QueueRegion overrides the default region stamped into queue-depth
	// trigger metadata. When empty the composer default applies; individual
	// triggers may still override it per queue.
	QueueRegion string `json:"queueRegion,omitempty"`

	Triggers []TriggerSpec `json:"triggers" validate:"required,min=1"`
}

// TriggerSpec is one scaling-trigger descriptor. Type selects the variant;
// each variant reads only its own fields and the composer rejects
// descriptors that mix or miss them.
type TriggerSpec struct {
	Type string `json:"type"`

	// Queue-depth fields.
	QueueURL              string `json:"queueURL,omitempty"`
	QueueLength           int64  `json:"queueLength,omitempty"`
	Region                string `json:"region,omitempty"`
	ActivationQueueLength *int64 `json:"activationQueueLength,omitempty"`
	ScaleOnInFlight       *bool  `json:"scaleOnInFlight,omitempty"`
	ScaleOnDelayed        *bool  `json:"scaleOnDelayed,omitempty"`

	// CPU / memory fields. Value accepts a number or a string in the stack
	// file; either way it reaches the controller as a string.
	MetricType string              `json:"metricType,omitempty"`
	Value      *intstr.IntOrString `json:"value,omitempty"`
}

// DatabaseSpec describes the in-cluster Postgres instance.
type DatabaseSpec struct {
	// Image defaults to DefaultDatabaseImage when empty.
	Image string `json:"image,omitempty"`

	Database string `json:"database" validate:"required"`
	Username string `json:"username" validate:"required"`

	// Password is optional; when empty a random one is generated and stored
	// in the credentials Secret.
	Password string `json:"password,omitempty"`

	// StorageSize requests a persistent volume of the given quantity
	// (e.g. "10Gi"). When empty the database runs on an emptyDir.
	StorageSize      string  `json:"storageSize,omitempty"`
	StorageClassName *string `json:"storageClassName,omitempty"`
}

// ServerlessSpec describes the AWS Lambda function and its IAM wiring.
type ServerlessSpec struct {
	FunctionName string `json:"functionName" validate:"required"`
	Handler      string `json:"handler" validate:"required"`
	Runtime      string `json:"runtime" validate:"required"`

	// CodePath points at the deployment package (zip) on local disk.
	CodePath string `json:"codePath" validate:"required"`

	// RoleName defaults to "<prefix>-lambda-role" when empty.
	RoleName string `json:"roleName,omitempty"`

	// PolicyARNs are managed policies attached to the role in addition to
	// the basic execution policy.
	PolicyARNs []string `json:"policyARNs,omitempty"`

	Environment map[string]string `json:"environment,omitempty"`

	MemorySize *int32 `json:"memorySize,omitempty"`
	Timeout    *int32 `json:"timeout,omitempty"`

	// URL, when set, provisions a function URL with the given auth type.
	URL *FunctionURLSpec `json:"url,omitempty"`
}

// FunctionURLSpec enables a Lambda function URL.
type FunctionURLSpec struct {
	// AuthType is "NONE" or "AWS_IAM". Defaults to "NONE".
	AuthType string `json:"authType,omitempty"`
}

// DefaultDatabaseImage is used when DatabaseSpec.Image is empty.
const DefaultDatabaseImage = "postgres:16"
