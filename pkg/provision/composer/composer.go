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

// Package composer turns abstract scaling-trigger descriptors into the
// fully-populated trigger list an autoscaling controller accepts.
//
// Compose is a pure function: no I/O, no shared state, safe to call from
// multiple goroutines. Descriptors are validated up front and composition
// produces either the whole output or none of it.
package composer

import (
	"fmt"
	"strconv"

	"github.com/envlane/envlane/api/v1alpha1"
	kedav1alpha1 "github.com/envlane/envlane/pkg/apis/keda/v1alpha1"
)

// DefaultQueueRegion is stamped into queue-depth trigger metadata when
// neither the trigger nor the options name a region. It matches the local
// ElasticMQ emulator used in development stacks; production stacks set a
// real region in their autoscaling section.
const DefaultQueueRegion = "elasticmq"

// identityOwner ties queue metric access to the pod's identity rather than
// the autoscaling operator's.
const identityOwner = "pod"

// Metadata keys shared with the controller's scaler contracts.
const (
	metaQueueURL              = "queueURL"
	metaQueueLength           = "queueLength"
	metaAWSRegion             = "awsRegion"
	metaIdentityOwner         = "identityOwner"
	metaActivationQueueLength = "activationQueueLength"
	metaScaleOnInFlight       = "scaleOnInFlight"
	metaScaleOnDelayed        = "scaleOnDelayed"
	metaValue                 = "value"
)

// DefaultMetricType applies to cpu/memory triggers that do not set one.
const DefaultMetricType = "Utilization"

// Options adjust composition without touching the descriptors themselves.
type Options struct {
	// DefaultQueueRegion overrides the package default for queue-depth
	// triggers that carry no region of their own.
	DefaultQueueRegion string
}

// ValidationError reports a descriptor the composer refuses to compose:
// an unrecognized kind or a kind missing one of its required fields.
type ValidationError struct {
	// Index is the descriptor's position in the input sequence.
	Index int
	// Type is the descriptor's kind tag as given.
	Type string
	// Reason says what is wrong.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("trigger %d (type %q): %s", e.Index, e.Type, e.Reason)
}

// Compose maps each descriptor onto one controller trigger, preserving
// order. Queue-depth triggers acquire an authentication reference named
// "<prefix>-trigger-auth"; the caller owns creating that resource before the
// result is submitted. Every descriptor is validated before the first
// trigger is built, so a bad descriptor yields no partial output.
func Compose(triggers []v1alpha1.TriggerSpec, prefix string, opts Options) ([]kedav1alpha1.ScaleTriggers, error) {
	for i := range triggers {
		if err := validate(i, &triggers[i]); err != nil {
			return nil, err
		}
	}

	region := opts.DefaultQueueRegion
	if region == "" {
		region = DefaultQueueRegion
	}

	out := make([]kedav1alpha1.ScaleTriggers, 0, len(triggers))
	for i := range triggers {
		t := &triggers[i]
		switch t.Type {
		case v1alpha1.TriggerTypeQueue:
			out = append(out, composeQueue(t, prefix, region))
		case v1alpha1.TriggerTypeCPU, v1alpha1.TriggerTypeMemory:
			out = append(out, composeResource(t))
		}
	}
	return out, nil
}

// validate rejects unknown kinds and, per kind, descriptors missing the
// fields that kind requires. Incomplete descriptors fail closed; nothing is
// coerced to a placeholder.
func validate(index int, t *v1alpha1.TriggerSpec) error {
	switch t.Type {
	case v1alpha1.TriggerTypeQueue:
		if t.QueueURL == "" {
			return &ValidationError{Index: index, Type: t.Type, Reason: "queueURL is required"}
		}
		if t.QueueLength <= 0 {
			return &ValidationError{Index: index, Type: t.Type, Reason: "queueLength must be positive"}
		}
	case v1alpha1.TriggerTypeCPU, v1alpha1.TriggerTypeMemory:
		if t.Value == nil || t.Value.String() == "" {
			return &ValidationError{Index: index, Type: t.Type, Reason: "value is required"}
		}
	default:
		return &ValidationError{Index: index, Type: t.Type, Reason: "unrecognized trigger type"}
	}
	return nil
}

func composeQueue(t *v1alpha1.TriggerSpec, prefix, defaultRegion string) kedav1alpha1.ScaleTriggers {
	region := t.Region
	if region == "" {
		region = defaultRegion
	}

	metadata := map[string]string{
		metaQueueURL:      t.QueueURL,
		metaQueueLength:   strconv.FormatInt(t.QueueLength, 10),
		metaAWSRegion:     region,
		metaIdentityOwner: identityOwner,
	}
	if t.ActivationQueueLength != nil {
		metadata[metaActivationQueueLength] = strconv.FormatInt(*t.ActivationQueueLength, 10)
	}
	if t.ScaleOnInFlight != nil {
		metadata[metaScaleOnInFlight] = strconv.FormatBool(*t.ScaleOnInFlight)
	}
	if t.ScaleOnDelayed != nil {
		metadata[metaScaleOnDelayed] = strconv.FormatBool(*t.ScaleOnDelayed)
	}

	return kedav1alpha1.ScaleTriggers{
		Type:     t.Type,
		Metadata: metadata,
		AuthenticationRef: &kedav1alpha1.AuthenticationRef{
			Name: fmt.Sprintf("%s-trigger-auth", prefix),
		},
	}
}

func composeResource(t *v1alpha1.TriggerSpec) kedav1alpha1.ScaleTriggers {
	metricType := t.MetricType
	if metricType == "" {
		metricType = DefaultMetricType
	}

	// IntOrString renders integers without a decimal point and passes
	// string values through untouched.
	return kedav1alpha1.ScaleTriggers{
		Type:       t.Type,
		MetricType: metricType,
		Metadata: map[string]string{
			metaValue: t.Value.String(),
		},
	}
}
