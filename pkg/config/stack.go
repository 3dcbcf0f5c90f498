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
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"

	"github.com/envlane/envlane/api/v1alpha1"
)

var validate = validator.New()

// LoadStack reads, decodes and validates a stack definition file.
func LoadStack(path string) (*v1alpha1.Stack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stack file: %w", err)
	}
	return ParseStack(data)
}

// ParseStack decodes a stack definition from YAML (or JSON) bytes and
// validates it. Unknown fields are rejected so typos surface at load time
// instead of silently provisioning defaults.
func ParseStack(data []byte) (*v1alpha1.Stack, error) {
	var stack v1alpha1.Stack
	if err := yaml.UnmarshalStrict(data, &stack); err != nil {
		return nil, fmt.Errorf("decoding stack file: %w", err)
	}
	if err := ValidateStack(&stack); err != nil {
		return nil, err
	}
	return &stack, nil
}

// ValidateStack checks the document envelope, the per-field constraints and
// the cross-field rules a well-formed stack must satisfy. Trigger descriptor
// contents are validated later by the composer, which owns that contract.
func ValidateStack(stack *v1alpha1.Stack) error {
	if stack.APIVersion != v1alpha1.StackAPIVersion {
		return fmt.Errorf("unsupported apiVersion %q, want %q", stack.APIVersion, v1alpha1.StackAPIVersion)
	}
	if stack.Kind != v1alpha1.StackKind {
		return fmt.Errorf("unsupported kind %q, want %q", stack.Kind, v1alpha1.StackKind)
	}

	if err := validate.Struct(&stack.Spec); err != nil {
		return fmt.Errorf("invalid stack spec: %w", err)
	}

	if a := stack.Spec.Autoscaling; a != nil {
		if a.MinReplicaCount != nil && *a.MinReplicaCount > a.MaxReplicaCount {
			return fmt.Errorf("autoscaling: minReplicaCount %d exceeds maxReplicaCount %d",
				*a.MinReplicaCount, a.MaxReplicaCount)
		}
		if stack.Spec.Workload != nil && a.TargetWorkload != stack.Spec.Workload.Name {
			return fmt.Errorf("autoscaling: targetWorkload %q does not match workload %q",
				a.TargetWorkload, stack.Spec.Workload.Name)
		}
	}

	return nil
}
