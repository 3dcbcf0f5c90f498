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

import "fmt"

// Derived resource names. Everything a stack provisions hangs off the
// prefix so that two stacks never collide inside one namespace.

// TriggerAuthenticationName is the name queue-depth triggers reference.
// The composer stamps this exact name into every queue trigger it emits,
// and the engine guarantees the TriggerAuthentication exists first.
func (s *StackSpec) TriggerAuthenticationName() string {
	return fmt.Sprintf("%s-trigger-auth", s.Prefix)
}

// ScaledObjectName names the scaling policy object.
func (s *StackSpec) ScaledObjectName() string {
	return fmt.Sprintf("%s-scaler", s.Prefix)
}

// DatabaseName names the database StatefulSet and its Service.
func (s *StackSpec) DatabaseName() string {
	return fmt.Sprintf("%s-db", s.Prefix)
}

// DatabaseSecretName names the generated credentials Secret.
func (s *StackSpec) DatabaseSecretName() string {
	return fmt.Sprintf("%s-db-credentials", s.Prefix)
}

// LambdaRoleName names the function's IAM role unless the stack overrides it.
func (s *StackSpec) LambdaRoleName() string {
	if s.Serverless != nil && s.Serverless.RoleName != "" {
		return s.Serverless.RoleName
	}
	return fmt.Sprintf("%s-lambda-role", s.Prefix)
}
