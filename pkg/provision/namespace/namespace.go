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

// Package namespace maps the stack's namespace field onto a Namespace object.
package namespace

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/envlane/envlane/api/v1alpha1"
	"github.com/envlane/envlane/pkg/provision"
)

// MakeNamespace builds the Namespace every other stack resource lives in.
func MakeNamespace(stack *v1alpha1.Stack) *corev1.Namespace {
	return &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:   stack.Spec.Namespace,
			Labels: provision.StackLabels(&stack.Spec, nil),
		},
	}
}
