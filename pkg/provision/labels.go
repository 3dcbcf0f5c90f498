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

// Package provision holds the pieces shared by the per-resource builder
// packages: the stack label scheme and component names.
package provision

import (
	"github.com/envlane/envlane/api/v1alpha1"
)

// Label keys stamped on every object a stack produces.
const (
	LabelKeyStack     = "envlane.dev/stack"
	LabelKeyComponent = "envlane.dev/component"
)

// Component label values.
const (
	ComponentWorkload   = "workload"
	ComponentDatabase   = "database"
	ComponentAutoscaler = "autoscaler"
)

// StackLabels merges the stack's own labels with the identifying labels and
// an optional component tag. The stack labels never override the
// identifying keys.
func StackLabels(s *v1alpha1.StackSpec, extra map[string]string) map[string]string {
	labels := make(map[string]string, len(s.Labels)+len(extra)+1)
	for k, v := range s.Labels {
		labels[k] = v
	}
	for k, v := range extra {
		labels[k] = v
	}
	labels[LabelKeyStack] = s.Prefix
	return labels
}

// ComponentLabels returns StackLabels plus the component tag. Builders use
// the same map for selectors, so the component value must stay stable per
// resource.
func ComponentLabels(s *v1alpha1.StackSpec, component string) map[string]string {
	return StackLabels(s, map[string]string{LabelKeyComponent: component})
}

// SelectorLabels is the minimal label set selectors match on. Kept apart
// from StackLabels because user-supplied stack labels may change between
// applies while selectors are immutable on Deployments.
func SelectorLabels(s *v1alpha1.StackSpec, component, name string) map[string]string {
	return map[string]string{
		LabelKeyStack:     s.Prefix,
		LabelKeyComponent: component,
		"app":             name,
	}
}
