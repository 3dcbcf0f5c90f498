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

// Package metrics exposes counters for the apply engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResourcesApplied counts create-or-update operations that succeeded,
	// by object kind.
	ResourcesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envlane_resources_applied_total",
			Help: "Number of resources successfully applied, by kind.",
		},
		[]string{"kind"},
	)

	// ApplyErrors counts failed apply operations, by object kind.
	ApplyErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envlane_apply_errors_total",
			Help: "Number of resource apply failures, by kind.",
		},
		[]string{"kind"},
	)
)
