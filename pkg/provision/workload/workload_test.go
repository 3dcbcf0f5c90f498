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

package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/utils/ptr"

	"github.com/envlane/envlane/api/v1alpha1"
)

func testStack() *v1alpha1.Stack {
	return &v1alpha1.Stack{
		Spec: v1alpha1.StackSpec{
			Prefix:    "orders",
			Namespace: "orders-prod",
			Labels:    map[string]string{"team": "payments"},
			Workload: &v1alpha1.WorkloadSpec{
				Name:     "orders-api",
				Image:    "registry.example.com/orders-api:1.4.2",
				Replicas: ptr.To(int32(3)),
				Port:     8080,
				Env: []corev1.EnvVar{
					{Name: "LOG_LEVEL", Value: "info"},
				},
				Resources: corev1.ResourceRequirements{
					Requests: corev1.ResourceList{
						corev1.ResourceCPU: resource.MustParse("250m"),
					},
				},
			},
		},
	}
}

func TestMakeDeployment(t *testing.T) {
	deploy := MakeDeployment(testStack())

	assert.Equal(t, "orders-api", deploy.Name)
	assert.Equal(t, "orders-prod", deploy.Namespace)
	assert.Equal(t, ptr.To(int32(3)), deploy.Spec.Replicas)
	assert.Equal(t, "payments", deploy.Labels["team"])
	assert.Equal(t, "orders", deploy.Labels["envlane.dev/stack"])

	require.Len(t, deploy.Spec.Template.Spec.Containers, 1)
	container := deploy.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "registry.example.com/orders-api:1.4.2", container.Image)
	assert.Contains(t, container.Env, corev1.EnvVar{Name: "LOG_LEVEL", Value: "info"})
	require.Len(t, container.Ports, 1)
	assert.Equal(t, int32(8080), container.Ports[0].ContainerPort)

	// selector must match the pod template labels
	assert.Equal(t, deploy.Spec.Selector.MatchLabels, deploy.Spec.Template.Labels)
}

func TestMakeDeploymentDefaultReplicas(t *testing.T) {
	stack := testStack()
	stack.Spec.Workload.Replicas = nil

	deploy := MakeDeployment(stack)
	assert.Equal(t, ptr.To(int32(1)), deploy.Spec.Replicas)
}

func TestMakeService(t *testing.T) {
	stack := testStack()
	svc := MakeService(stack)

	require.NotNil(t, svc)
	assert.Equal(t, "orders-api", svc.Name)
	assert.Equal(t, corev1.ServiceTypeClusterIP, svc.Spec.Type)
	require.Len(t, svc.Spec.Ports, 1)
	assert.Equal(t, int32(8080), svc.Spec.Ports[0].Port)

	deploy := MakeDeployment(stack)
	assert.Equal(t, deploy.Spec.Template.Labels, svc.Spec.Selector)
}

func TestMakeServiceWithoutPort(t *testing.T) {
	stack := testStack()
	stack.Spec.Workload.Port = 0

	assert.Nil(t, MakeService(stack))

	deploy := MakeDeployment(stack)
	assert.Empty(t, deploy.Spec.Template.Spec.Containers[0].Ports)
}
