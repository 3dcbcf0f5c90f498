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

// Package workload builds the stack's Deployment and the ClusterIP Service
// in front of it. Optional spec fields are included only when present.
package workload

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	"github.com/envlane/envlane/api/v1alpha1"
	"github.com/envlane/envlane/pkg/provision"
)

const defaultReplicas = int32(1)

// MakeDeployment builds the workload Deployment.
func MakeDeployment(stack *v1alpha1.Stack) *appsv1.Deployment {
	w := stack.Spec.Workload
	selector := provision.SelectorLabels(&stack.Spec, provision.ComponentWorkload, w.Name)

	replicas := w.Replicas
	if replicas == nil {
		replicas = ptr.To(defaultReplicas)
	}

	container := corev1.Container{
		Name:      w.Name,
		Image:     w.Image,
		Env:       w.Env,
		Resources: w.Resources,
	}
	if w.Port > 0 {
		container.Ports = []corev1.ContainerPort{
			{
				Name:          "http",
				ContainerPort: w.Port,
				Protocol:      corev1.ProtocolTCP,
			},
		}
	}

	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      w.Name,
			Namespace: stack.Spec.Namespace,
			Labels:    provision.ComponentLabels(&stack.Spec, provision.ComponentWorkload),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: replicas,
			Selector: &metav1.LabelSelector{MatchLabels: selector},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: selector,
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: w.ServiceAccountName,
					Containers:         []corev1.Container{container},
				},
			},
		},
	}
}

// MakeService builds the ClusterIP Service selecting the workload pods.
// Returns nil when the workload exposes no port.
func MakeService(stack *v1alpha1.Stack) *corev1.Service {
	w := stack.Spec.Workload
	if w.Port <= 0 {
		return nil
	}

	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      w.Name,
			Namespace: stack.Spec.Namespace,
			Labels:    provision.ComponentLabels(&stack.Spec, provision.ComponentWorkload),
		},
		Spec: corev1.ServiceSpec{
			Selector: provision.SelectorLabels(&stack.Spec, provision.ComponentWorkload, w.Name),
			Ports: []corev1.ServicePort{
				{
					Name:       "http",
					Port:       w.Port,
					TargetPort: intstr.FromInt32(w.Port),
					Protocol:   corev1.ProtocolTCP,
				},
			},
			Type: corev1.ServiceTypeClusterIP,
		},
	}
}
