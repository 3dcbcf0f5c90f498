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

// Package engine applies a stack's objects to the cluster in dependency
// order: namespace first, then database, workload, trigger authentication,
// and the scaling policy last. Each step is create-or-update; the engine
// keeps no state between applies.
package engine

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/klog/v2"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/envlane/envlane/api/v1alpha1"
	kedav1alpha1 "github.com/envlane/envlane/pkg/apis/keda/v1alpha1"
	"github.com/envlane/envlane/pkg/metrics"
	"github.com/envlane/envlane/pkg/provision/autoscaler"
	"github.com/envlane/envlane/pkg/provision/database"
	"github.com/envlane/envlane/pkg/provision/namespace"
	"github.com/envlane/envlane/pkg/provision/serverless"
	"github.com/envlane/envlane/pkg/provision/workload"
)

// Engine provisions stacks against one cluster and, optionally, one AWS
// account.
type Engine struct {
	client     client.Client
	serverless *serverless.Client
}

// Option configures an Engine.
type Option func(*Engine)

// WithServerless attaches the AWS client used for the stack's serverless
// section. Without it, stacks carrying a serverless section are rejected.
func WithServerless(c *serverless.Client) Option {
	return func(e *Engine) {
		e.serverless = c
	}
}

// New builds an Engine on the given cluster client.
func New(c client.Client, opts ...Option) *Engine {
	e := &Engine{client: c}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render builds every Kubernetes object the stack describes, in apply
// order, without touching the cluster. The database Secret carries a fresh
// password on every call when the stack does not pin one.
func Render(stack *v1alpha1.Stack) ([]client.Object, error) {
	var objects []client.Object

	objects = append(objects, namespace.MakeNamespace(stack))

	if stack.Spec.Database != nil {
		secret, err := database.MakeSecret(stack)
		if err != nil {
			return nil, err
		}
		objects = append(objects, secret, database.MakeStatefulSet(stack), database.MakeService(stack))
	}

	if stack.Spec.Workload != nil {
		objects = append(objects, workload.MakeDeployment(stack))
		if svc := workload.MakeService(stack); svc != nil {
			objects = append(objects, svc)
		}
	}

	if stack.Spec.Autoscaling != nil {
		if auth := autoscaler.MakeTriggerAuthentication(stack); auth != nil {
			objects = append(objects, auth)
		}
		so, err := autoscaler.MakeScaledObject(stack)
		if err != nil {
			return nil, err
		}
		objects = append(objects, so)
	}

	return objects, nil
}

// Apply provisions the stack. serverlessCode is the function zip payload,
// required only when the stack has a serverless section. Objects are
// applied strictly in the order Render produces them, so the
// TriggerAuthentication always exists before the ScaledObject referencing it.
func (e *Engine) Apply(ctx context.Context, stack *v1alpha1.Stack, serverlessCode []byte) error {
	if stack.Spec.Serverless != nil && e.serverless == nil {
		return fmt.Errorf("stack %q has a serverless section but no AWS client is configured", stack.Spec.Prefix)
	}

	runID := uuid.NewString()
	klog.InfoS("applying stack", "stack", stack.Spec.Prefix, "namespace", stack.Spec.Namespace, "run", runID)

	objects, err := Render(stack)
	if err != nil {
		return err
	}

	for _, obj := range objects {
		if err := e.applyObject(ctx, obj); err != nil {
			return err
		}
	}

	if stack.Spec.Serverless != nil {
		functionARN, err := e.serverless.Provision(ctx, stack, serverlessCode)
		if err != nil {
			metrics.ApplyErrors.WithLabelValues("Function").Inc()
			return err
		}
		metrics.ResourcesApplied.WithLabelValues("Function").Inc()
		klog.InfoS("function provisioned", "stack", stack.Spec.Prefix, "arn", functionARN, "run", runID)
	}

	klog.InfoS("stack applied", "stack", stack.Spec.Prefix, "resources", len(objects), "run", runID)
	return nil
}

func (e *Engine) applyObject(ctx context.Context, obj client.Object) error {
	kind, err := e.apply(ctx, obj)
	if err != nil {
		metrics.ApplyErrors.WithLabelValues(kind).Inc()
		return fmt.Errorf("applying %s %s/%s: %w", kind, obj.GetNamespace(), obj.GetName(), err)
	}
	metrics.ResourcesApplied.WithLabelValues(kind).Inc()
	return nil
}

// apply dispatches per concrete type. Secrets are create-only so a
// generated password survives re-applies; everything else is replaced in
// place when its spec drifted.
func (e *Engine) apply(ctx context.Context, obj client.Object) (string, error) {
	switch desired := obj.(type) {
	case *corev1.Namespace:
		return "Namespace", e.applyNamespace(ctx, desired)
	case *corev1.Secret:
		return "Secret", e.createIfAbsent(ctx, desired, &corev1.Secret{})
	case *corev1.Service:
		return "Service", e.applyService(ctx, desired)
	case *appsv1.Deployment:
		return "Deployment", e.applyDeployment(ctx, desired)
	case *appsv1.StatefulSet:
		return "StatefulSet", e.applyStatefulSet(ctx, desired)
	case *kedav1alpha1.TriggerAuthentication:
		return "TriggerAuthentication", e.applyTriggerAuthentication(ctx, desired)
	case *kedav1alpha1.ScaledObject:
		return "ScaledObject", e.applyScaledObject(ctx, desired)
	default:
		return fmt.Sprintf("%T", obj), fmt.Errorf("unsupported object type %T", obj)
	}
}

func (e *Engine) applyNamespace(ctx context.Context, desired *corev1.Namespace) error {
	found := &corev1.Namespace{}
	err := e.client.Get(ctx, types.NamespacedName{Name: desired.Name}, found)
	if err != nil && apierrors.IsNotFound(err) {
		klog.InfoS("creating Namespace", "Name", desired.Name)
		return e.client.Create(ctx, desired)
	} else if err != nil {
		return err
	}
	return nil
}

// createIfAbsent creates desired unless an object with its name already
// exists. found must be an empty object of the same type.
func (e *Engine) createIfAbsent(ctx context.Context, desired, found client.Object) error {
	err := e.client.Get(ctx, types.NamespacedName{Name: desired.GetName(), Namespace: desired.GetNamespace()}, found)
	if err != nil && apierrors.IsNotFound(err) {
		klog.InfoS("creating Secret", "Namespace", desired.GetNamespace(), "Name", desired.GetName())
		return e.client.Create(ctx, desired)
	}
	return err
}

func (e *Engine) applyService(ctx context.Context, desired *corev1.Service) error {
	found := &corev1.Service{}
	err := e.client.Get(ctx, types.NamespacedName{Name: desired.Name, Namespace: desired.Namespace}, found)
	if err != nil && apierrors.IsNotFound(err) {
		klog.InfoS("creating Service", "Namespace", desired.Namespace, "Name", desired.Name)
		return e.client.Create(ctx, desired)
	} else if err != nil {
		return err
	}

	if !reflect.DeepEqual(desired.Spec.Ports, found.Spec.Ports) ||
		!reflect.DeepEqual(desired.Spec.Selector, found.Spec.Selector) ||
		desired.Spec.Type != found.Spec.Type {
		found.Spec.Ports = desired.Spec.Ports
		found.Spec.Selector = desired.Spec.Selector
		found.Spec.Type = desired.Spec.Type
		klog.InfoS("updating Service", "Namespace", found.Namespace, "Name", found.Name)
		return e.client.Update(ctx, found)
	}
	return nil
}

func (e *Engine) applyDeployment(ctx context.Context, desired *appsv1.Deployment) error {
	found := &appsv1.Deployment{}
	err := e.client.Get(ctx, types.NamespacedName{Name: desired.Name, Namespace: desired.Namespace}, found)
	if err != nil && apierrors.IsNotFound(err) {
		klog.InfoS("creating Deployment", "Namespace", desired.Namespace, "Name", desired.Name)
		return e.client.Create(ctx, desired)
	} else if err != nil {
		return err
	}

	if deploymentNeedsUpdate(desired, found) {
		found.Spec.Replicas = desired.Spec.Replicas
		klog.InfoS("updating Deployment", "Namespace", found.Namespace, "Name", found.Name)
		return e.client.Update(ctx, found)
	}
	return nil
}

// deploymentNeedsUpdate reports drift on replicas and container images, the
// fields this tool owns. Comparing the whole spec would flag server-side
// defaulting as drift and update on every apply. Drifted images are written
// back into found so the caller can submit it directly.
func deploymentNeedsUpdate(desired, found *appsv1.Deployment) bool {
	imageChanged := false
	for i := range found.Spec.Template.Spec.Containers {
		if i < len(desired.Spec.Template.Spec.Containers) &&
			desired.Spec.Template.Spec.Containers[i].Image != found.Spec.Template.Spec.Containers[i].Image {
			found.Spec.Template.Spec.Containers[i].Image = desired.Spec.Template.Spec.Containers[i].Image
			imageChanged = true
		}
	}
	return imageChanged || !reflect.DeepEqual(desired.Spec.Replicas, found.Spec.Replicas)
}

func (e *Engine) applyStatefulSet(ctx context.Context, desired *appsv1.StatefulSet) error {
	found := &appsv1.StatefulSet{}
	err := e.client.Get(ctx, types.NamespacedName{Name: desired.Name, Namespace: desired.Namespace}, found)
	if err != nil && apierrors.IsNotFound(err) {
		klog.InfoS("creating StatefulSet", "Namespace", desired.Namespace, "Name", desired.Name)
		return e.client.Create(ctx, desired)
	} else if err != nil {
		return err
	}

	// VolumeClaimTemplates are immutable; like Deployments, only replicas
	// and images are reconciled.
	if statefulSetNeedsUpdate(desired, found) {
		found.Spec.Replicas = desired.Spec.Replicas
		klog.InfoS("updating StatefulSet", "Namespace", found.Namespace, "Name", found.Name)
		return e.client.Update(ctx, found)
	}
	return nil
}

func statefulSetNeedsUpdate(desired, found *appsv1.StatefulSet) bool {
	imageChanged := false
	for i := range found.Spec.Template.Spec.Containers {
		if i < len(desired.Spec.Template.Spec.Containers) &&
			desired.Spec.Template.Spec.Containers[i].Image != found.Spec.Template.Spec.Containers[i].Image {
			found.Spec.Template.Spec.Containers[i].Image = desired.Spec.Template.Spec.Containers[i].Image
			imageChanged = true
		}
	}
	return imageChanged || !reflect.DeepEqual(desired.Spec.Replicas, found.Spec.Replicas)
}

func (e *Engine) applyTriggerAuthentication(ctx context.Context, desired *kedav1alpha1.TriggerAuthentication) error {
	found := &kedav1alpha1.TriggerAuthentication{}
	err := e.client.Get(ctx, types.NamespacedName{Name: desired.Name, Namespace: desired.Namespace}, found)
	if err != nil && apierrors.IsNotFound(err) {
		klog.InfoS("creating TriggerAuthentication", "Namespace", desired.Namespace, "Name", desired.Name)
		return e.client.Create(ctx, desired)
	} else if err != nil {
		return err
	}

	if !reflect.DeepEqual(desired.Spec, found.Spec) {
		found.Spec = desired.Spec
		klog.InfoS("updating TriggerAuthentication", "Namespace", found.Namespace, "Name", found.Name)
		return e.client.Update(ctx, found)
	}
	return nil
}

func (e *Engine) applyScaledObject(ctx context.Context, desired *kedav1alpha1.ScaledObject) error {
	found := &kedav1alpha1.ScaledObject{}
	err := e.client.Get(ctx, types.NamespacedName{Name: desired.Name, Namespace: desired.Namespace}, found)
	if err != nil && apierrors.IsNotFound(err) {
		klog.InfoS("creating ScaledObject", "Namespace", desired.Namespace, "Name", desired.Name)
		return e.client.Create(ctx, desired)
	} else if err != nil {
		return err
	}

	if !reflect.DeepEqual(desired.Spec, found.Spec) {
		found.Spec = desired.Spec
		klog.InfoS("updating ScaledObject", "Namespace", found.Namespace, "Name", found.Name)
		return e.client.Update(ctx, found)
	}
	return nil
}
