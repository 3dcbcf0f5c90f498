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

// Package database provisions the stack's in-cluster Postgres: a
// credentials Secret, a single-replica StatefulSet and its Service.
package database

import (
	"fmt"

	"github.com/rancher/wrangler/v3/pkg/randomtoken"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	"github.com/envlane/envlane/api/v1alpha1"
	"github.com/envlane/envlane/pkg/provision"
)

const (
	// Port is the Postgres port exposed by the Service.
	Port = int32(5432)

	dataVolumeName = "pgdata"
	dataMountPath  = "/var/lib/postgresql/data"

	// SecretKeyPassword is the key the generated password lives under.
	SecretKeyPassword = "password"
	// SecretKeyUsername mirrors the configured username for consumers that
	// read the whole Secret.
	SecretKeyUsername = "username"
	// SecretKeyDatabase mirrors the configured database name.
	SecretKeyDatabase = "database"
)

// MakeSecret builds the credentials Secret. When the stack supplies no
// password a random one is generated, so two calls are not byte-identical;
// the engine only creates this Secret, it never overwrites an existing one.
func MakeSecret(stack *v1alpha1.Stack) (*corev1.Secret, error) {
	db := stack.Spec.Database

	password := db.Password
	if password == "" {
		generated, err := randomtoken.Generate()
		if err != nil {
			return nil, fmt.Errorf("generating database password: %w", err)
		}
		password = generated
	}

	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      stack.Spec.DatabaseSecretName(),
			Namespace: stack.Spec.Namespace,
			Labels:    provision.ComponentLabels(&stack.Spec, provision.ComponentDatabase),
		},
		Type: corev1.SecretTypeOpaque,
		StringData: map[string]string{
			SecretKeyUsername: db.Username,
			SecretKeyPassword: password,
			SecretKeyDatabase: db.Database,
		},
	}, nil
}

// MakeStatefulSet builds the Postgres StatefulSet. Persistent storage is
// attached only when the stack asks for it; otherwise the data directory is
// an emptyDir and survives restarts but not rescheduling.
func MakeStatefulSet(stack *v1alpha1.Stack) *appsv1.StatefulSet {
	db := stack.Spec.Database
	name := stack.Spec.DatabaseName()
	selector := provision.SelectorLabels(&stack.Spec, provision.ComponentDatabase, name)

	image := db.Image
	if image == "" {
		image = v1alpha1.DefaultDatabaseImage
	}

	container := corev1.Container{
		Name:  "postgres",
		Image: image,
		Ports: []corev1.ContainerPort{
			{
				Name:          "postgres",
				ContainerPort: Port,
				Protocol:      corev1.ProtocolTCP,
			},
		},
		Env: []corev1.EnvVar{
			{Name: "POSTGRES_DB", Value: db.Database},
			{Name: "POSTGRES_USER", Value: db.Username},
			{
				Name: "POSTGRES_PASSWORD",
				ValueFrom: &corev1.EnvVarSource{
					SecretKeyRef: &corev1.SecretKeySelector{
						LocalObjectReference: corev1.LocalObjectReference{
							Name: stack.Spec.DatabaseSecretName(),
						},
						Key: SecretKeyPassword,
					},
				},
			},
			// Postgres refuses a non-empty lost+found dir on some volume
			// provisioners; point PGDATA below the mount.
			{Name: "PGDATA", Value: dataMountPath + "/pg"},
		},
		VolumeMounts: []corev1.VolumeMount{
			{Name: dataVolumeName, MountPath: dataMountPath},
		},
	}

	sts := &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: stack.Spec.Namespace,
			Labels:    provision.ComponentLabels(&stack.Spec, provision.ComponentDatabase),
		},
		Spec: appsv1.StatefulSetSpec{
			ServiceName: name,
			Replicas:    ptr.To(int32(1)),
			Selector:    &metav1.LabelSelector{MatchLabels: selector},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: selector,
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{container},
				},
			},
		},
	}

	if db.StorageSize != "" {
		sts.Spec.VolumeClaimTemplates = []corev1.PersistentVolumeClaim{
			{
				ObjectMeta: metav1.ObjectMeta{Name: dataVolumeName},
				Spec: corev1.PersistentVolumeClaimSpec{
					AccessModes:      []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
					StorageClassName: db.StorageClassName,
					Resources: corev1.VolumeResourceRequirements{
						Requests: corev1.ResourceList{
							corev1.ResourceStorage: resource.MustParse(db.StorageSize),
						},
					},
				},
			},
		}
	} else {
		sts.Spec.Template.Spec.Volumes = []corev1.Volume{
			{
				Name: dataVolumeName,
				VolumeSource: corev1.VolumeSource{
					EmptyDir: &corev1.EmptyDirVolumeSource{},
				},
			},
		}
	}

	return sts
}

// MakeService builds the ClusterIP Service in front of the database pod.
func MakeService(stack *v1alpha1.Stack) *corev1.Service {
	name := stack.Spec.DatabaseName()

	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: stack.Spec.Namespace,
			Labels:    provision.ComponentLabels(&stack.Spec, provision.ComponentDatabase),
		},
		Spec: corev1.ServiceSpec{
			Selector: provision.SelectorLabels(&stack.Spec, provision.ComponentDatabase, name),
			Ports: []corev1.ServicePort{
				{
					Name:       "postgres",
					Port:       Port,
					TargetPort: intstr.FromInt32(Port),
					Protocol:   corev1.ProtocolTCP,
				},
			},
			Type: corev1.ServiceTypeClusterIP,
		},
	}
}
