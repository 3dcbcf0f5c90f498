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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
	"sigs.k8s.io/yaml"

	"github.com/envlane/envlane/pkg/config"
	"github.com/envlane/envlane/pkg/engine"
)

func newRenderCmd() *cobra.Command {
	var stackFile string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the stack's Kubernetes objects without applying them",
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, err := config.LoadStack(stackFile)
			if err != nil {
				return err
			}

			objects, err := engine.Render(stack)
			if err != nil {
				return err
			}

			scheme, err := engine.Scheme()
			if err != nil {
				return err
			}

			for _, obj := range objects {
				gvk, err := apiutil.GVKForObject(obj, scheme)
				if err != nil {
					return err
				}
				obj.GetObjectKind().SetGroupVersionKind(gvk)

				out, err := yaml.Marshal(obj)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "---\n%s", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&stackFile, "file", "f", "", "Path to the stack definition file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
