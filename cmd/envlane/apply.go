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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/klog/v2"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/envlane/envlane/pkg/config"
	"github.com/envlane/envlane/pkg/engine"
	"github.com/envlane/envlane/pkg/metrics"
	"github.com/envlane/envlane/pkg/provision/database"
	"github.com/envlane/envlane/pkg/provision/serverless"
)

func newApplyCmd() *cobra.Command {
	var stackFile string
	var kubeconfig string
	var profile string
	var region string
	var metricsAddr string
	var waitDatabaseDSN string
	var waitTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Provision a stack against the cluster and AWS account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			kubeconfig, profile, region = cfg.Merge(kubeconfig, profile, region)

			stack, err := config.LoadStack(stackFile)
			if err != nil {
				return err
			}

			c, err := buildClusterClient(kubeconfig)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				srv := metrics.NewServer(metricsAddr)
				if err := srv.Start(); err != nil {
					return err
				}
				defer func() {
					if err := srv.Stop(); err != nil {
						klog.ErrorS(err, "stopping metrics server")
					}
				}()
			}

			opts := []engine.Option{}
			var code []byte
			if stack.Spec.Serverless != nil {
				awsCfg, err := serverless.LoadConfig(ctx, profile, region)
				if err != nil {
					return err
				}
				if account := serverless.AccountID(ctx, awsCfg); account != "" {
					klog.InfoS("using AWS account", "account", account, "region", awsCfg.Region)
				}
				opts = append(opts, engine.WithServerless(serverless.NewFromConfig(awsCfg)))

				code, err = os.ReadFile(stack.Spec.Serverless.CodePath)
				if err != nil {
					return fmt.Errorf("reading function code: %w", err)
				}
			}

			if err := engine.New(c, opts...).Apply(ctx, stack, code); err != nil {
				return err
			}

			if waitDatabaseDSN != "" {
				waitCtx, cancel := context.WithTimeout(ctx, waitTimeout)
				defer cancel()
				if err := database.WaitReady(waitCtx, waitDatabaseDSN); err != nil {
					return err
				}
				klog.InfoS("database ready")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&stackFile, "file", "f", "", "Path to the stack definition file")
	cmd.Flags().StringVar(&kubeconfig, "kubeconfig", "", "Path to the kubeconfig file")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "AWS profile to use")
	cmd.Flags().StringVarP(&region, "region", "r", "", "AWS region to use")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address for the duration of the run")
	cmd.Flags().StringVar(&waitDatabaseDSN, "wait-database", "", "After applying, wait until the database at this DSN accepts connections")
	cmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 2*time.Minute, "Timeout for --wait-database")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func buildClusterClient(kubeconfig string) (client.Client, error) {
	restCfg, err := buildRESTConfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig: %w", err)
	}

	scheme, err := engine.Scheme()
	if err != nil {
		return nil, err
	}

	c, err := client.New(restCfg, client.Options{Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("building cluster client: %w", err)
	}
	return c, nil
}

// buildRESTConfig resolves the cluster config: an explicit kubeconfig path,
// the usual loading rules, or in-cluster config as the last resort.
func buildRESTConfig(kubeconfig string) (*rest.Config, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		rules.ExplicitPath = kubeconfig
	}

	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err == nil {
		return cfg, nil
	}
	if inCluster, icErr := rest.InClusterConfig(); icErr == nil {
		return inCluster, nil
	}
	return nil, err
}
