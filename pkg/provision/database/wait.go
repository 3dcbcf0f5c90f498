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

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"k8s.io/klog/v2"
)

// waitPollInterval is how often WaitReady retries a failed connection.
const waitPollInterval = 2 * time.Second

// DSN assembles the in-cluster connection string for the stack's database.
// The host is the database Service name, resolvable inside the namespace.
func DSN(host, username, password, dbname string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", username, password, host, Port, dbname)
}

// WaitReady blocks until the database accepts connections or ctx expires.
// Callers bound the wait through the context deadline.
func WaitReady(ctx context.Context, dsn string) error {
	for {
		err := ping(ctx, dsn)
		if err == nil {
			return nil
		}
		klog.V(2).InfoS("database not ready yet", "err", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for database: %w", ctx.Err())
		case <-time.After(waitPollInterval):
		}
	}
}

func ping(ctx context.Context, dsn string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close(ctx)
	}()
	return conn.Ping(ctx)
}
