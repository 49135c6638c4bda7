/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package treestore provides access to the hierarchical key-value tree
// holding all application and device state. Paths are slash-joined
// segments ("app123/perangkat/dev7/suara"). Backends: Firebase Realtime
// Database, NATS JetStream KV, and an in-process memory store.
package treestore

import (
	"context"
	"strings"

	"github.com/carverauto/kioskradar/pkg/models"
)

// Store is the tree store consumed by the dashboard engine. Get returns
// nil for absent paths rather than an error. Set accepts scalar values;
// writes are fire-and-forget with last-write-wins semantics.
type Store interface {
	Get(ctx context.Context, path string) (models.Node, error)
	Set(ctx context.Context, path string, value models.Node) error
	Delete(ctx context.Context, path string) error
	Root(ctx context.Context) (models.Record, error)
	Close() error
}

// Path joins segments into a store path.
func Path(segments ...string) string {
	return strings.Join(segments, "/")
}

// splitPath returns the non-empty segments of a path. An empty path (or
// one made only of slashes) names the root.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")

	segments := make([]string, 0, len(parts))

	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}

	return segments
}
