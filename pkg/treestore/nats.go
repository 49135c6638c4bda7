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

package treestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/kioskradar/pkg/logger"
	"github.com/carverauto/kioskradar/pkg/models"
	"github.com/carverauto/kioskradar/pkg/natsutil"
)

// NATSStore keeps the tree in a JetStream KV bucket: each top-level
// segment is a KV key holding one JSON document, and deeper paths
// read-modify-write that document. Concurrent writers race with
// last-write-wins semantics, same as the Firebase backend.
type NATSStore struct {
	nc     *nats.Conn
	kv     jetstream.KeyValue
	logger logger.Logger
}

func NewNATSStore(ctx context.Context, config *NATSConfig, log logger.Logger) (*NATSStore, error) {
	opts := []nats.Option{nats.Name("kioskradar")}

	if config.Secured() {
		tlsConf, err := natsutil.TLSConfig(config.CertFile, config.KeyFile, config.CAFile, config.ServerName)
		if err != nil {
			return nil, fmt.Errorf("failed to build NATS TLS config: %w", err)
		}

		opts = append(opts, nats.Secure(tlsConf))
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()

		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  config.Bucket,
		History: 1,
	})
	if err != nil {
		nc.Close()

		return nil, fmt.Errorf("failed to create KV bucket: %w", err)
	}

	log.Info().
		Str("url", config.URL).
		Str("bucket", config.Bucket).
		Msg("Connected to NATS JetStream tree store")

	return &NATSStore{
		nc:     nc,
		kv:     kv,
		logger: log,
	}, nil
}

var _ Store = (*NATSStore)(nil)

func (n *NATSStore) Get(ctx context.Context, path string) (models.Node, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		root, err := n.Root(ctx)
		if err != nil {
			return nil, err
		}

		return root, nil
	}

	doc, found, err := n.loadDocument(ctx, segments[0])
	if err != nil || !found {
		return nil, err
	}

	node := doc

	for _, seg := range segments[1:] {
		rec, ok := node.(models.Record)
		if !ok {
			return nil, nil
		}

		node, ok = rec[seg]
		if !ok {
			return nil, nil
		}
	}

	return node, nil
}

func (n *NATSStore) Set(ctx context.Context, path string, value models.Node) error {
	segments := splitPath(path)
	if len(segments) == 0 {
		return errEmptyPath
	}

	key := segments[0]

	var doc models.Node

	if len(segments) == 1 {
		doc = value
	} else {
		existing, _, err := n.loadDocument(ctx, key)
		if err != nil {
			return err
		}

		root := models.NormalizeRecord(existing)
		current := root

		for _, seg := range segments[1 : len(segments)-1] {
			child, ok := current[seg].(models.Record)
			if !ok {
				child = models.Record{}
				current[seg] = child
			}

			current = child
		}

		current[segments[len(segments)-1]] = value
		doc = root
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", key, err)
	}

	if _, err := n.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}

	return nil
}

func (n *NATSStore) Delete(ctx context.Context, path string) error {
	segments := splitPath(path)
	if len(segments) == 0 {
		return errEmptyPath
	}

	key := segments[0]

	if len(segments) == 1 {
		err := n.kv.Delete(ctx, key)
		if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
			return fmt.Errorf("failed to delete key %s: %w", key, err)
		}

		return nil
	}

	doc, found, err := n.loadDocument(ctx, key)
	if err != nil || !found {
		return err
	}

	root, ok := doc.(models.Record)
	if !ok {
		return nil
	}

	deleteIn(root, segments[1:])

	if len(root) == 0 {
		err := n.kv.Delete(ctx, key)
		if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
			return fmt.Errorf("failed to delete key %s: %w", key, err)
		}

		return nil
	}

	data, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", key, err)
	}

	if _, err := n.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}

	return nil
}

func (n *NATSStore) Root(ctx context.Context) (models.Record, error) {
	keys, err := n.kv.Keys(ctx)
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return models.Record{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	root := make(models.Record, len(keys))

	for _, key := range keys {
		doc, found, err := n.loadDocument(ctx, key)
		if err != nil {
			return nil, err
		}

		// A key deleted between Keys and Get is simply skipped.
		if found {
			root[key] = doc
		}
	}

	return root, nil
}

func (n *NATSStore) Close() error {
	n.nc.Close()

	return nil
}

func (n *NATSStore) loadDocument(ctx context.Context, key string) (models.Node, bool, error) {
	entry, err := n.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	var node models.Node

	if err := json.Unmarshal(entry.Value(), &node); err != nil {
		return nil, false, fmt.Errorf("failed to decode document %s: %w", key, err)
	}

	return node, true, nil
}
