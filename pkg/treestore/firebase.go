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
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"github.com/carverauto/kioskradar/pkg/logger"
	"github.com/carverauto/kioskradar/pkg/models"
)

// FirebaseStore backs the tree with a Firebase Realtime Database, the
// store the kiosk agents write into.
type FirebaseStore struct {
	client *db.Client
	logger logger.Logger
}

func NewFirebaseStore(ctx context.Context, config *FirebaseConfig, log logger.Logger) (*FirebaseStore, error) {
	app, err := firebase.NewApp(ctx,
		&firebase.Config{DatabaseURL: config.DatabaseURL},
		option.WithCredentialsFile(config.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create database client: %w", err)
	}

	log.Info().
		Str("database_url", config.DatabaseURL).
		Msg("Connected to Firebase Realtime Database")

	return &FirebaseStore{
		client: client,
		logger: log,
	}, nil
}

var _ Store = (*FirebaseStore)(nil)

func (f *FirebaseStore) Get(ctx context.Context, path string) (models.Node, error) {
	var node models.Node

	if err := f.client.NewRef(path).Get(ctx, &node); err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", path, err)
	}

	return node, nil
}

func (f *FirebaseStore) Set(ctx context.Context, path string, value models.Node) error {
	segments := splitPath(path)
	if len(segments) == 0 {
		return errEmptyPath
	}

	if err := f.client.NewRef(Path(segments...)).Set(ctx, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}

	return nil
}

func (f *FirebaseStore) Delete(ctx context.Context, path string) error {
	segments := splitPath(path)
	if len(segments) == 0 {
		return errEmptyPath
	}

	if err := f.client.NewRef(Path(segments...)).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}

	return nil
}

func (f *FirebaseStore) Root(ctx context.Context) (models.Record, error) {
	var node models.Node

	if err := f.client.NewRef("/").Get(ctx, &node); err != nil {
		return nil, fmt.Errorf("failed to get root: %w", err)
	}

	return models.NormalizeRecord(node), nil
}

// Close is a no-op; the database client holds no resources that need
// explicit release.
func (*FirebaseStore) Close() error {
	return nil
}
