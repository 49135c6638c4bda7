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

package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/carverauto/kioskradar/pkg/logger"
	"github.com/carverauto/kioskradar/pkg/models"
	"github.com/carverauto/kioskradar/pkg/treestore"
)

// Router resolves a pressed button into the next screen. Side-effecting
// actions (sound toggle, flash cycle) commit their write before the
// screen is rendered, so the rendered labels always reflect the stored
// state.
type Router struct {
	store    treestore.Store
	renderer *Renderer
	ownerID  int64
	logger   logger.Logger
}

// NewRouter creates a router for the given operator.
func NewRouter(store treestore.Store, renderer *Renderer, ownerID int64, log logger.Logger) *Router {
	return &Router{
		store:    store,
		renderer: renderer,
		ownerID:  ownerID,
		logger:   log,
	}
}

// Route handles one button press. Any sender other than the operator
// gets the access-denied screen without touching the store. A non-nil
// PendingAction tells the caller to arm that capture for the operator.
func (r *Router) Route(ctx context.Context, senderID int64, token string) (Screen, *PendingAction, error) {
	if senderID != r.ownerID {
		r.logger.Warn().Int64("sender_id", senderID).Msg("Dashboard button pressed by non-operator")
		return Screen{Text: msgAccessDenied}, nil, nil
	}

	action := ParseAction(token)

	switch action.Kind {
	case ActionList:
		return r.renderOnly(ctx, ScreenRequest{Kind: ScreenList})
	case ActionApps:
		return r.renderOnly(ctx, ScreenRequest{Kind: ScreenApps})
	case ActionAppDetail:
		return r.renderOnly(ctx, ScreenRequest{Kind: ScreenAppDetail, AppID: action.AppID})
	case ActionDevices:
		return r.renderOnly(ctx, ScreenRequest{Kind: ScreenDevices, AppID: action.AppID, Bucket: action.Bucket})
	case ActionDeviceDetail:
		return r.renderOnly(ctx, ScreenRequest{Kind: ScreenDeviceDetail, AppID: action.AppID, DeviceID: action.DeviceID})
	case ActionHelp:
		return r.renderOnly(ctx, ScreenRequest{Kind: ScreenHelp})
	case ActionEditDescription:
		screen, err := r.renderer.Render(ctx, ScreenRequest{Kind: ScreenEditDescriptionPrompt, AppID: action.AppID})
		if err != nil {
			return Screen{}, nil, err
		}

		return screen, &PendingAction{Kind: PendingAppField, AppID: action.AppID, Field: AppFieldDescription}, nil
	case ActionEditPIN:
		screen, err := r.renderer.Render(ctx, ScreenRequest{Kind: ScreenEditPINPrompt, AppID: action.AppID})
		if err != nil {
			return Screen{}, nil, err
		}

		return screen, &PendingAction{Kind: PendingAppField, AppID: action.AppID, Field: AppFieldPIN}, nil
	case ActionMessagePrompt:
		screen, err := r.renderer.Render(ctx, ScreenRequest{Kind: ScreenMessagePrompt, AppID: action.AppID, DeviceID: action.DeviceID})
		if err != nil {
			return Screen{}, nil, err
		}

		return screen, &PendingAction{Kind: PendingDeviceMessage, AppID: action.AppID, DeviceID: action.DeviceID}, nil
	case ActionToggleSound:
		if err := r.toggleSound(ctx, action.AppID, action.DeviceID); err != nil {
			return Screen{}, nil, err
		}

		return r.renderOnly(ctx, ScreenRequest{Kind: ScreenDeviceDetail, AppID: action.AppID, DeviceID: action.DeviceID})
	case ActionCycleFlash:
		if err := r.cycleFlash(ctx, action.AppID, action.DeviceID); err != nil {
			return Screen{}, nil, err
		}

		return r.renderOnly(ctx, ScreenRequest{Kind: ScreenDeviceDetail, AppID: action.AppID, DeviceID: action.DeviceID})
	default:
		return r.renderOnly(ctx, ScreenRequest{Kind: ScreenDashboard})
	}
}

func (r *Router) renderOnly(ctx context.Context, req ScreenRequest) (Screen, *PendingAction, error) {
	screen, err := r.renderer.Render(ctx, req)
	if err != nil {
		return Screen{}, nil, err
	}

	return screen, nil, nil
}

// toggleSound flips a device's sound setting between "on" and "off".
// Any unrecognized stored value counts as "off", so the toggle always
// lands on one of the two.
func (r *Router) toggleSound(ctx context.Context, appID, deviceID string) error {
	current, err := r.deviceSetting(ctx, appID, deviceID, models.FieldSound)
	if err != nil {
		return err
	}

	next := "on"
	if current == "on" {
		next = "off"
	}

	if err := r.store.Set(ctx, treestore.Path(appID, models.FieldDevices, deviceID, models.FieldSound), next); err != nil {
		return fmt.Errorf("failed to store sound setting: %w", err)
	}

	r.logger.Info().
		Str("app_id", appID).
		Str("device_id", deviceID).
		Str("value", next).
		Msg("Toggled device sound")

	return nil
}

// cycleFlash advances a device's flash setting through kedip, on, off.
// Unrecognized stored values restart the cycle at "kedip".
func (r *Router) cycleFlash(ctx context.Context, appID, deviceID string) error {
	current, err := r.deviceSetting(ctx, appID, deviceID, models.FieldFlash)
	if err != nil {
		return err
	}

	var next string

	switch current {
	case "kedip":
		next = "on"
	case "on":
		next = "off"
	default:
		next = "kedip"
	}

	if err := r.store.Set(ctx, treestore.Path(appID, models.FieldDevices, deviceID, models.FieldFlash), next); err != nil {
		return fmt.Errorf("failed to store flash setting: %w", err)
	}

	r.logger.Info().
		Str("app_id", appID).
		Str("device_id", deviceID).
		Str("value", next).
		Msg("Cycled device flash")

	return nil
}

// deviceSetting reads one device field lowercased, defaulting empty or
// missing values to "off".
func (r *Router) deviceSetting(ctx context.Context, appID, deviceID, field string) (string, error) {
	node, err := r.store.Get(ctx, appID)
	if err != nil {
		return "", fmt.Errorf("failed to load app %q: %w", appID, err)
	}

	app := models.NormalizeRecord(node)
	devices := models.NormalizeRecord(app[models.FieldDevices])
	device := models.NormalizeRecord(devices[deviceID])

	value := device[field]
	if !models.Truthy(value) {
		return "off", nil
	}

	return strings.ToLower(models.FormatScalar(value)), nil
}
