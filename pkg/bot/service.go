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

// Package bot connects the dashboard engine to Telegram: it long-polls
// for updates and maps callback presses, slash commands and free text
// onto the dispatcher, editing screens in place where possible.
package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/carverauto/kioskradar/pkg/dashboard"
	"github.com/carverauto/kioskradar/pkg/logger"
	"github.com/carverauto/kioskradar/pkg/treestore"
)

// updateTimeoutSeconds is the long-poll timeout passed to Telegram.
const updateTimeoutSeconds = 60

// Service is the Telegram front end of the dashboard.
type Service struct {
	api        *tgbotapi.BotAPI
	messenger  Messenger
	dispatcher *dashboard.Dispatcher
	store      treestore.Store
	ownerID    int64
	logger     logger.Logger
}

// New authenticates against Telegram and wires the update handlers to a
// dispatcher over the given store.
func New(token string, ownerID int64, store treestore.Store, log logger.Logger) (*Service, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}

	log.Info().Str("username", api.Self.UserName).Msg("Authorized telegram bot")

	return &Service{
		api:        api,
		messenger:  newTelegramMessenger(api),
		dispatcher: dashboard.NewDispatcher(store, ownerID, log),
		store:      store,
		ownerID:    ownerID,
		logger:     log,
	}, nil
}

// Run long-polls Telegram until the context is canceled. Updates are
// handled concurrently; the dispatcher serializes per-operator work.
func (s *Service) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeoutSeconds

	updates := s.api.GetUpdatesChan(u)

	s.logger.Info().Msg("Listening for telegram updates")

	for {
		select {
		case <-ctx.Done():
			s.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			go s.handleUpdate(ctx, update)
		}
	}
}

func (s *Service) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		s.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		s.handleCommand(ctx, update.Message)
	case update.Message != nil:
		s.handleText(ctx, update.Message)
	}
}

// handleCallback acknowledges the press, routes it, and edits the
// pressed message in place. A store failure leaves the screen as it was
// and reports the problem in a separate message.
func (s *Service) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	eventID := uuid.New().String()

	if err := s.messenger.AnswerCallback(callback.ID); err != nil {
		s.logger.Warn().Err(err).Str("event_id", eventID).Msg("Failed to answer callback")
	}

	// Presses on inline-mode results carry no message to edit.
	if callback.Message == nil || callback.From == nil {
		return
	}

	chatID := callback.Message.Chat.ID

	screen, err := s.dispatcher.HandleButton(ctx, callback.From.ID, callback.Data)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("event_id", eventID).
			Str("token", callback.Data).
			Msg("Failed to handle dashboard button")

		if sendErr := s.messenger.SendText(chatID, dashboard.StoreErrorReply); sendErr != nil {
			s.logger.Error().Err(sendErr).Str("event_id", eventID).Msg("Failed to send store error reply")
		}

		return
	}

	if err := s.messenger.EditScreen(chatID, callback.Message.MessageID, screen); err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("Failed to edit dashboard message")
	}
}

// handleText feeds free text to the pending capture, if any. Captured
// text gets its confirmation as a new message rather than an edit.
func (s *Service) handleText(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	eventID := uuid.New().String()

	screen, handled, err := s.dispatcher.HandleText(ctx, message.From.ID, message.Text)
	if err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("Failed to handle captured text")

		if sendErr := s.messenger.SendText(message.Chat.ID, dashboard.StoreErrorReply); sendErr != nil {
			s.logger.Error().Err(sendErr).Str("event_id", eventID).Msg("Failed to send store error reply")
		}

		return
	}

	if !handled {
		return
	}

	if err := s.messenger.SendScreen(message.Chat.ID, screen); err != nil {
		s.logger.Error().Err(err).Str("event_id", eventID).Msg("Failed to send confirmation screen")
	}
}
