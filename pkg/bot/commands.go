package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/carverauto/kioskradar/pkg/dashboard"
)

const (
	msgStartHelp    = "Bot Firebase siap.\nPerintah tersedia:\n/start\n/get <key>\n/list"
	msgNoPermission = "Anda tidak memiliki izin menggunakan perintah ini."
	msgSetUsage     = "Format: /set <key> <value>"
	msgGetUsage     = "Format: /get <key>"
	msgDeleteUsage  = "Format: /delete <key>"
	msgListEmpty    = "Tidak ada data di Firebase"
)

// handleCommand dispatches a slash command. Unknown commands are
// ignored, matching how plain chatter between commands is ignored.
func (s *Service) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	senderID := message.From.ID
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		s.commandStart(ctx, chatID, senderID)
	case "dashboard":
		s.commandDashboard(ctx, chatID, senderID)
	case "set":
		s.commandSet(ctx, chatID, senderID, message.CommandArguments())
	case "get":
		s.commandGet(ctx, chatID, senderID, message.CommandArguments())
	case "delete":
		s.commandDelete(ctx, chatID, senderID, message.CommandArguments())
	case "list":
		s.commandList(ctx, chatID, senderID)
	}
}

func (s *Service) commandStart(ctx context.Context, chatID, senderID int64) {
	if senderID != s.ownerID {
		s.reply(chatID, msgStartHelp)
		return
	}

	s.sendDashboard(ctx, chatID)
}

func (s *Service) commandDashboard(ctx context.Context, chatID, senderID int64) {
	if senderID != s.ownerID {
		screen, err := s.dispatcher.Renderer().Render(ctx, dashboard.ScreenRequest{Kind: dashboard.ScreenAccessDenied})
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to render access denied screen")
			return
		}

		if err := s.messenger.SendScreen(chatID, screen); err != nil {
			s.logger.Error().Err(err).Msg("Failed to send access denied screen")
		}

		return
	}

	s.sendDashboard(ctx, chatID)
}

func (s *Service) commandSet(ctx context.Context, chatID, senderID int64, args string) {
	if senderID != s.ownerID {
		s.reply(chatID, msgNoPermission)
		return
	}

	fields := strings.Fields(args)
	if len(fields) < 2 {
		s.reply(chatID, msgSetUsage)
		return
	}

	key := fields[0]
	value := strings.Join(fields[1:], " ")

	if err := s.store.Set(ctx, key, value); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to store value")
		s.reply(chatID, dashboard.StoreErrorReply)

		return
	}

	s.reply(chatID, fmt.Sprintf("Data disimpan: %s = %s", key, value))
}

func (s *Service) commandGet(ctx context.Context, chatID, senderID int64, args string) {
	if senderID != s.ownerID {
		s.reply(chatID, msgNoPermission)
		return
	}

	fields := strings.Fields(args)
	if len(fields) != 1 {
		s.reply(chatID, msgGetUsage)
		return
	}

	key := fields[0]

	node, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to read value")
		s.reply(chatID, dashboard.StoreErrorReply)

		return
	}

	if node == nil {
		s.reply(chatID, fmt.Sprintf("Data dengan key '%s' tidak ditemukan", key))
		return
	}

	s.reply(chatID, fmt.Sprintf("%s = %s", key, dashboard.FlatValue(node)))
}

func (s *Service) commandDelete(ctx context.Context, chatID, senderID int64, args string) {
	if senderID != s.ownerID {
		s.reply(chatID, msgNoPermission)
		return
	}

	fields := strings.Fields(args)
	if len(fields) != 1 {
		s.reply(chatID, msgDeleteUsage)
		return
	}

	key := fields[0]

	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to delete value")
		s.reply(chatID, dashboard.StoreErrorReply)

		return
	}

	s.reply(chatID, fmt.Sprintf("Data dengan key '%s' dihapus", key))
}

func (s *Service) commandList(ctx context.Context, chatID, senderID int64) {
	if senderID != s.ownerID {
		s.reply(chatID, msgNoPermission)
		return
	}

	root, err := s.store.Root(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read tree root")
		s.reply(chatID, dashboard.StoreErrorReply)

		return
	}

	if len(root) == 0 {
		s.reply(chatID, msgListEmpty)
		return
	}

	s.reply(chatID, strings.Join(dashboard.FlatListLines(root), "\n"))
}

func (s *Service) sendDashboard(ctx context.Context, chatID int64) {
	screen, err := s.dispatcher.Renderer().Render(ctx, dashboard.ScreenRequest{Kind: dashboard.ScreenDashboard})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to render dashboard")
		s.reply(chatID, dashboard.StoreErrorReply)

		return
	}

	if err := s.messenger.SendScreen(chatID, screen); err != nil {
		s.logger.Error().Err(err).Msg("Failed to send dashboard")
	}
}

func (s *Service) reply(chatID int64, text string) {
	if err := s.messenger.SendText(chatID, text); err != nil {
		s.logger.Error().Err(err).Msg("Failed to send reply")
	}
}
