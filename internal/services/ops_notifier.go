package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"feiraja/internal/config"
	"feiraja/internal/logger"
	"feiraja/internal/models"
)

// TelegramOpsNotifier шлёт операторам в Telegram-чат уведомления о новых регистрациях.
type TelegramOpsNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramOpsNotifier(cfg config.TelegramConfig, client *http.Client) (*TelegramOpsNotifier, error) {
	return newTelegramOpsNotifier(cfg, tgbotapi.APIEndpoint, client)
}

func newTelegramOpsNotifier(cfg config.TelegramConfig, endpoint string, client *http.Client) (*TelegramOpsNotifier, error) {
	if cfg.BotToken == "" || cfg.OpsChatID == 0 {
		return nil, errors.New("telegram: bot token and ops chat id are required")
	}
	if client == nil {
		client = &http.Client{}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramOpsNotifier{bot: bot, chatID: cfg.OpsChatID}, nil
}

func registrationText(c *models.Customer) string {
	text := fmt.Sprintf("🆕 Novo cadastro na Feirajá\nNome: %s\nTelefone: %s", c.DisplayName(), logger.MaskPhone(c.PhoneNumber))
	if c.SelectedBoxSize != nil {
		text += fmt.Sprintf("\nCesta: %d", *c.SelectedBoxSize)
	}
	if c.DeliveryDay != nil {
		text += "\nEntrega: " + *c.DeliveryDay
	}
	return text
}

func (n *TelegramOpsNotifier) NotifyRegistration(_ context.Context, c *models.Customer) error {
	msg := tgbotapi.NewMessage(n.chatID, registrationText(c))
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
