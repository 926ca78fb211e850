package notify

import (
	"context"
	"fmt"

	"kantin-be/internal/logger"
	"kantin-be/internal/order"
	"kantin-be/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts a summary of every order to one chat.
type Telegram struct {
	bot    botSender
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{bot: api, chatID: chatID}, nil
}

func (t *Telegram) NotifyOrder(ctx context.Context, h *order.Handoff) error {
	msg := tgbotapi.NewMessage(t.chatID, telegramText(h))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := t.bot.Send(msg); err != nil {
		logger.Op(ctx, "notify", "Telegram", zap.String("order_ref", h.Ref)).
			Warn("send failed", zap.Error(err))
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func telegramText(h *order.Handoff) string {
	text := fmt.Sprintf("*Pesanan baru* `%s`\n*Nama:* %s\n", h.Ref, h.Customer.Name)
	if h.Customer.Phone != "" {
		text += "*Telepon:* " + h.Customer.Phone + "\n"
	}
	text += "\n" + order.BuildOrderDetails(h.Items) + "\n\n*Total:* " + utils.FormatIDR(h.Total)
	if h.Customer.Notes != "" {
		text += "\n*Catatan:* " + h.Customer.Notes
	}
	return text
}
