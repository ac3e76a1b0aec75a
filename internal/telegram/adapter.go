// Package telegram is an optional chat channel: incoming messages run
// through the same orchestration loop as HTTP chats, using the configured
// data-service credential since Telegram carries no bearer token of its own.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/growthagent/internal/agent"
	"github.com/user/growthagent/pkg/llm"
)

const maxTelegramMessage = 4096

// Runner runs one conversation and returns the full internal history.
type Runner interface {
	Run(ctx context.Context, history []llm.Message, token string) ([]llm.Message, error)
}

// Adapter bridges Telegram to the agent loop.
type Adapter struct {
	bot          *tgbotapi.BotAPI
	agent        Runner
	serviceToken string
}

// New creates a Telegram adapter. serviceToken is the data-service
// credential used on behalf of Telegram users.
func New(botToken string, a Runner, serviceToken string) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Adapter{bot: bot, agent: a, serviceToken: serviceToken}, nil
}

// Start begins long-polling for Telegram updates.
func (a *Adapter) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := a.bot.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			a.handleMessage(ctx, update.Message)
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return
		}
	}
}

func (a *Adapter) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	history := []llm.Message{{Role: llm.RoleUser, Content: msg.Text}}

	full, err := a.agent.Run(ctx, history, a.serviceToken)
	if err != nil {
		slog.Error("telegram chat failed", "chat_id", msg.Chat.ID, "error", err)
		a.sendResponse(msg.Chat.ID, "Sorry, I encountered an error processing your message.")
		return
	}

	// Conversations are stateless; the reply is the last public assistant
	// message.
	public := agent.Filter(full)
	reply := ""
	for _, m := range public {
		if m.Role == llm.RoleAssistant {
			reply = m.Content
		}
	}
	if reply == "" {
		return
	}
	a.sendResponse(msg.Chat.ID, reply)
}

// sendResponse sends text to a chat, splitting at Telegram's message limit.
func (a *Adapter) sendResponse(chatID int64, text string) {
	for len(text) > 0 {
		chunk := text
		if len(chunk) > maxTelegramMessage {
			chunk = chunk[:maxTelegramMessage]
		}
		text = text[len(chunk):]

		if _, err := a.bot.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			slog.Error("telegram send failed", "chat_id", chatID, "error", err)
			return
		}
	}
}
