// Package telegram delivers the statistics digest and prediction via the
// Telegram Bot API. Messages use MarkdownV2 formatting and are sent with
// retry logic for transient API failures.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lotoscope/lotoscope/internal/models"
	"github.com/lotoscope/lotoscope/internal/prompt"
	"github.com/lotoscope/lotoscope/internal/stats"
)

// Client handles Telegram notifications.
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client.
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// SendDigest sends the statistics digest, optionally with a prediction.
// prediction may be nil when no prediction was requested.
func (c *Client) SendDigest(report *stats.Report, drawCount int, prediction *models.Prediction) error {
	message := formatDigest(report, drawCount, prediction)

	msg := tgbotapi.NewMessage(c.chatID, message)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatDigest formats the report summary into a Telegram message.
func formatDigest(report *stats.Report, drawCount int, prediction *models.Prediction) string {
	var b strings.Builder

	b.WriteString("🎰 *Lotoscope Digest*\n\n")
	b.WriteString(escapeMarkdownV2(fmt.Sprintf("📊 Draws analyzed: %d\n", drawCount)))

	top := prompt.TopNumbers(report, 5)
	b.WriteString(escapeMarkdownV2(fmt.Sprintf("🔥 Hottest numbers: %s\n", joinInts(top))))
	b.WriteString(escapeMarkdownV2(fmt.Sprintf("⚖️ Parity: %.2f even / %.2f odd per draw\n",
		report.Parity.Even, report.Parity.Odd)))
	b.WriteString(escapeMarkdownV2(fmt.Sprintf("➕ Sums: mean %.1f, median %.1f, std dev %.1f\n",
		report.SumAvg, report.SumMedian, report.SumStdDev)))
	b.WriteString(escapeMarkdownV2(fmt.Sprintf("🔁 Avg repeats from previous draw: %.2f\n",
		prompt.AverageRepeat(report))))

	if len(report.Duplicates) > 0 {
		b.WriteString(escapeMarkdownV2(fmt.Sprintf("♻️ Repeated combinations: %d\n", len(report.Duplicates))))
	}

	if prediction != nil {
		b.WriteString("\n🎯 *Suggested ticket*\n")
		b.WriteString(escapeMarkdownV2(fmt.Sprintf("%s (source: %s)\n", joinInts(prediction.Numbers), prediction.Source)))
	}

	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
