// Package telegram provides a client for sending draw digests via Telegram Bot API.
// It formats a dashboard (latest draw, hot and cold digits, predictions) into a
// MarkdownV2 message and handles delivery with retry logic for reliability.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/draworacle/internal/analysis"
	"github.com/rewired-gh/draworacle/internal/dashboard"
)

// Client handles Telegram notifications
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
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

// Send sends a digest of the dashboard
func (c *Client) Send(d *dashboard.Dashboard) error {
	return c.send(FormatDigest(d))
}

// SendError notifies the chat that building a digest failed
func (c *Client) SendError(err error) error {
	return c.send("⚠️ *Digest failed*\n\n" + escapeMarkdownV2(err.Error()))
}

// SendRecovery notifies the chat that digests are flowing again after failures
func (c *Client) SendRecovery(failures int) error {
	return c.send(escapeMarkdownV2(fmt.Sprintf("✅ Digest recovered after %d failed run(s).", failures)))
}

func (c *Client) send(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	// Send with retry
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

// FormatDigest renders a dashboard as a MarkdownV2 message
func FormatDigest(d *dashboard.Dashboard) string {
	var b strings.Builder
	b.WriteString("🎱 *3D Draw Digest*\n\n")

	if d.Latest == nil {
		b.WriteString(escapeMarkdownV2("No draws available."))
		b.WriteString("\n")
		return b.String()
	}

	latest := d.Latest
	fmt.Fprintf(&b, "📅 Period *%s* \\(%s\\)\n",
		escapeMarkdownV2(latest.Period), escapeMarkdownV2(latest.Date))
	fmt.Fprintf(&b, "🔢 Numbers: *%s*\n", formatDigits(latest.Digits.Slice()))
	fmt.Fprintf(&b, "   Sum %d · Span %d · %s\n\n",
		latest.Sum, latest.Span, escapeMarkdownV2(latest.Category.Label()))

	fmt.Fprintf(&b, "🔥 Hot \\(last %d\\): %s\n", d.HotColdWindow, formatCounts(d.Hot))
	fmt.Fprintf(&b, "🧊 Cold \\(last %d\\): %s\n\n", d.HotColdWindow, formatCounts(d.Cold))

	for _, p := range d.Predictions {
		fmt.Fprintf(&b, "🎯 %s: *%s* \\(confidence %d%%\\)\n",
			escapeMarkdownV2(p.Name), formatDigits(p.Digits), p.Confidence)
	}

	b.WriteString("\n")
	b.WriteString(escapeMarkdownV2(fmt.Sprintf("Sum mean %.1f ± %.1f over %d draws. Predictions are for entertainment only.",
		d.Summary.SumMean, d.Summary.SumStdDev, d.Summary.Draws)))
	b.WriteString("\n")

	return b.String()
}

func formatDigits(digits []int) string {
	parts := make([]string, len(digits))
	for i, d := range digits {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, " ")
}

func formatCounts(counts []analysis.DigitCount) string {
	parts := make([]string, len(counts))
	for i, dc := range counts {
		parts[i] = fmt.Sprintf("%d×%d", dc.Digit, dc.Count)
	}
	return strings.Join(parts, ", ")
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	// Characters that need escaping in MarkdownV2:
	// _ * [ ] ( ) ~ ` > # + - = | { } . !
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteRune('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
