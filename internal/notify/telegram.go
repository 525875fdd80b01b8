package notify

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/config"
	"pg-bridge-api/internal/utils"
	"pg-bridge-api/internal/utils/timeutil"
)

// Alerter raises an operator alert. Implementations must not block for long.
type Alerter interface {
	Alert(ctx context.Context, title string, fields map[string]string)
}

type TelegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
	Parse  string `json:"parse_mode"`
}

// TelegramAlerter posts alerts to a Telegram chat. Without a bot token or chat id
// it only logs.
type TelegramAlerter struct {
	token   string
	chatID  string
	tz      string
	apiBase string
	http    *http.Client
	log     *logrus.Logger
}

func NewTelegramAlerter(cfg config.NotifyCfg, log *logrus.Logger) *TelegramAlerter {
	_ = godotenv.Load() // 自动加载 .env 文件
	return &TelegramAlerter{
		token:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		chatID:  cfg.TelegramChatID,
		tz:      cfg.AlertTimeZone,
		apiBase: "https://api.telegram.org",
		http:    &http.Client{Timeout: 5 * time.Second},
		log:     log,
	}
}

func (a *TelegramAlerter) Enabled() bool {
	return a.token != "" && a.chatID != ""
}

func (a *TelegramAlerter) Alert(ctx context.Context, title string, fields map[string]string) {
	if !a.Enabled() {
		a.log.WithField("title", title).Debug("[ALERT] telegram not configured, skipped")
		return
	}
	msg := TelegramMessage{ChatID: a.chatID, Text: formatAlert(title, timeutil.FormatIn(time.Now(), a.tz), fields), Parse: "MarkdownV2"}
	url := fmt.Sprintf("%s/bot%s/sendMessage", a.apiBase, a.token)
	if _, err := utils.DoJSON(ctx, a.http, http.MethodPost, url, nil, msg); err != nil {
		a.log.WithError(err).WithField("title", title).Warn("[ALERT] Telegram 消息发送失败")
	}
}

func formatAlert(title, at string, fields map[string]string) string {
	var sb strings.Builder
	sb.WriteString("*" + escapeMarkdown(title) + "*\n")
	sb.WriteString("*时间:* " + escapeMarkdown(at) + "\n")

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := fields[k]; v != "" {
			sb.WriteString(escapeMarkdown(k) + ": " + escapeMarkdown(v) + "\n")
		}
	}
	return sb.String()
}

// escapeMarkdown 转义 Telegram Markdown V2 特殊字符
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"(", "\\(",
		")", "\\)",
		"~", "\\~",
		"`", "\\`",
		">", "\\>",
		"#", "\\#",
		"+", "\\+",
		"-", "\\-",
		"=", "\\=",
		"|", "\\|",
		"{", "\\{",
		"}", "\\}",
		".", "\\.",
		"!", "\\!",
	)
	return replacer.Replace(s)
}
