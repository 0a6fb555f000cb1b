package discord

import (
	"fmt"
	"time"

	"github.com/assist-by/anansi/internal/domain"
	"github.com/assist-by/anansi/internal/notification"
	"github.com/assist-by/anansi/internal/order"
)

// WebhookMessage는 Discord 웹훅 메시지를 정의합니다
type WebhookMessage struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed는 Discord 메시지 임베드를 정의합니다
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField는 임베드 필드를 정의합니다
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// EmbedFooter는 임베드 푸터를 정의합니다
type EmbedFooter struct {
	Text string `json:"text"`
}

func newEmbed(title, description string, color int, at time.Time) Embed {
	return Embed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer:      &EmbedFooter{Text: defaultFooter},
		Timestamp:   at.UTC().Format(time.RFC3339),
	}
}

func (e *Embed) addField(name, value string, inline bool) {
	e.Fields = append(e.Fields, EmbedField{Name: name, Value: value, Inline: inline})
}

// executionEmbed는 실행 결과를 임베드로 표현합니다
// 체결된 경우에만 수량, 수수료, 잔고 필드를 붙입니다.
func executionEmbed(o *order.Outcome, label string) Embed {
	title := fmt.Sprintf("주문 실행: %s", o.Signal)
	if !o.Executed {
		title = fmt.Sprintf("주문 미실행: %s (%s)", o.Signal, o.SkipReason)
	}
	if label != "" {
		title += " " + label
	}

	embed := newEmbed(title,
		fmt.Sprintf("**방향**: %s → %s\n**가격**: %.8f", o.Request.FromSide, o.ResultingSide, o.Request.Price),
		notification.GetColorForSignal(o.Signal),
		time.Unix(o.Request.Timestamp, 0))

	if o.Executed {
		embed.addField("수량", fmt.Sprintf("%.8f", o.Amount), true)
		embed.addField("수수료", fmt.Sprintf("%.8f", o.FeeBase), true)
		embed.addField("잔고", fmt.Sprintf("```\nquote: %.8f\nbase:  %.8f```", o.After.Quote, o.After.Base), false)
	}
	return embed
}

func errorEmbed(err error, at time.Time) Embed {
	return newEmbed("에러 발생", fmt.Sprintf("```%v```", err), domain.ColorError, at)
}

func infoEmbed(message string, at time.Time) Embed {
	return newEmbed("", message, domain.ColorInfo, at)
}
