package discord

import (
	"time"

	"github.com/assist-by/anansi/internal/order"
)

// SendExecution은 주문 실행 결과 알림을 전송합니다
func (c *Client) SendExecution(o *order.Outcome) error {
	return c.sendToWebhook(c.tradeWebhook, WebhookMessage{
		Embeds: []Embed{executionEmbed(o, c.label)},
	})
}

// SendError는 에러 알림을 전송합니다
func (c *Client) SendError(err error) error {
	return c.sendToWebhook(c.errorWebhook, WebhookMessage{
		Embeds: []Embed{errorEmbed(err, time.Now())},
	})
}

// SendInfo는 일반 정보 알림을 전송합니다
func (c *Client) SendInfo(message string) error {
	return c.sendToWebhook(c.infoWebhook, WebhookMessage{
		Embeds: []Embed{infoEmbed(message, time.Now())},
	})
}
