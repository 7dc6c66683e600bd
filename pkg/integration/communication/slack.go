// Package communication implements types.CommunicationProvider against
// the real Slack API.
package communication

import (
	"context"
	"time"

	"github.com/slack-go/slack"

	"github.com/jordigilh/runbookengine/internal/apperrors"
	"github.com/jordigilh/runbookengine/internal/config"
	"github.com/jordigilh/runbookengine/pkg/types"
)

// SlackClient implements types.CommunicationProvider against the Slack
// Web API.
type SlackClient struct {
	api *slack.Client
}

// NewSlackClient builds a live Slack adapter from configuration.
func NewSlackClient(cfg config.SlackConfig) (*SlackClient, error) {
	if cfg.BotToken == "" {
		return nil, apperrors.NewConfigurationError("SLACK_BOT_TOKEN is required for slack mode")
	}
	return &SlackClient{api: slack.New(cfg.BotToken)}, nil
}

var _ types.CommunicationProvider = (*SlackClient)(nil)

func (s *SlackClient) SendMessage(ctx context.Context, channel, message string) error {
	_, _, err := s.api.PostMessageContext(ctx, channel, slack.MsgOptionText(message, false))
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeIntegration, "failed to post Slack message")
	}
	return nil
}

func (s *SlackClient) CreateChannel(ctx context.Context, name, purpose string) (types.Channel, error) {
	ch, err := s.api.CreateConversationContext(ctx, slack.CreateConversationParams{ChannelName: name})
	if err != nil {
		return types.Channel{}, apperrors.Wrap(err, apperrors.ErrorTypeIntegration, "failed to create Slack channel")
	}
	if purpose != "" {
		if _, err := s.api.SetPurposeOfConversationContext(ctx, ch.ID, purpose); err != nil {
			return types.Channel{}, apperrors.Wrap(err, apperrors.ErrorTypeIntegration, "failed to set channel purpose")
		}
	}
	return types.Channel{ID: ch.ID, Name: ch.Name, Purpose: purpose, CreatedAt: time.Unix(int64(ch.Created), 0)}, nil
}

func (s *SlackClient) GetRecentMessages(ctx context.Context, channel string, limit int) ([]types.Message, error) {
	hist, err := s.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channel,
		Limit:     limit,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeIntegration, "failed to fetch Slack history")
	}
	msgs := make([]types.Message, 0, len(hist.Messages))
	for _, m := range hist.Messages {
		msgs = append(msgs, types.Message{Channel: channel, Text: m.Text, Author: m.User})
	}
	return msgs, nil
}
