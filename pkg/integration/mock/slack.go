package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/jordigilh/runbookengine/pkg/types"
)

// Slack implements types.CommunicationProvider in memory: messages and
// channels created during a run are held for later retrieval within
// the same process but never sent anywhere.
type Slack struct {
	base
	channels map[string]types.Channel
	messages map[string][]types.Message
	seq      int
}

// NewSlack builds a scenario-backed communication provider.
func NewSlack(scenarioName string, delayEnabled bool) *Slack {
	return &Slack{
		base:     newBase("slack", scenarioName, delayEnabled),
		channels: make(map[string]types.Channel),
		messages: make(map[string][]types.Message),
	}
}

var _ types.CommunicationProvider = (*Slack)(nil)

func (s *Slack) SendMessage(ctx context.Context, channel, message string) error {
	if err := s.simulateDelay(ctx); err != nil {
		return err
	}
	s.seq++
	s.messages[channel] = append(s.messages[channel], types.Message{
		ID:        fmt.Sprintf("msg-%04d", s.seq),
		Channel:   channel,
		Text:      message,
		Author:    "runbookengine-bot",
		Timestamp: time.Now(),
	})
	return nil
}

func (s *Slack) CreateChannel(ctx context.Context, name, purpose string) (types.Channel, error) {
	if err := s.simulateDelay(ctx); err != nil {
		return types.Channel{}, err
	}
	ch := types.Channel{ID: "C" + name, Name: name, Purpose: purpose, CreatedAt: time.Now()}
	s.channels[name] = ch
	return ch, nil
}

func (s *Slack) GetRecentMessages(ctx context.Context, channel string, limit int) ([]types.Message, error) {
	if err := s.simulateDelay(ctx); err != nil {
		return nil, err
	}
	msgs := s.messages[channel]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}
