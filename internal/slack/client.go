// Package slack sends pipeline notifications to a chat channel.
package slack

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/relpipe/relpipe/internal/config"
)

// Client wraps the Slack API for pipeline notifications.
type Client struct {
	api    *slack.Client
	logger *zap.Logger
}

// NewClient creates a new Slack client.
func NewClient(creds config.SlackCredentials, logger *zap.Logger) *Client {
	return &Client{
		api:    slack.New(creds.Token),
		logger: logger,
	}
}

// NormalizeChannel ensures a channel name carries the leading '#'.
func NormalizeChannel(channel string) string {
	if !strings.HasPrefix(channel, "#") {
		return "#" + channel
	}
	return channel
}

// NotifyLockChange posts a message announcing a branch freeze or unfreeze,
// with a link to the workflow run that performed it.
func (c *Client) NotifyLockChange(channel, branch, repository string, frozen bool, runURL string) error {
	channel = NormalizeChannel(channel)

	c.logger.Info("sending slack notification", zap.String("channel", channel), zap.String("branch", branch))

	_, _, err := c.api.PostMessage(channel,
		slack.MsgOptionAttachments(lockChangeAttachment(branch, repository, frozen, runURL)),
	)
	if err != nil {
		return fmt.Errorf("failed to send slack notification: %w", err)
	}

	c.logger.Info("slack notification sent")
	return nil
}

func lockChangeAttachment(branch, repository string, frozen bool, runURL string) slack.Attachment {
	icon, action, color := ":sun_with_face:", "unfrozen", "good"
	if frozen {
		icon, action, color = ":ice_cube:", "frozen", "warning"
	}

	section := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("%s Branch `%s` has been %s in `%s`", icon, branch, action, repository), false, false),
		nil, nil,
	)
	context := slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Run:* <%s|View workflow run>", runURL), false, false),
	)

	return slack.Attachment{
		Color:  color,
		Blocks: slack.Blocks{BlockSet: []slack.Block{section, context}},
	}
}
