package client

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	Close() error
}

// DiscordNotifier posts organizer announcements to a single channel.
type DiscordNotifier struct {
	session   messageSender
	channelId string
}

func NewDiscordNotifier(token string, channelId string) (*DiscordNotifier, error) {
	if token == "" || channelId == "" {
		return nil, fmt.Errorf("discord token and channel id are required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return &DiscordNotifier{session: session, channelId: channelId}, nil
}

func (n *DiscordNotifier) Notify(ctx context.Context, message string) error {
	_, err := n.session.ChannelMessageSend(n.channelId, message, discordgo.WithContext(ctx))
	return err
}

func (n *DiscordNotifier) Close() error {
	return n.session.Close()
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, string) error { return nil }
