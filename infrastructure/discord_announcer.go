package infrastructure

import (
	"context"
	"fmt"

	"clubledger/domain/entities"
	"clubledger/domain/services"
	"clubledger/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Embed colors
const (
	ColorSuccess = 0x2ECC71
	ColorInfo    = 0x3498DB
	ColorGold    = 0xF1C40F
)

// EmbedSender is the part of a discord session the announcer needs
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// MemberNamer resolves a member id to a display name
type MemberNamer func(memberID string) (string, bool)

// DiscordAnnouncer posts drawing results and unlocked achievements to a channel
type DiscordAnnouncer struct {
	sender    EmbedSender
	channelID string
	names     MemberNamer
}

// NewDiscordAnnouncer creates an announcer
func NewDiscordAnnouncer(sender EmbedSender, channelID string, names MemberNamer) *DiscordAnnouncer {
	return &DiscordAnnouncer{sender: sender, channelID: channelID, names: names}
}

// AnnouncedEvents lists the event types the announcer handles
func AnnouncedEvents() []events.EventType {
	return []events.EventType{events.EventTypeDrawCompleted, events.EventTypeAchievementUnlocked}
}

// OnMutation posts an embed for events worth announcing
func (a *DiscordAnnouncer) OnMutation(ctx context.Context, event events.Event) error {
	var embed *discordgo.MessageEmbed
	switch e := event.(type) {
	case events.DrawCompletedEvent:
		embed = CreateDrawResultEmbed(e.Result, a.displayName(e.Result.WinnerID))
	case events.AchievementUnlockedEvent:
		achievement, ok := entities.LookupAchievement(e.AchievementID)
		if !ok {
			return nil
		}
		embed = CreateAchievementEmbed(achievement, a.displayName(e.MemberID))
	default:
		return nil
	}

	if _, err := a.sender.ChannelMessageSendEmbed(a.channelID, embed); err != nil {
		return fmt.Errorf("failed to send %s announcement: %w", event.Type(), err)
	}

	log.WithFields(log.Fields{
		"channelID": a.channelID,
		"eventType": event.Type(),
	}).Debug("Posted announcement")
	return nil
}

func (a *DiscordAnnouncer) displayName(memberID string) string {
	if memberID == "" {
		return ""
	}
	if a.names != nil {
		if name, ok := a.names(memberID); ok {
			return name
		}
	}
	return memberID
}

// FormatPoints renders an amount in the club currency
func FormatPoints(amount int64) string {
	return fmt.Sprintf("%d %s", amount, services.CurrencyName)
}

// CreateDrawResultEmbed creates an embed for a completed drawing
func CreateDrawResultEmbed(result entities.DrawResult, winnerName string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Winning Code",
				Value:  result.WinningCode,
				Inline: true,
			},
			{
				Name:   "Tickets",
				Value:  fmt.Sprintf("%d", result.TicketCount),
				Inline: true,
			},
			{
				Name:   "Next Pool",
				Value:  FormatPoints(result.PoolAfter),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Next draw <t:%d:f>", result.NextDrawAt.Unix()),
		},
	}

	if result.HasWinner() {
		embed.Title = "We have a winner!"
		embed.Color = ColorGold
		embed.Description = fmt.Sprintf("**%s** won %s", winnerName, FormatPoints(result.Payout))
	} else {
		embed.Title = "No winner this round"
		embed.Color = ColorInfo
		embed.Description = fmt.Sprintf("The pool rolls over to %s", FormatPoints(result.PoolAfter))
	}
	return embed
}

// CreateAchievementEmbed creates an embed for an unlocked achievement
func CreateAchievementEmbed(achievement entities.Achievement, memberName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Achievement unlocked",
		Color:       ColorSuccess,
		Description: fmt.Sprintf("**%s** earned **%s**", memberName, achievement.Name),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Requirement",
				Value: achievement.Description,
			},
		},
	}
}
