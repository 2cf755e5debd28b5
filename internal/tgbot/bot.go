// Package tgbot pushes score updates to subscribed Telegram chats and
// answers /score queries. It is optional; the scoreboard runs fine
// without a token configured.
package tgbot

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/rsiwady29/tennis-scoreboard/internal/config"
	"github.com/rsiwady29/tennis-scoreboard/internal/domain"
	"github.com/rsiwady29/tennis-scoreboard/internal/service"
)

type Bot struct {
	bot *tgbotapi.BotAPI

	matchService *service.MatchService
	log          *logrus.Entry

	subs  subscriptions
	snaps chan domain.Snapshot

	// last announced game/set counters, to avoid a message per rally
	lastGames mapset.Set[string]

	cancel func()
}

func New(ms *service.MatchService, cfg config.TgBot, l *logrus.Logger) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramApiToken)
	if err != nil {
		return nil, fmt.Errorf("telegram api: %w", err)
	}
	_, err = bot.GetMe()
	if err != nil {
		return nil, err
	}
	return &Bot{
		bot:          bot,
		matchService: ms,
		log: l.WithFields(map[string]interface{}{
			"from": "tgbot",
		}),
		subs:      newSubs(),
		snaps:     make(chan domain.Snapshot, 8),
		lastGames: mapset.NewSet[string](),
	}, nil
}

// Update implements service.Subscriber. It never blocks the scoring
// loop: if the outbox is full the snapshot is dropped, the next one
// carries the full state anyway.
func (b *Bot) Update(snap domain.Snapshot) {
	select {
	case b.snaps <- snap:
	default:
	}
}

func (b *Bot) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-b.snaps:
			b.announce(snap)
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(update.Message)
		}
	}
}

func (b *Bot) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, "")
	switch msg.Command() {
	case "help", "start":
		reply.Text = `Commands: /score, /sub, /unsub, /help.`
	case "score":
		reply.Text = b.matchService.Current().ScoreLine()
	case "sub":
		b.subs.Add(msg.Chat.ID)
		reply.Text = "Subscribed to score updates."
	case "unsub":
		b.subs.Remove(msg.Chat.ID)
		reply.Text = "Unsubscribed."
	default:
		reply.Text = "Unknown command, try /help."
	}
	if _, err := b.bot.Send(reply); err != nil {
		b.log.WithError(err).Error("send reply failed")
	}
}

// announce notifies subscribers when a game, set or the match finishes.
// Rally-by-rally points stay on the board only.
func (b *Bot) announce(snap domain.Snapshot) {
	st := snap.State
	key := fmt.Sprintf("%s/%d-%d/%d-%d/%s",
		st.ID, st.HomeSets, st.AwaySets, st.HomeGames, st.AwayGames, st.Status)
	if !b.lastGames.Add(key) {
		return
	}
	var text string
	switch {
	case st.Status == domain.Completed && st.Winner != nil:
		text = fmt.Sprintf("Match over: %s wins. %s", st.Winner, st.ScoreLine())
	default:
		text = st.ScoreLine()
	}
	for _, chatID := range b.subs.ChatIDs() {
		if _, err := b.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			b.log.WithError(err).WithField("chat", chatID).Error("send update failed")
		}
	}
}
