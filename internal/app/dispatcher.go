package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/metrics"
	"github.com/Spok95/vocab-scale/internal/observability"
)

// MessageHandler is implemented by *bot.Bot.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg *tgbotapi.Message)
}

type Dispatcher struct {
	h       MessageHandler
	limiter *ChatLimiter
	log     *zap.Logger
}

func NewDispatcher(h MessageHandler, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{h: h, limiter: NewChatLimiter(), log: log}
}

// Run consumes updates until ctx is done or the channel closes, then waits for
// in-flight handlers.
func (d *Dispatcher) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	defer d.limiter.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			d.Dispatch(ctx, upd)
		}
	}
}

// Dispatch queues one update behind earlier updates of the same chat.
func (d *Dispatcher) Dispatch(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	metrics.BotUpdates.Inc()
	d.limiter.Go(msg.Chat.ID, func() {
		defer func() {
			if r := recover(); r != nil {
				metrics.HandlerErrors.Inc()
				d.log.Error("handler panic", zap.Int64("chat_id", msg.Chat.ID), zap.Any("panic", r))
				observability.CaptureErr(panicError{r})
			}
		}()
		d.h.HandleMessage(ctx, msg)
	})
}

type panicError struct{ v any }

func (p panicError) Error() string { return fmt.Sprintf("panic: %v", p.v) }
