package service

import (
	"context"
	"fmt"
	"imgpress/internal/core/domain"
	"imgpress/internal/core/port"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// UsageTracker limits how many input bytes each chat may have compressed per day.
type UsageTracker struct {
	chats      map[int64]int
	dailyLimit int
	mutex      *sync.Mutex
	sender     port.TextSender
}

func NewUsageTracker(ctx context.Context, sender port.TextSender) *UsageTracker {
	ut := &UsageTracker{
		chats:      make(map[int64]int),
		mutex:      &sync.Mutex{},
		sender:     sender,
		dailyLimit: viper.GetInt("limits.daily_bytes"),
	}

	go ut.ResetDailyLimit(ctx)

	return ut
}

func (t *UsageTracker) AddUsage(chatID int64, bytes int) {
	t.mutex.Lock()
	t.chats[chatID] += bytes
	t.mutex.Unlock()
}

const overLimit = "You have compressed %s today, the daily limit is %s. Limit will reset in %s."

// CheckLimit reports whether the chat may compress more today. A limit of 0 disables the check.
func (t *UsageTracker) CheckLimit(ctx context.Context, chatID int64) bool {
	if t.dailyLimit <= 0 {
		return true
	}

	t.mutex.Lock()
	used := t.chats[chatID]
	t.mutex.Unlock()

	if used > t.dailyLimit {
		_, err := t.sender.SendMessageReply(ctx,
			&domain.Message{ChatID: chatID},
			fmt.Sprintf(overLimit, domain.FormatSize(used), domain.FormatSize(t.dailyLimit),
				time.Until(getNextResetTime()).Truncate(time.Second)))
		if err != nil {
			log.Warn().Err(err).Msg("failed to send daily limit exceeded warning")
		}
		return false
	}

	return true
}

func (t *UsageTracker) ResetDailyLimit(ctx context.Context) {
	reset := getNextResetTime()

	for {
		log.Debug().Time("reset", reset).Msg("running reset timer")
		select {
		case <-time.After(time.Until(reset)):
			log.Debug().Msg("resetting daily limit")
			t.mutex.Lock()
			t.chats = make(map[int64]int)
			t.mutex.Unlock()
			time.Sleep(time.Second)
			reset = getNextResetTime()
		case <-ctx.Done():
			log.Debug().Msg("stopping daily limit reset")
			return
		}
	}
}

func getNextResetTime() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
