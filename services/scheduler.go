package services

import (
	"context"
	"time"

	"foodsnap/models"
	"foodsnap/store"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const pushTitle = "FoodSnap"

// NotificationScheduler sends the smart notification to every user with
// an enabled device at lunch and dinner time.
type NotificationScheduler struct {
	cron     *cron.Cron
	notifier *NotificationService
	push     *PushService
	devices  store.DeviceRepository
	log      *zap.Logger
	timeout  time.Duration
}

func NewNotificationScheduler(notifier *NotificationService, push *PushService, devices store.DeviceRepository, log *zap.Logger) *NotificationScheduler {
	return &NotificationScheduler{
		cron:     cron.New(),
		notifier: notifier,
		push:     push,
		devices:  devices,
		log:      log,
		timeout:  5 * time.Minute,
	}
}

// Start registers the two cron specs (standard 5-field syntax) and starts
// the cron loop.
func (s *NotificationScheduler) Start(lunchSpec, dinnerSpec string) error {
	jobs := []struct{ spec, mealType string }{
		{lunchSpec, models.MealTypeLunch},
		{dinnerSpec, models.MealTypeDinner},
	}
	for _, job := range jobs {
		mealType := job.mealType
		if _, err := s.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()
			s.log.Info("sending scheduled notifications", zap.String("meal_type", mealType))
			sent := s.RunOnce(ctx, mealType)
			s.log.Info("scheduled notifications sent", zap.String("meal_type", mealType), zap.Int("sent", sent))
		}); err != nil {
			return err
		}
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (s *NotificationScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce notifies every user with an enabled device and returns the
// number of successful publishes.
func (s *NotificationScheduler) RunOnce(ctx context.Context, mealType string) int {
	users, err := s.devices.UsersWithDevices(ctx)
	if err != nil {
		s.log.Error("list notification targets", zap.Error(err))
		return 0
	}

	sent := 0
	for _, userID := range users {
		if ctx.Err() != nil {
			break
		}
		lang := s.languageFor(ctx, userID)
		n, err := s.notifier.Smart(ctx, SmartNotificationInput{UserID: userID, MealType: mealType, Language: lang})
		if err != nil {
			s.log.Warn("smart notification failed", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		c, err := s.push.PushToUser(ctx, userID, pushTitle, n.Message, map[string]string{"mealType": mealType})
		if err != nil {
			s.log.Warn("push failed", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		sent += c
	}
	return sent
}

// languageFor picks the language of the user's first enabled device.
func (s *NotificationScheduler) languageFor(ctx context.Context, userID string) string {
	devices, err := s.devices.ListDevices(ctx, userID)
	if err != nil {
		return "en"
	}
	for _, d := range devices {
		if d.Enabled && d.Language != "" {
			return d.Language
		}
	}
	return "en"
}
