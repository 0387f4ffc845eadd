package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"attendance-backend/internal/model"
)

// Event is one durable attendance transition worth announcing.
type Event struct {
	UserID string
	Status string
}

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers for pushing attendance events to
// subscribed browsers.
type WorkerPool struct {
	size    int
	jobs    chan Event
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Event, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case evt := <-wp.jobs:
			wp.sendNotificationsForUser(ctx, evt)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends an event to the worker pool.
func (wp *WorkerPool) Dispatch(evt Event) {
	wp.jobs <- evt
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Event {
	return wp.jobs
}

// sendNotificationsForUser fetches the user's subscriptions and pushes
// the attendance event to each of them.
func (wp *WorkerPool) sendNotificationsForUser(ctx context.Context, evt Event) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Where("user_id = ?", evt.UserID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for user %s: %v", evt.UserID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for user %s", len(subscriptions), evt.UserID)

	var user model.User
	label := evt.UserID
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&user, "id = ?", evt.UserID).Error; err != nil {
		log.Printf("Error fetching user %s: %v", evt.UserID, err)
	} else if user.Name != "" {
		label = user.Name
	}

	message := fmt.Sprintf("%s: %s", label, evt.Status)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
