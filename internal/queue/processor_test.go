package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tours-api/internal/logger"
	"tours-api/internal/mailer"
	mailermocks "tours-api/internal/mailer/mocks"
)

func newTestProcessor(q Queue, sender mailer.Sender, workers int) *Processor {
	p := NewProcessor(q, sender, logger.Nop(), workers)
	p.retryDelay = 10 * time.Millisecond
	return p
}

func welcomeJob(to string) EmailJob {
	return EmailJob{Message: mailer.Message{To: to, Subject: "Welcome to the Tours family!", Text: "Hi"}}
}

func TestNewProcessor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := NewMemoryQueue(10)
	sender := mailermocks.NewMockSender(ctrl)

	processor := NewProcessor(queue, sender, logger.Nop(), 2)

	assert.NotNil(t, processor)
	assert.Equal(t, 2, processor.workerCount)
	assert.Equal(t, RetryDelay, processor.retryDelay)

	assert.Equal(t, 1, NewProcessor(queue, sender, logger.Nop(), 0).workerCount)
}

func TestProcessor_StartStop(t *testing.T) {
	t.Run("starts and stops cleanly", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		processor := newTestProcessor(NewMemoryQueue(10), mailermocks.NewMockSender(ctrl), 3)
		processor.Start(context.Background())

		time.Sleep(50 * time.Millisecond)

		done := make(chan struct{})
		go func() {
			processor.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Stop() timed out")
		}
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		processor := newTestProcessor(NewMemoryQueue(10), mailermocks.NewMockSender(ctrl), 1)
		processor.Start(context.Background())

		processor.Stop()
		processor.Stop()
		processor.Stop()
	})
}

func TestProcessor_ProcessJob(t *testing.T) {
	t.Run("sends queued email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		queue := NewMemoryQueue(10)
		sender := mailermocks.NewMockSender(ctrl)
		processor := newTestProcessor(queue, sender, 1)

		job := welcomeJob("ann@example.com")
		sent := make(chan struct{})
		sender.EXPECT().
			Send(gomock.Any(), job.Message).
			DoAndReturn(func(ctx context.Context, msg mailer.Message) error {
				close(sent)
				return nil
			})

		_ = queue.Enqueue(job)
		processor.Start(context.Background())

		select {
		case <-sent:
		case <-time.After(2 * time.Second):
			t.Fatal("email was not sent")
		}
		processor.Stop()
	})

	t.Run("retries a failed delivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		queue := NewMemoryQueue(10)
		sender := mailermocks.NewMockSender(ctrl)
		processor := newTestProcessor(queue, sender, 1)

		delivered := make(chan struct{})
		gomock.InOrder(
			sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(assert.AnError),
			sender.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
				func(ctx context.Context, msg mailer.Message) error {
					close(delivered)
					return nil
				}),
		)

		_ = queue.Enqueue(welcomeJob("ann@example.com"))
		processor.Start(context.Background())

		select {
		case <-delivered:
		case <-time.After(2 * time.Second):
			t.Fatal("email was not retried")
		}
		processor.Stop()
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		queue := NewMemoryQueue(10)
		sender := mailermocks.NewMockSender(ctrl)
		processor := newTestProcessor(queue, sender, 1)

		sender.EXPECT().
			Send(gomock.Any(), gomock.Any()).
			Return(assert.AnError).
			Times(MaxRetries)

		_ = queue.Enqueue(welcomeJob("ann@example.com"))
		processor.Start(context.Background())

		// Retries wait 10ms then 20ms.
		time.Sleep(300 * time.Millisecond)
		processor.Stop()

		assert.Equal(t, 0, queue.Len())
	})
}

func TestProcessor_BackoffDelays(t *testing.T) {
	// RetryDelay * 2^(retryCount-1)
	delays := []time.Duration{
		RetryDelay * time.Duration(1<<0),
		RetryDelay * time.Duration(1<<1),
	}

	assert.Equal(t, 5*time.Second, delays[0])
	assert.Equal(t, 10*time.Second, delays[1])
}

func TestProcessor_ShutdownDuringRetryDelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := NewMemoryQueue(10)
	sender := mailermocks.NewMockSender(ctrl)
	processor := NewProcessor(queue, sender, logger.Nop(), 1)

	// Default delay is seconds, so Stop lands inside it and the retry is dropped.
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(assert.AnError).Times(1)

	_ = queue.Enqueue(welcomeJob("ann@example.com"))
	processor.Start(context.Background())
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		processor.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() timed out")
	}
}

func TestProcessor_Concurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := NewMemoryQueue(100)
	sender := mailermocks.NewMockSender(ctrl)
	processor := newTestProcessor(queue, sender, 5)

	jobCount := 10
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(jobCount)
	seen := map[string]bool{}

	sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msg mailer.Message) error {
			mu.Lock()
			seen[msg.To] = true
			mu.Unlock()
			wg.Done()
			return nil
		}).
		Times(jobCount)

	for i := 0; i < jobCount; i++ {
		_ = queue.Enqueue(welcomeJob(string(rune('a'+i)) + "@example.com"))
	}

	processor.Start(context.Background())

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for jobs")
	}
	processor.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, jobCount)
}
