package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"tours-api/internal/logger"
	"tours-api/internal/mailer"
)

const (
	// MaxRetries is the maximum number of delivery attempts for one email.
	MaxRetries = 3
	// RetryDelay is the base delay between retries (exponential backoff).
	RetryDelay = 5 * time.Second
	// SendTimeout bounds a single delivery attempt.
	SendTimeout = 30 * time.Second
)

// Processor sends queued email with a pool of workers.
type Processor struct {
	queue        Queue
	sender       mailer.Sender
	log          *logger.Logger
	workerCount  int
	retryDelay   time.Duration
	wg           sync.WaitGroup
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewProcessor creates a new email processor.
func NewProcessor(queue Queue, sender mailer.Sender, log *logger.Logger, workerCount int) *Processor {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Processor{
		queue:       queue,
		sender:      sender,
		log:         log.Component("email-processor"),
		workerCount: workerCount,
		retryDelay:  RetryDelay,
		shutdownCh:  make(chan struct{}),
	}
}

// Start begins processing jobs with the configured number of workers.
func (p *Processor) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.log.Info().Int("workers", p.workerCount).Msg("email processor started")
}

// Stop closes the queue and waits for workers to drain it.
func (p *Processor) Stop() {
	p.shutdownOnce.Do(func() {
		close(p.shutdownCh)
		p.queue.Close()
	})
	p.wg.Wait()
	p.log.Info().Msg("email processor stopped")
}

func (p *Processor) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || errors.Is(err, context.Canceled) {
				p.log.Debug().Int("worker", id).Msg("worker shutting down")
				return
			}
			continue
		}
		p.processJob(ctx, job)
	}
}

func (p *Processor) processJob(ctx context.Context, job EmailJob) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SendTimeout)
	defer cancel()

	if err := p.sender.Send(sendCtx, job.Message); err != nil {
		p.log.Warn().Err(err).
			Str("to", job.Message.To).
			Int("attempt", job.RetryCount+1).
			Msg("email delivery failed")
		p.handleFailure(job)
		return
	}

	p.log.Info().Str("to", job.Message.To).Str("subject", job.Message.Subject).Msg("email sent")
}

func (p *Processor) handleFailure(job EmailJob) {
	job.RetryCount++

	if job.RetryCount >= MaxRetries {
		p.log.Error().Str("to", job.Message.To).Msg("email dropped after max retries")
		return
	}

	delay := p.retryDelay * time.Duration(1<<uint(job.RetryCount-1))

	// Waits on shutdownCh rather than ctx so a pending retry ends with Stop.
	go func() {
		select {
		case <-p.shutdownCh:
			p.log.Warn().Str("to", job.Message.To).Msg("shutdown during retry delay, email dropped")
		case <-time.After(delay):
			if err := p.queue.Enqueue(job); err != nil {
				p.log.Error().Err(err).Str("to", job.Message.To).Msg("failed to re-enqueue email")
			}
		}
	}()
}
