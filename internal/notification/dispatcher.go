package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/frahmantamala/campus-complaints/internal/core/events"
	"github.com/frahmantamala/campus-complaints/internal/profile"
)

var ErrQueueFull = errors.New("notification queue full")

type Job struct {
	Request Request
}

type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Job, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				return
			}

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing notification", "worker_id", w.ID, "complaint_id", job.Request.ComplaintID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	EndpointURL string
	Timeout     time.Duration
	MaxWorkers  int
	QueueSize   int
}

// Dispatcher posts notification requests to the endpoint from a bounded
// worker pool. Delivery is fire-and-forget: nothing is retried.
type Dispatcher struct {
	endpointURL string
	httpClient  *http.Client
	profiles    profile.RepositoryAPI
	logger      *slog.Logger

	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewDispatcher(config Config, profiles profile.RepositoryAPI, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	d := &Dispatcher{
		endpointURL: config.EndpointURL,
		httpClient:  &http.Client{Timeout: timeout},
		profiles:    profiles,
		logger:      logger.With("component", "notification_dispatcher"),

		maxWorkers: maxWorkers,
		jobQueue:   make(chan Job, queueSize),
		workerPool: make(chan chan Job, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	d.start()

	return d
}

func (d *Dispatcher) start() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.deliver)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("notification worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue),
			"endpoint_url", d.endpointURL)
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- job:
				case <-d.ctx.Done():
					return
				}
			case <-d.ctx.Done():
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("dispatcher shutting down")
			return
		}
	}
}

func (d *Dispatcher) Shutdown() {
	d.logger.Info("shutting down notification dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("notification dispatcher shutdown complete")
}

// Enqueue never blocks. A full queue drops the request.
func (d *Dispatcher) Enqueue(req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	select {
	case d.jobQueue <- Job{Request: req}:
		d.logger.Debug("notification queued", "complaint_id", req.ComplaintID, "queue_length", len(d.jobQueue))
		return nil
	default:
		d.logger.Warn("notification queue full, dropping",
			"complaint_id", req.ComplaintID,
			"queue_capacity", cap(d.jobQueue))
		return ErrQueueFull
	}
}

// HandleStatusChanged is an events.Handler for complaint status changes. The
// recipient address comes from the owner's profile.
func (d *Dispatcher) HandleStatusChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(*events.ComplaintStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, events.EventTypeComplaintStatusChanged)
	}

	owner, err := d.profiles.GetByUserID(ctx, changed.UserID)
	if err != nil {
		return fmt.Errorf("load profile for %s: %w", changed.UserID, err)
	}
	if owner == nil || owner.Email == "" {
		d.logger.Warn("no email for complaint owner, skipping notification",
			"complaint_id", changed.ComplaintID,
			"user_id", changed.UserID)
		return nil
	}

	req := Request{
		ComplaintID:    changed.ComplaintID,
		OldStatus:      changed.OldStatus,
		NewStatus:      changed.NewStatus,
		UserEmail:      owner.Email,
		ComplaintTitle: changed.Title,
	}
	if changed.Resolution != nil {
		req.Resolution = *changed.Resolution
	}
	return d.Enqueue(req)
}

func (d *Dispatcher) deliver(job Job) {
	if err := d.Send(d.ctx, job.Request); err != nil {
		d.logger.Error("notification delivery failed", "error", err, "complaint_id", job.Request.ComplaintID)
		return
	}

	d.logger.Info("notification delivered",
		"complaint_id", job.Request.ComplaintID,
		"new_status", job.Request.NewStatus)
}

// Send posts a single request and waits for the endpoint's answer. Anything
// other than 200 is an error.
func (d *Dispatcher) Send(ctx context.Context, request Request) error {
	if err := request.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.httpClient.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpointURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
