package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/events"
	"github.com/spec-kit/ticket-insights/internal/responder"
	"github.com/spec-kit/ticket-insights/internal/service"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

// TicketResponses is the slice of the ticket service the response worker needs.
type TicketResponses interface {
	GetTicket(ctx context.Context, id string) (*domain.Ticket, error)
	AttachResponseIfEmpty(ctx context.Context, id, response string) (*domain.Ticket, error)
}

// ResponseWorker generates responses for newly created tickets off the request path.
type ResponseWorker struct {
	tickets   TicketResponses
	responder responder.Responder
	logger    *zap.Logger
	workers   int
	queue     chan string

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewResponseWorker builds a worker pool of the given size over a bounded queue.
func NewResponseWorker(tickets TicketResponses, r responder.Responder, workers, queueSize int, logger *zap.Logger) *ResponseWorker {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseWorker{
		tickets:   tickets,
		responder: r,
		logger:    logger,
		workers:   workers,
		queue:     make(chan string, queueSize),
	}
}

// RegisterHandlers enqueues every created ticket.
func (w *ResponseWorker) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, func(_ context.Context, event events.Event) error {
		w.Enqueue(event.TicketID)
		return nil
	})
}

// Enqueue schedules a ticket without blocking. It reports false when the queue is full.
func (w *ResponseWorker) Enqueue(ticketID string) bool {
	select {
	case w.queue <- ticketID:
		return true
	default:
		w.logger.Warn("response queue full; dropping ticket", zap.String("ticket_id", ticketID))
		return false
	}
}

// Start launches the worker goroutines. They run until ctx is done or Stop is called.
func (w *ResponseWorker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
	w.logger.Info("response worker started", zap.Int("workers", w.workers))
}

// Stop cancels the workers and waits for in-flight tickets to finish.
func (w *ResponseWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	w.wg.Wait()
	w.logger.Info("response worker stopped")
}

func (w *ResponseWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-w.queue:
			w.process(ctx, id)
		}
	}
}

func (w *ResponseWorker) process(ctx context.Context, id string) {
	logger := w.logger.With(zap.String("ticket_id", id))

	ticket, err := w.tickets.GetTicket(ctx, id)
	if err != nil {
		w.logLookupError(logger, err)
		return
	}
	if ticket.Response != nil && *ticket.Response != "" {
		return
	}

	text, err := w.responder.Respond(ctx, ticket.Description)
	if err != nil {
		logger.Warn("responder failed", zap.Error(err))
		return
	}

	if _, err := w.tickets.AttachResponseIfEmpty(ctx, id, text); err != nil {
		if errors.Is(err, service.ErrResponseExists) {
			logger.Debug("response written while generating; keeping it")
			return
		}
		w.logLookupError(logger, err)
		return
	}
	logger.Debug("response attached")
}

func (w *ResponseWorker) logLookupError(logger *zap.Logger, err error) {
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		logger.Debug("ticket deleted before response was attached")
		return
	}
	logger.Error("attach response failed", zap.Error(err))
}
