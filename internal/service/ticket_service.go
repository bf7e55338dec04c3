package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-insights/internal/clock"
	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/events"
	"github.com/spec-kit/ticket-insights/internal/repository"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

// ErrResponseExists reports that a conditional attach found a response already stored.
var ErrResponseExists = errors.New("ticket already has a response")

// TicketService coordinates ticket workflows: intake, lifecycle and listing.
type TicketService struct {
	tickets     repository.TicketRepository
	categorizer *Categorizer
	dispatcher  events.Dispatcher
	clock       clock.Clock
	logger      *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	Categorizer *Categorizer
	Dispatcher  events.Dispatcher
	Clock       clock.Clock
	Logger      *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Name        string
	UserEmail   string
	Description string
	Priority    domain.TicketPriority
}

// ListFilter carries raw listing constraints as received from callers.
// Empty values mean no constraint.
type ListFilter struct {
	Status   string
	Category string
}

// TicketPatch is a partial update. Nil fields are left untouched.
// An empty AgentAssigned unassigns the ticket.
type TicketPatch struct {
	Status        *domain.TicketStatus
	Category      *domain.TicketCategory
	Priority      *domain.TicketPriority
	AgentAssigned *string
	Response      *string
}

// Empty reports whether the patch carries no fields.
func (p TicketPatch) Empty() bool {
	return p.Status == nil && p.Category == nil && p.Priority == nil && p.AgentAssigned == nil && p.Response == nil
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	svc := &TicketService{
		tickets:     deps.TicketRepo,
		categorizer: deps.Categorizer,
		dispatcher:  deps.Dispatcher,
		clock:       deps.Clock,
		logger:      deps.Logger,
	}
	if svc.categorizer == nil {
		svc.categorizer = NewDefaultCategorizer()
	}
	if svc.clock == nil {
		svc.clock = clock.Real()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// CreateTicket categorizes and stores a new Open ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.UserEmail)
	description := input.Description

	missing := []string{}
	if name == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(description) == "" {
		missing = append(missing, "description")
	}
	if email == "" {
		missing = append(missing, "user_email")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewInvalidArgument("name, description, user_email required", map[string]any{"missing": missing})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewInvalidArgument("invalid user_email", map[string]any{"user_email": email})
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, invalidEnum("priority", string(priority), domain.TicketPriorities)
	}

	now := s.clock.Now()
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		Name:        name,
		UserEmail:   email,
		Description: description,
		Category:    s.categorizer.Categorize(description),
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("category", string(ticket.Category)))

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Category: ticket.Category,
			Priority: ticket.Priority,
			Status:   ticket.Status,
		},
	})
	return ticket, nil
}

// GetTicket returns a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	return ticket, nil
}

// ListTickets returns tickets matching every supplied constraint in insertion order.
func (s *TicketService) ListTickets(ctx context.Context, filter ListFilter) ([]domain.Ticket, error) {
	repoFilter, err := parseListFilter(filter)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// UpdateStatus moves a ticket to status, stamping resolved_at on first resolution.
func (s *TicketService) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	return s.UpdateTicket(ctx, id, TicketPatch{Status: &status})
}

// UpdateTicket merges patch onto the ticket atomically.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, patch TicketPatch) (*domain.Ticket, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return s.GetTicket(ctx, id)
	}

	var oldStatus domain.TicketStatus
	fields := []string{}
	ticket, err := s.tickets.Update(ctx, id, func(t *domain.Ticket) error {
		now := s.clock.Now()
		oldStatus = t.Status
		if patch.Status != nil {
			t.MarkStatus(*patch.Status, now)
			fields = append(fields, "status")
		}
		if patch.Category != nil {
			t.Category = *patch.Category
			fields = append(fields, "category")
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
			fields = append(fields, "priority")
		}
		if patch.AgentAssigned != nil {
			agent := strings.TrimSpace(*patch.AgentAssigned)
			if agent == "" {
				t.AgentAssigned = nil
			} else {
				t.AgentAssigned = &agent
			}
			fields = append(fields, "agent_assigned")
		}
		if patch.Response != nil {
			response := strings.TrimSpace(*patch.Response)
			t.Response = &response
			fields = append(fields, "response")
		}
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, id)
	}

	if patch.Status != nil && oldStatus != ticket.Status {
		s.logger.Info("ticket status changed",
			zap.String("ticket_id", ticket.ID),
			zap.String("old_status", string(oldStatus)),
			zap.String("new_status", string(ticket.Status)))
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus:  oldStatus,
				NewStatus:  ticket.Status,
				ResolvedAt: ticket.ResolvedAt,
			},
		})
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload:  events.TicketUpdatedPayload{Fields: fields},
	})
	return ticket, nil
}

// AttachResponse stores a response on the ticket, replacing any previous one.
func (s *TicketService) AttachResponse(ctx context.Context, id, response string) (*domain.Ticket, error) {
	return s.attachResponse(ctx, id, response, false)
}

// AttachResponseIfEmpty stores a response only when the ticket has none yet.
// It returns ErrResponseExists when a response is already present at write time.
func (s *TicketService) AttachResponseIfEmpty(ctx context.Context, id, response string) (*domain.Ticket, error) {
	return s.attachResponse(ctx, id, response, true)
}

func (s *TicketService) attachResponse(ctx context.Context, id, response string, onlyIfEmpty bool) (*domain.Ticket, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, apperrors.NewInvalidArgument("response required", nil)
	}
	ticket, err := s.tickets.Update(ctx, id, func(t *domain.Ticket) error {
		if onlyIfEmpty && t.Response != nil && *t.Response != "" {
			return ErrResponseExists
		}
		t.Response = &response
		t.UpdatedAt = s.clock.Now()
		return nil
	})
	if errors.Is(err, ErrResponseExists) {
		return nil, err
	}
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketResponseAttached,
		TicketID: ticket.ID,
		Payload: events.TicketResponseAttachedPayload{
			ResponsePreview: stringPreview(response, 120),
		},
	})
	return ticket, nil
}

// DeleteTicket removes the ticket from the store entirely.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		return mapRepoError(err, id)
	}
	s.logger.Info("ticket deleted", zap.String("ticket_id", id))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
	})
	return nil
}

func parseListFilter(filter ListFilter) (repository.TicketFilter, error) {
	out := repository.TicketFilter{}
	if filter.Status != "" {
		status := domain.TicketStatus(filter.Status)
		if !status.Valid() {
			return out, invalidEnum("status", filter.Status, domain.TicketStatuses)
		}
		out.Status = status
	}
	if filter.Category != "" {
		category := domain.TicketCategory(filter.Category)
		if !category.Valid() {
			return out, invalidEnum("category", filter.Category, domain.TicketCategories)
		}
		out.Category = category
	}
	return out, nil
}

func validatePatch(patch TicketPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return invalidEnum("status", string(*patch.Status), domain.TicketStatuses)
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return invalidEnum("category", string(*patch.Category), domain.TicketCategories)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return invalidEnum("priority", string(*patch.Priority), domain.TicketPriorities)
	}
	return nil
}

func invalidEnum[T ~string](field, value string, allowed []T) error {
	options := make([]string, 0, len(allowed))
	for _, v := range allowed {
		options = append(options, string(v))
	}
	return apperrors.NewInvalidArgument("invalid "+field, map[string]any{
		field:     value,
		"allowed": options,
	})
}

func mapRepoError(err error, id string) error {
	if errors.Is(err, repository.ErrTicketNotFound) {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return apperrors.NewInternalError(err)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

// stringPreview truncates on a rune boundary so the result stays valid UTF-8.
func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) <= max {
		return body
	}
	runes := []rune(body)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
