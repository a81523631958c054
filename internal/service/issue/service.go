// Package issue owns the reported-issue lifecycle: who may move an issue
// between statuses, the append-only transition history, and the pure query
// that matches issues to county representatives.
//
// There is deliberately no transition graph: any of the seven statuses is
// reachable from any other, and only the role/ownership guards decide whether
// an actor may transition at all.
package issue

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/repository"
	"sauti-jamii/internal/service/notifier"
)

type Service interface {
	Create(ctx context.Context, reporter *domain.User, input domain.CreateIssueInput) (*domain.Issue, error)
	// Assign sets the assignee and forces the status to acknowledged.
	// Representatives always self-assign; admins name an explicit assignee.
	Assign(ctx context.Context, actor *domain.User, issueID uuid.UUID, input domain.AssignIssueInput) (*domain.Issue, error)
	Transition(ctx context.Context, actor *domain.User, issueID uuid.UUID, input domain.TransitionIssueInput) (*domain.Issue, error)
	History(ctx context.Context, issueID uuid.UUID) ([]domain.IssueStatusHistory, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error)
	List(ctx context.Context, filter domain.IssueFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Issue], error)
	// MatchRepresentatives is a pure query with no side effects.
	MatchRepresentatives(ctx context.Context, county, category string) ([]domain.User, error)
}

type service struct {
	issueRepo   repository.IssueRepository
	historyRepo repository.IssueHistoryRepository
	userRepo    repository.UserRepository
	notifier    notifier.Service
}

func NewService(
	issueRepo repository.IssueRepository,
	historyRepo repository.IssueHistoryRepository,
	userRepo repository.UserRepository,
	notifierSvc notifier.Service,
) Service {
	return &service{
		issueRepo:   issueRepo,
		historyRepo: historyRepo,
		userRepo:    userRepo,
		notifier:    notifierSvc,
	}
}

func (s *service) Create(ctx context.Context, reporter *domain.User, input domain.CreateIssueInput) (*domain.Issue, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(input.County) == "" {
		return nil, fmt.Errorf("%w: county is required", domain.ErrInvalidInput)
	}

	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}

	issue := &domain.Issue{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Status:      domain.IssueReported,
		Priority:    priority,
		ReporterID:  reporter.ID,
		Location:    input.Location,
		County:      input.County,
		Ward:        input.Ward,
	}

	if err := s.issueRepo.Create(ctx, issue); err != nil {
		return nil, err
	}

	s.appendHistory(ctx, issue.ID, domain.IssueReported, reporter.ID, nil)

	return issue, nil
}

func (s *service) Assign(ctx context.Context, actor *domain.User, issueID uuid.UUID, input domain.AssignIssueInput) (*domain.Issue, error) {
	issue, err := s.issueRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if !actor.CanAssignIssue() {
		return nil, fmt.Errorf("%w: only representatives and admins may assign issues", domain.ErrForbidden)
	}

	var assigneeID uuid.UUID
	switch {
	case actor.IsRepresentative():
		// Representatives self-assign regardless of any requested id.
		assigneeID = actor.ID
	case input.AssigneeID == nil || *input.AssigneeID == uuid.Nil:
		return nil, fmt.Errorf("%w: assignee_id is required", domain.ErrInvalidInput)
	default:
		assigneeID = *input.AssigneeID
	}

	if err := s.issueRepo.UpdateAssignment(ctx, issueID, assigneeID, domain.IssueAcknowledged); err != nil {
		return nil, err
	}

	s.appendHistory(ctx, issueID, domain.IssueAcknowledged, actor.ID, nil)

	issue, err = s.issueRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if issue.ReporterID != actor.ID {
		s.notifyReporter(ctx, issue, domain.NotifIssueAssigned, "Your issue was acknowledged",
			fmt.Sprintf("%q has been assigned and acknowledged.", issue.Title))
	}

	return issue, nil
}

func (s *service) Transition(ctx context.Context, actor *domain.User, issueID uuid.UUID, input domain.TransitionIssueInput) (*domain.Issue, error) {
	if !input.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, input.Status)
	}

	issue, err := s.issueRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if !actor.CanTransitionIssue(issue) {
		return nil, fmt.Errorf("%w: not allowed to change the status of this issue", domain.ErrForbidden)
	}

	if err := s.issueRepo.UpdateStatus(ctx, issueID, input.Status); err != nil {
		return nil, err
	}

	s.appendHistory(ctx, issueID, input.Status, actor.ID, input.Note)

	issue, err = s.issueRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if issue.ReporterID != actor.ID {
		s.notifyReporter(ctx, issue, domain.NotifIssueStatus,
			fmt.Sprintf("Issue status changed to %s", issue.Status),
			fmt.Sprintf("%q is now %s.", issue.Title, issue.Status))
	}

	return issue, nil
}

func (s *service) History(ctx context.Context, issueID uuid.UUID) ([]domain.IssueStatusHistory, error) {
	if _, err := s.issueRepo.GetByID(ctx, issueID); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByIssue(ctx, issueID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error) {
	return s.issueRepo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter domain.IssueFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Issue], error) {
	issues, total, err := s.issueRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Issue]{}, err
	}
	return domain.NewPaginatedResponse(issues, params.Page, params.PageSize, total), nil
}

func (s *service) MatchRepresentatives(ctx context.Context, county, category string) ([]domain.User, error) {
	if strings.TrimSpace(county) == "" {
		return nil, fmt.Errorf("%w: county is required", domain.ErrInvalidInput)
	}

	// A category with no mapped tags matches every representative in county.
	tags := domain.CategorySpecializations[strings.ToLower(strings.TrimSpace(category))]
	return s.userRepo.FindRepresentatives(ctx, county, tags)
}

// appendHistory records a transition in the audit trail. The status column is
// authoritative; a failed history append is logged, not surfaced, so a crash
// between the two writes leaves valid state.
func (s *service) appendHistory(ctx context.Context, issueID uuid.UUID, status domain.IssueStatus, actorID uuid.UUID, note *string) {
	entry := &domain.IssueStatusHistory{
		ID:      uuid.New(),
		IssueID: issueID,
		Status:  status,
		ActorID: actorID,
		Note:    note,
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		log.Printf("issue: failed to append status history for %s: %v", issueID, err)
	}
}

func (s *service) notifyReporter(ctx context.Context, issue *domain.Issue, notifType domain.NotificationType, title, body string) {
	data := map[string]string{
		"issue_id": issue.ID.String(),
		"status":   string(issue.Status),
	}
	if issue.AssigneeID != nil {
		data["assignee_id"] = issue.AssigneeID.String()
	}

	if _, err := s.notifier.Notify(ctx, issue.ReporterID, domain.NotificationInput{
		Type:  notifType,
		Title: title,
		Body:  body,
		Data:  data,
	}); err != nil {
		log.Printf("issue: failed to notify reporter %s: %v", issue.ReporterID, err)
	}
}
