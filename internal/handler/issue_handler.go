package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/middleware"
	"sauti-jamii/internal/service/issue"
)

type IssueHandler struct {
	issueService issue.Service
}

func NewIssueHandler(issueService issue.Service) *IssueHandler {
	return &IssueHandler{issueService: issueService}
}

func (h *IssueHandler) Create(c *fiber.Ctx) error {
	actor := middleware.GetCurrentUser(c)
	if actor == nil {
		return middleware.Unauthorized("User not found")
	}

	var input domain.CreateIssueInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	created, err := h.issueService.Create(c.Context(), actor, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *IssueHandler) Get(c *fiber.Ctx) error {
	issueID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid issue ID")
	}

	found, err := h.issueService.GetByID(c.Context(), issueID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *IssueHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	var filter domain.IssueFilter
	if v := c.Query("reporter_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return middleware.BadRequest("Invalid reporter_id")
		}
		filter.ReporterID = &id
	}
	if v := c.Query("assignee_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return middleware.BadRequest("Invalid assignee_id")
		}
		filter.AssigneeID = &id
	}
	if v := c.Query("county"); v != "" {
		filter.County = &v
	}
	if v := c.Query("status"); v != "" {
		status := domain.IssueStatus(v)
		if !status.IsValid() {
			return middleware.BadRequest("Invalid status filter")
		}
		filter.Status = &status
	}

	result, err := h.issueService.List(c.Context(), filter, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *IssueHandler) Assign(c *fiber.Ctx) error {
	actor := middleware.GetCurrentUser(c)
	if actor == nil {
		return middleware.Unauthorized("User not found")
	}

	issueID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid issue ID")
	}

	var input domain.AssignIssueInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.issueService.Assign(c.Context(), actor, issueID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *IssueHandler) Transition(c *fiber.Ctx) error {
	actor := middleware.GetCurrentUser(c)
	if actor == nil {
		return middleware.Unauthorized("User not found")
	}

	issueID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid issue ID")
	}

	var input domain.TransitionIssueInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.issueService.Transition(c.Context(), actor, issueID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *IssueHandler) History(c *fiber.Ctx) error {
	issueID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid issue ID")
	}

	entries, err := h.issueService.History(c.Context(), issueID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": entries})
}

func (h *IssueHandler) MatchRepresentatives(c *fiber.Ctx) error {
	county := c.Query("county")
	category := c.Query("category")

	reps, err := h.issueService.MatchRepresentatives(c.Context(), county, category)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": reps})
}
