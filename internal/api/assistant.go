package api

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/uppa/uppa_core/internal/middleware"
	"github.com/uppa/uppa_core/internal/store"
)

// AskAssistantRequest is the assistant question payload
type AskAssistantRequest struct {
	BusLineID string `json:"bus_line_id,omitempty"`
	Question  string `json:"question"`
}

// AskAssistant handles POST /v2/assistant: it records the question in
// the session state, asks the assistant and feeds the answer back.
func (h *Handler) AskAssistant(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	var req AskAssistantRequest
	if err := c.BodyParser(&req); err != nil || req.Question == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "question is required",
		})
	}

	sess.Store.Dispatch(store.SetAssistantQuestion{Text: req.Question})
	sess.Store.Dispatch(store.SetAssistantLoading{Loading: true})

	if h.Assistant == nil {
		sess.Store.Dispatch(store.SetAssistantLoading{Loading: false})
		return c.Status(503).JSON(fiber.Map{
			"error": "El asistente no está disponible.",
		})
	}

	answer, err := h.Assistant.Ask(c.Context(), req.BusLineID, req.Question)
	if err != nil {
		log.Printf("Assistant question failed: %v", err)
		sess.Store.Dispatch(store.SetAssistantLoading{Loading: false})
		next := sess.Store.Dispatch(store.SetError{Message: "El asistente no pudo responder."})
		return c.Status(502).JSON(fiber.Map{
			"error": next.Error,
		})
	}

	next := sess.Store.Dispatch(store.SetAssistantResponse{Text: answer})
	return c.JSON(fiber.Map{
		"question": next.AssistantQuestion,
		"response": next.AssistantResponse,
	})
}

// SummarizeRoute handles POST /v2/route/summary for the current route
func (h *Handler) SummarizeRoute(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	state := sess.Store.State()
	if state.RouteResult == nil || state.RouteResult.Error != "" {
		return c.Status(409).JSON(fiber.Map{
			"error": "no route to summarize",
		})
	}

	sess.Store.Dispatch(store.SetRouteSummaryLoading{Loading: true})

	if h.Assistant == nil {
		sess.Store.Dispatch(store.SetRouteSummaryLoading{Loading: false})
		return c.Status(503).JSON(fiber.Map{
			"error": "El asistente no está disponible.",
		})
	}

	summary, err := h.Assistant.SummarizeRoute(c.Context(), *state.RouteResult)
	if err != nil {
		log.Printf("Route summary failed: %v", err)
		sess.Store.Dispatch(store.SetRouteSummaryLoading{Loading: false})
		return c.Status(502).JSON(fiber.Map{
			"error": "No se pudo generar el resumen.",
		})
	}

	next := sess.Store.Dispatch(store.SetRouteSummary{Text: summary})
	return c.JSON(fiber.Map{
		"summary": next.RouteSummary,
	})
}
