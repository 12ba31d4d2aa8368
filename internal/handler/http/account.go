package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Hetav2211/Frontend-Codac/internal/api"
	"github.com/Hetav2211/Frontend-Codac/internal/domain"
	"github.com/Hetav2211/Frontend-Codac/internal/room"
	"github.com/Hetav2211/Frontend-Codac/internal/session"
)

// AccountHandler fronts the backend account endpoints and keeps the local
// session store in sync with their results.
type AccountHandler struct {
	api   *api.Client
	store *session.Store
	ctrl  *room.Controller
	log   *logrus.Logger
}

func NewAccountHandler(client *api.Client, store *session.Store, ctrl *room.Controller, log *logrus.Logger) *AccountHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AccountHandler{api: client, store: store, ctrl: ctrl, log: log}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Signup registers a new account and caches it locally.
func (h *AccountHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "name, email and password are required")
		return
	}
	acct, token, err := h.api.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		HandleBackendError(c, err)
		return
	}
	h.store.SaveAccount(acct, token)
	h.ctrl.SetPlan(acct.Plan)
	h.log.WithField("email", req.Email).Info("Handler.Signup: account created")
	SuccessResponse(c, http.StatusCreated, gin.H{"user": acct})
}

type feedbackRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
	Rating  int    `json:"rating"`
}

// Feedback forwards a feedback entry to the backend.
func (h *AccountHandler) Feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "name, email and message are required")
		return
	}
	if err := h.api.SubmitFeedback(c.Request.Context(), req.Name, req.Email, req.Message, req.Rating); err != nil {
		HandleBackendError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Thank you for your feedback!"})
}

type checkoutRequest struct {
	Plan  string `json:"plan" binding:"required"`
	Price int    `json:"price"`
}

// Checkout starts a plan change. The Free plan needs no payment and is
// applied immediately; paid plans get a provider checkout session, with
// the chosen plan stashed locally until the redirect completes.
func (h *AccountHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "plan is required")
		return
	}
	plan := domain.ParsePlan(req.Plan)

	if !plan.Paid() {
		acct, _ := h.store.Account()
		userID := ""
		if acct != nil {
			userID = acct.ID
		}
		if err := h.api.UpdatePlan(c.Request.Context(), userID, plan); err != nil {
			HandleBackendError(c, err)
			return
		}
		h.store.SavePlan(plan)
		h.ctrl.SetPlan(plan)
		SuccessResponse(c, http.StatusOK, gin.H{"message": "Free plan selected! No payment required."})
		return
	}

	sessionID, err := h.api.CreateCheckoutSession(c.Request.Context(), plan, req.Price)
	if err != nil {
		HandleBackendError(c, err)
		return
	}
	h.store.SaveLastSelectedPlan(plan)
	SuccessResponse(c, http.StatusOK, gin.H{"sessionId": sessionID})
}

type planRequest struct {
	Plan string `json:"plan"`
}

// Plan finalizes a plan change after checkout. When the body names no
// plan, the one stashed before the redirect is used.
func (h *AccountHandler) Plan(c *gin.Context) {
	var req planRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			ErrorResponse(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	plan := domain.ParsePlan(req.Plan)
	if req.Plan == "" {
		stashed, ok := h.store.LastSelectedPlan()
		if !ok {
			ErrorResponse(c, http.StatusBadRequest, "no plan selected")
			return
		}
		plan = stashed
	}

	acct, _ := h.store.Account()
	userID := ""
	if acct != nil {
		userID = acct.ID
	}
	if err := h.api.UpdatePlan(c.Request.Context(), userID, plan); err != nil {
		HandleBackendError(c, err)
		return
	}
	h.store.SavePlan(plan)
	h.store.ClearLastSelectedPlan()
	h.ctrl.SetPlan(plan)
	h.log.WithField("plan", plan).Info("Handler.Plan: plan updated")
	SuccessResponse(c, http.StatusOK, gin.H{"plan": plan})
}

type aiChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// AIChat forwards one prompt to the assistant, Team plan only.
func (h *AccountHandler) AIChat(c *gin.Context) {
	var req aiChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "message is required")
		return
	}
	state := h.ctrl.State()
	if !state.Plan.ChatAllowed() {
		ErrorResponse(c, http.StatusForbidden, "AI Chatbot is available only for Team plan users.")
		return
	}
	reply, err := h.api.AIChat(c.Request.Context(), req.Message)
	if err != nil {
		HandleBackendError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"reply": reply})
}
