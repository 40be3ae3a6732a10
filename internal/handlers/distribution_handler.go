package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"referral-service/internal/middleware"
	"referral-service/internal/services"
	"referral-service/internal/worker"
	"referral-service/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

type DistributionHandler struct {
	Invitations *services.InvitationService
	Referrals   *services.ReferralService
	Commissions *services.CommissionService
	Withdrawals *services.WithdrawalService
	Queue       *asynq.Client
}

func NewDistributionHandler(
	invitations *services.InvitationService,
	referrals *services.ReferralService,
	commissions *services.CommissionService,
	withdrawals *services.WithdrawalService,
	queue *asynq.Client,
) *DistributionHandler {
	return &DistributionHandler{
		Invitations: invitations,
		Referrals:   referrals,
		Commissions: commissions,
		Withdrawals: withdrawals,
		Queue:       queue,
	}
}

func respondError(c *gin.Context, err error) {
	appErr := common.AsError(err)
	if appErr.Kind == common.KindInternal {
		log.Printf("internal error on %s: %v", c.FullPath(), appErr)
	}
	c.JSON(appErr.HTTPStatus(), common.NewErrorResponse(appErr))
}

// GET /api/distribution/my-code
func (h *DistributionHandler) MyCode(c *gin.Context) {
	userID := middleware.UserID(c)

	code, err := h.Invitations.GetOrCreateCode(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	base := os.Getenv("INVITATION_URL_BASE")
	if base == "" {
		base = "http://localhost:8080/register"
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"invitation_code": code,
		"invitation_url":  fmt.Sprintf("%s?code=%s", base, code),
	}, "Invitation code fetched"))
}

type BindInviterRequest struct {
	InviterCode string `json:"inviter_code"`
}

// POST /api/distribution/bind-inviter
func (h *DistributionHandler) BindInviter(c *gin.Context) {
	userID := middleware.UserID(c)

	var req BindInviterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewValidationError("invalid request body"))
		return
	}

	if err := h.Referrals.Bind(userID, req.InviterCode); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Inviter bound"))
}

// GET /api/distribution/my-stats
func (h *DistributionHandler) MyStats(c *gin.Context) {
	userID := middleware.UserID(c)

	stats, err := h.Commissions.MyStats(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(stats, "Distribution stats fetched"))
}

// GET /api/distribution/my-team?level=1..3
func (h *DistributionHandler) MyTeam(c *gin.Context) {
	userID := middleware.UserID(c)

	level := 1
	if raw := c.Query("level"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, common.NewValidationError("level must be a number"))
			return
		}
		level = parsed
	}

	team, err := h.Referrals.Team(userID, level)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(team, "Team fetched"))
}

type WithdrawRequest struct {
	Amount            float64 `json:"amount"`
	WithdrawalType    string  `json:"withdrawal_type"`
	WithdrawalAccount string  `json:"withdrawal_account"`
	AccountName       string  `json:"account_name"`
}

// POST /api/distribution/withdraw
func (h *DistributionHandler) Withdraw(c *gin.Context) {
	userID := middleware.UserID(c)

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewValidationError("invalid request body"))
		return
	}

	result, err := h.Withdrawals.Request(services.WithdrawRequestDTO{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        req.WithdrawalType,
		Account:     req.WithdrawalAccount,
		AccountName: req.AccountName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(result, "Withdrawal request submitted"))
}

// GET /api/distribution/withdrawals
func (h *DistributionHandler) ListWithdrawals(c *gin.Context) {
	userID := middleware.UserID(c)

	withdrawals, err := h.Withdrawals.ListWithdrawals(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(withdrawals, "Withdrawal requests fetched"))
}

// GET /internal/withdrawals?page=&limit= lists pending requests for the
// admin review queue.
func (h *DistributionHandler) PendingWithdrawals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.Withdrawals.ListPending(page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type ProcessWithdrawalRequest struct {
	Action  string `json:"action" binding:"required"`
	AdminID int    `json:"admin_id" binding:"required"`
	Notes   string `json:"notes"`
}

// POST /internal/withdrawals/:id/process applies the admin decision. Approve
// settles frozen funds as withdrawn; reject returns them to available.
func (h *DistributionHandler) ProcessWithdrawal(c *gin.Context) {
	id := c.Param("id")

	var req ProcessWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewValidationError("action and admin_id are required"))
		return
	}

	var err error
	switch req.Action {
	case "approve":
		err = h.Withdrawals.Approve(id, req.AdminID, req.Notes)
	case "reject":
		err = h.Withdrawals.Reject(id, req.AdminID, req.Notes)
	default:
		err = common.NewValidationError("action must be approve or reject")
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Withdrawal processed"))
}

type OrderSettledRequest struct {
	OrderID     int     `json:"order_id" binding:"required"`
	BuyerID     int     `json:"buyer_id" binding:"required"`
	OrderAmount float64 `json:"order_amount" binding:"required"`
}

// POST /internal/distributions enqueues a commission distribution for a paid
// order. Called by the payment service; the queue retries on failure and the
// engine's idempotency guard makes redelivery safe.
func (h *DistributionHandler) OrderSettled(c *gin.Context) {
	var req OrderSettledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewValidationError("order_id, buyer_id and order_amount are required"))
		return
	}

	task, err := worker.NewDistributeTask(worker.DistributePayload{
		OrderID:     req.OrderID,
		BuyerID:     req.BuyerID,
		OrderAmount: req.OrderAmount,
	})
	if err != nil {
		respondError(c, common.NewInternalError("failed to build distribution task", err))
		return
	}

	if _, err := h.Queue.Enqueue(task, asynq.MaxRetry(10)); err != nil {
		respondError(c, common.NewInternalError("failed to enqueue distribution task", err))
		return
	}

	c.JSON(http.StatusAccepted, common.NewSuccessResponse(nil, "Distribution queued"))
}
