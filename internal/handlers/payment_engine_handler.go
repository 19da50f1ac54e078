package handlers

import (
	"encoding/json"
	"net/http"

	"cohort-backend/internal/engineerrors"
	"cohort-backend/internal/middleware"
	"cohort-backend/internal/models"
	"cohort-backend/internal/services"
	"cohort-backend/pkg/utils"

	"go.uber.org/zap"
)

type PaymentEngineHandler struct {
	engine *services.PaymentEngineService
	log    *zap.Logger
}

func NewPaymentEngineHandler(engine *services.PaymentEngineService, log *zap.Logger) *PaymentEngineHandler {
	return &PaymentEngineHandler{engine: engine, log: log}
}

// Execute handles POST /api/payments/engine. Every operation goes through the
// single action-dispatched contract.
func (h *PaymentEngineHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req models.EngineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if requiresAdmin(req.Action) {
		role, _ := middleware.GetRoleFromContext(r.Context())
		if role != "admin" {
			utils.Error(w, http.StatusForbidden, "Forbidden: Insufficient permissions")
			return
		}
		adminID, _ := middleware.GetUserIDFromContext(r.Context())
		h.log.Info("admin engine action",
			zap.String("action", string(req.Action)),
			zap.String("admin_id", adminID))
	}

	resp, err := h.engine.Execute(r.Context(), &req)
	if err != nil {
		h.writeError(w, string(req.Action), err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// requiresAdmin marks the actions that mutate verification state or config.
func requiresAdmin(action models.EngineAction) bool {
	return action == models.ActionAdminPartialApproval || action == models.ActionPartialConfig
}

// writeError maps the engine error taxonomy to HTTP statuses. The envelope
// mirrors the success shape so clients always parse the same document.
func (h *PaymentEngineHandler) writeError(w http.ResponseWriter, action string, err error) {
	status := http.StatusInternalServerError
	switch {
	case engineerrors.IsValidation(err), engineerrors.IsConfiguration(err):
		status = http.StatusBadRequest
	case engineerrors.IsNotFound(err):
		status = http.StatusNotFound
	case engineerrors.IsConcurrencyConflict(err):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.log.Error("engine request failed", zap.String("action", action), zap.Error(err))
		utils.JSON(w, status, &models.EngineResponse{Success: false, Error: "Internal server error"})
		return
	}

	h.log.Warn("engine request rejected", zap.String("action", action), zap.Error(err))
	utils.JSON(w, status, &models.EngineResponse{Success: false, Error: err.Error()})
}
