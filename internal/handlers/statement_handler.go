package handlers

import (
	"fmt"
	"net/http"

	"cohort-backend/internal/engineerrors"
	"cohort-backend/internal/models"
	"cohort-backend/internal/services"
	"cohort-backend/pkg/utils"

	"go.uber.org/zap"
)

type StatementHandler struct {
	engine     *services.PaymentEngineService
	statements *services.StatementService
	log        *zap.Logger
}

func NewStatementHandler(engine *services.PaymentEngineService, statements *services.StatementService, log *zap.Logger) *StatementHandler {
	return &StatementHandler{engine: engine, statements: statements, log: log}
}

// GetStatement handles GET /api/payments/statement and streams a PDF of the
// computed fee schedule.
func (h *StatementHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := &models.EngineRequest{
		CohortID:      q.Get("cohortId"),
		StudentID:     q.Get("studentId"),
		PaymentPlan:   models.PaymentPlan(q.Get("paymentPlan")),
		ScholarshipID: q.Get("scholarshipId"),
	}

	breakdown, cohort, err := h.engine.ComputeForStatement(r.Context(), req)
	if err != nil {
		switch {
		case engineerrors.IsValidation(err), engineerrors.IsConfiguration(err):
			utils.Error(w, http.StatusBadRequest, err.Error())
		case engineerrors.IsNotFound(err):
			utils.Error(w, http.StatusNotFound, err.Error())
		default:
			h.log.Error("statement computation failed", zap.Error(err))
			utils.Error(w, http.StatusInternalServerError, "Failed to generate statement")
		}
		return
	}

	pdfBytes, err := h.statements.GenerateStatement(breakdown, cohort.Name, req.StudentID, req.PaymentPlan)
	if err != nil {
		h.log.Error("statement rendering failed", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "Failed to generate statement")
		return
	}

	filename := fmt.Sprintf("fee-statement-%s.pdf", req.CohortID)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(pdfBytes)
}
