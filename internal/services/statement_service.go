package services

import (
	"bytes"
	"fmt"

	"cohort-backend/internal/models"
	"cohort-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// StatementService renders a fee-breakdown statement as a PDF for admins
// and students to download.
type StatementService struct{}

func NewStatementService() *StatementService {
	return &StatementService{}
}

func (s *StatementService) GenerateStatement(b *models.Breakdown, cohortName, studentID string, plan models.PaymentPlan) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Fee Breakdown Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// Context box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Program Details", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Cohort: %s", cohortName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Plan: %s", plan), "RB", 1, "L", false, 0, "")
	if studentID != "" {
		pdf.CellFormat(190, 7, fmt.Sprintf("Student: %s", studentID), "LRB", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// Admission fee
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Admission Fee", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(63, 7, fmt.Sprintf("Base: Rs. %.2f", b.AdmissionFee.BaseAmount), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 7, fmt.Sprintf("GST: Rs. %.2f", b.AdmissionFee.GSTAmount), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 7, fmt.Sprintf("Payable: Rs. %.0f", b.AdmissionFee.TotalPayable), "1", 1, "C", false, 0, "")
	pdf.Ln(3)

	if b.OneShotPayment != nil {
		s.renderOneShot(pdf, b.OneShotPayment)
	}

	for _, sem := range b.Semesters {
		s.renderSemester(pdf, &sem)
	}

	// Overall summary
	pdf.Ln(2)
	pdf.SetFillColor(200, 255, 200)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(190, 10, fmt.Sprintf("Total Amount Payable: Rs. %.0f", b.OverallSummary.TotalAmountPayable), "1", 1, "C", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(63, 7, fmt.Sprintf("Total GST: Rs. %.2f", b.OverallSummary.TotalGST), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 7, fmt.Sprintf("Scholarship: Rs. %.2f", b.OverallSummary.TotalScholarship), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 7, fmt.Sprintf("Discount: Rs. %.2f", b.OverallSummary.TotalDiscount), "1", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *StatementService) renderOneShot(pdf *gofpdf.Fpdf, o *models.OneShotPayment) {
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "One-Shot Payment", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(35, 7, "Due Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(32, 7, "Base", "1", 0, "C", true, 0, "")
	pdf.CellFormat(31, 7, "Discount", "1", 0, "C", true, 0, "")
	pdf.CellFormat(31, 7, "Scholarship", "1", 0, "C", true, 0, "")
	pdf.CellFormat(26, 7, "GST", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Payable", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(35, 6, o.PaymentDate, "1", 0, "C", false, 0, "")
	pdf.CellFormat(32, 6, fmt.Sprintf("%.2f", o.BaseAmount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(31, 6, fmt.Sprintf("%.2f", o.DiscountAmount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(31, 6, fmt.Sprintf("%.2f", o.ScholarshipAmount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(26, 6, fmt.Sprintf("%.2f", o.GSTAmount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, fmt.Sprintf("%.0f", o.AmountPayable), "1", 1, "R", false, 0, "")
	pdf.Ln(3)
}

func (s *StatementService) renderSemester(pdf *gofpdf.Fpdf, sem *models.SemesterView) {
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, fmt.Sprintf("Semester %d", sem.SemesterNumber), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(15, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Due Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(32, 7, "Base", "1", 0, "C", true, 0, "")
	pdf.CellFormat(31, 7, "Discount", "1", 0, "C", true, 0, "")
	pdf.CellFormat(31, 7, "Scholarship", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "GST", "1", 0, "C", true, 0, "")
	pdf.CellFormat(26, 7, "Payable", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, inst := range sem.Instalments {
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", inst.InstallmentNumber), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, inst.PaymentDate, "1", 0, "C", false, 0, "")
		pdf.CellFormat(32, 6, fmt.Sprintf("%.2f", inst.BaseAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(31, 6, fmt.Sprintf("%.2f", inst.DiscountAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(31, 6, fmt.Sprintf("%.2f", inst.ScholarshipAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%.2f", inst.GSTAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(26, 6, fmt.Sprintf("%.0f", inst.AmountPayable), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(164, 7, "Semester Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(26, 7, fmt.Sprintf("%.0f", sem.Total.TotalPayable), "1", 1, "R", false, 0, "")
	pdf.Ln(3)
}
