package services

import (
	"math"

	"cohort-backend/internal/engineerrors"
	"cohort-backend/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BreakdownCalculator is the core numeric engine. It is pure: given a fee
// structure, a plan and a resolved scholarship it always produces the same
// breakdown, so it is safe to call concurrently and its output is cacheable.
type BreakdownCalculator struct {
	split InstallmentSplitStrategy
	log   *zap.Logger
}

func NewBreakdownCalculator(split InstallmentSplitStrategy, log *zap.Logger) *BreakdownCalculator {
	if split == nil {
		split = FrontLoadedSplit{}
	}
	return &BreakdownCalculator{split: split, log: log}
}

// Calculate builds the unreconciled, undated schedule. Payment dates are
// assigned afterwards by the date scheduler; statuses by the reconciler.
func (c *BreakdownCalculator) Calculate(fs *models.FeeStructure, plan models.PaymentPlan, sch *models.ResolvedScholarship) (*models.Breakdown, error) {
	if fs == nil {
		return nil, engineerrors.NewConfiguration("fee structure is required")
	}
	if fs.TotalProgramFee <= 0 || math.IsNaN(fs.TotalProgramFee) || math.IsInf(fs.TotalProgramFee, 0) {
		return nil, engineerrors.NewConfiguration("total_program_fee is missing or invalid")
	}
	if fs.AdmissionFee < 0 || math.IsNaN(fs.AdmissionFee) || math.IsInf(fs.AdmissionFee, 0) {
		return nil, engineerrors.NewConfiguration("admission_fee is missing or invalid")
	}
	if fs.NumberOfSemesters < 1 {
		return nil, engineerrors.NewConfiguration("number_of_semesters must be at least 1")
	}
	if fs.InstalmentsPerSemester < 1 {
		return nil, engineerrors.NewConfiguration("instalments_per_semester must be at least 1")
	}

	schPct := decimal.Zero
	schAmount := decimal.Zero
	if sch != nil {
		schPct = money(sch.TotalPercentage)
		schAmount = money(sch.Amount)
	}

	// Admission fee is always GST-inclusive, whatever the program-fee mode.
	admTotal := money(fs.AdmissionFee)
	admBase := extractBase(admTotal)
	admission := models.AdmissionFeeBlock{
		BaseAmount:   toFloat(admBase),
		GSTAmount:    toFloat(admTotal.Sub(admBase)),
		TotalPayable: clampZero(roundRupee(admTotal)).InexactFloat64(),
	}

	progTotal := money(fs.TotalProgramFee)
	progBase := progTotal
	if fs.ProgramFeeIncludesGST {
		progBase = extractBase(progTotal)
	}

	// The program-fee base net of admission is what the schedule distributes.
	distributable := progBase.Sub(admBase)
	oneShotPct := money(fs.OneShotDiscountPercentage)

	b := &models.Breakdown{AdmissionFee: admission}

	if plan == models.PaymentPlanOneShot {
		c.buildOneShot(b, distributable, oneShotPct, schPct)
	} else {
		if err := c.buildSemesters(b, fs, plan, distributable, oneShotPct, schAmount); err != nil {
			return nil, err
		}
	}

	c.summarize(b, fs)
	return b, nil
}

// buildOneShot: the one-shot discount and the scholarship (manual discount
// already folded into its percentage) both come off the pre-GST base, then
// GST is recomputed on the remainder.
func (c *BreakdownCalculator) buildOneShot(b *models.Breakdown, base, oneShotPct, schPct decimal.Decimal) {
	discount := roundMoney(percentOf(base, oneShotPct))
	scholarship := roundMoney(percentOf(base, schPct))

	remainder := clampZero(base.Sub(discount).Sub(scholarship))
	gst := roundMoney(remainder.Mul(gstRate))
	payable := clampZero(roundRupee(remainder.Add(gst)))

	b.OneShotPayment = &models.OneShotPayment{
		BaseAmount:        toFloat(base),
		GSTAmount:         toFloat(gst),
		DiscountAmount:    toFloat(discount),
		ScholarshipAmount: toFloat(scholarship),
		AmountPayable:     payable.InexactFloat64(),
	}
}

func (c *BreakdownCalculator) buildSemesters(b *models.Breakdown, fs *models.FeeStructure, plan models.PaymentPlan, distributable, oneShotPct, schAmount decimal.Decimal) error {
	numSem := fs.NumberOfSemesters
	instPerSem := fs.InstalmentsPerSemester
	if plan == models.PaymentPlanSemWise {
		instPerSem = 1
	}

	// The one-shot-style discount applies across plans, pro-rated evenly
	// over the schedule.
	crossDiscount := roundMoney(percentOf(distributable, oneShotPct))
	semGross := distributable.Div(decimal.NewFromInt(int64(numSem)))
	semFee := distributable.Sub(crossDiscount).Div(decimal.NewFromInt(int64(numSem)))
	semDiscount := crossDiscount.Div(decimal.NewFromInt(int64(numSem)))

	perSemScholarship := distributeScholarship(schAmount, semFee, numSem, fs.EqualScholarshipDistribution)

	shares := c.split.Shares(instPerSem)

	for s := 1; s <= numSem; s++ {
		sem := models.SemesterView{SemesterNumber: s}

		perInstScholarship := distributeWithinSemester(perSemScholarship[s-1], semFee, shares, fs.EqualScholarshipDistribution)

		var totals models.SemesterTotals
		totalPayable := decimal.Zero

		for i := 1; i <= instPerSem; i++ {
			share := shares[i-1]
			instBase := roundMoney(percentOf(semGross, share))
			instDiscount := roundMoney(semDiscount.Div(decimal.NewFromInt(int64(instPerSem))))
			instScholarship := perInstScholarship[i-1]

			net := clampZero(instBase.Sub(instDiscount).Sub(instScholarship))
			gst := roundMoney(net.Mul(gstRate))
			payable := clampZero(roundRupee(net.Add(gst)))

			sem.Instalments = append(sem.Instalments, models.InstallmentView{
				InstallmentID:     models.InstallmentKey(s, i),
				SemesterNumber:    s,
				InstallmentNumber: i,
				BaseAmount:        toFloat(instBase),
				GSTAmount:         toFloat(gst),
				ScholarshipAmount: toFloat(instScholarship),
				DiscountAmount:    toFloat(instDiscount),
				AmountPayable:     payable.InexactFloat64(),
			})

			totals.BaseAmount += toFloat(instBase)
			totals.GSTAmount += toFloat(gst)
			totals.ScholarshipAmount += toFloat(instScholarship)
			totals.DiscountAmount += toFloat(instDiscount)
			totalPayable = totalPayable.Add(payable)
		}

		totals.TotalPayable = totalPayable.InexactFloat64()
		sem.Total = totals
		b.Semesters = append(b.Semesters, sem)
	}

	return nil
}

// distributeScholarship allocates the scholarship amount across semesters.
// Equal distribution splits it evenly with the rounding remainder going to
// the last semester. The default consumes it greedily from the last semester
// backwards, each absorbing at most one semester's fee, so earlier semesters
// get nothing once it is exhausted.
func distributeScholarship(total, semFee decimal.Decimal, numSem int, equal bool) []decimal.Decimal {
	out := make([]decimal.Decimal, numSem)
	if total.LessThanOrEqual(decimal.Zero) {
		return out
	}

	if equal {
		each := roundMoney(total.Div(decimal.NewFromInt(int64(numSem))))
		used := decimal.Zero
		for i := 0; i < numSem-1; i++ {
			out[i] = each
			used = used.Add(each)
		}
		out[numSem-1] = total.Sub(used)
		return out
	}

	remaining := total
	for i := numSem - 1; i >= 0 && remaining.IsPositive(); i-- {
		take := minDecimal(remaining, roundMoney(semFee))
		out[i] = take
		remaining = remaining.Sub(take)
	}
	return out
}

// distributeWithinSemester mirrors the two semester-level policies at the
// installment level: proportional to the split pattern, or backwards from
// the last installment.
func distributeWithinSemester(semScholarship, semFee decimal.Decimal, shares []decimal.Decimal, equal bool) []decimal.Decimal {
	n := len(shares)
	out := make([]decimal.Decimal, n)
	if semScholarship.LessThanOrEqual(decimal.Zero) {
		return out
	}

	if equal {
		used := decimal.Zero
		for i := 0; i < n-1; i++ {
			out[i] = roundMoney(percentOf(semScholarship, shares[i]))
			used = used.Add(out[i])
		}
		out[n-1] = semScholarship.Sub(used)
		return out
	}

	remaining := semScholarship
	for i := n - 1; i >= 0 && remaining.IsPositive(); i-- {
		instFee := roundMoney(percentOf(semFee, shares[i]))
		take := minDecimal(remaining, instFee)
		out[i] = take
		remaining = remaining.Sub(take)
	}
	// Anything the per-installment fees could not absorb lands on the first
	// installment so the semester total stays conserved.
	if remaining.IsPositive() {
		out[0] = out[0].Add(remaining)
	}
	return out
}

func (c *BreakdownCalculator) summarize(b *models.Breakdown, fs *models.FeeStructure) {
	total := money(b.AdmissionFee.TotalPayable)
	gst := money(b.AdmissionFee.GSTAmount)
	scholarship := decimal.Zero
	discount := decimal.Zero

	for _, sem := range b.Semesters {
		total = total.Add(money(sem.Total.TotalPayable))
		gst = gst.Add(money(sem.Total.GSTAmount))
		scholarship = scholarship.Add(money(sem.Total.ScholarshipAmount))
		discount = discount.Add(money(sem.Total.DiscountAmount))
	}
	if b.OneShotPayment != nil {
		total = total.Add(money(b.OneShotPayment.AmountPayable))
		gst = gst.Add(money(b.OneShotPayment.GSTAmount))
		scholarship = scholarship.Add(money(b.OneShotPayment.ScholarshipAmount))
		discount = discount.Add(money(b.OneShotPayment.DiscountAmount))
	}

	b.OverallSummary = models.OverallSummary{
		TotalProgramFee:    fs.TotalProgramFee,
		AdmissionFee:       fs.AdmissionFee,
		TotalGST:           toFloat(gst),
		TotalDiscount:      toFloat(discount),
		TotalScholarship:   toFloat(scholarship),
		TotalAmountPayable: clampZero(total).InexactFloat64(),
	}
}
