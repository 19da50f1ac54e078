package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cohort-backend/internal/models"
	"cohort-backend/internal/timeutil"

	"go.uber.org/zap"
)

// Flat date keys. The UI and the engine share this scheme; persisted
// schedules in the older nested shape are normalized into it up front so no
// other code ever branches on shape.
const (
	dateKeyOneShot   = "one-shot"
	dateKeyAdmission = "admission"
)

func installmentDateKey(semester, installment int) string {
	return fmt.Sprintf("semester-%d-instalment-%d", semester, installment)
}

// ResolvedDates is the flat keyed map every schedule date resolves into.
type ResolvedDates map[string]string

// DateScheduler resolves due dates from three prioritized sources: caller
// custom dates, the persisted schedule, and generated defaults anchored to
// the cohort start date. Date resolution never alters amounts; an
// unparseable date degrades to empty, it never aborts.
type DateScheduler struct {
	log *zap.Logger
}

func NewDateScheduler(log *zap.Logger) *DateScheduler {
	return &DateScheduler{log: log}
}

// Resolve builds the date map for one structure and plan. Later sources in
// the merge order win: generated defaults, then the persisted schedule, then
// caller custom dates.
func (s *DateScheduler) Resolve(fs *models.FeeStructure, plan models.PaymentPlan, custom map[string]string, cohortStart time.Time) ResolvedDates {
	out := s.generateDefaults(fs, plan, cohortStart)

	if fs.CustomDatesEnabled {
		for k, v := range s.normalizePersisted(s.persistedBlob(fs, plan)) {
			out[k] = v
		}
		// The admission date can live in any of the three blobs.
		for _, blob := range [][]byte{fs.OneShotDates, fs.SemWiseDates, fs.InstalmentWiseDates} {
			if d, ok := s.normalizePersisted(blob)[dateKeyAdmission]; ok && d != "" {
				out[dateKeyAdmission] = d
				break
			}
		}
	}

	for k, v := range custom {
		normalized, ok := normalizeDate(v)
		if !ok {
			s.log.Warn("unparseable custom date, degrading to empty",
				zap.String("key", k), zap.String("value", v))
			out[k] = ""
			continue
		}
		out[k] = normalized
	}

	return out
}

// Apply writes the resolved dates onto the breakdown.
func (s *DateScheduler) Apply(b *models.Breakdown, dates ResolvedDates) {
	b.AdmissionFee.PaymentDate = dates[dateKeyAdmission]

	if b.OneShotPayment != nil {
		b.OneShotPayment.PaymentDate = dates[dateKeyOneShot]
	}

	for si := range b.Semesters {
		sem := &b.Semesters[si]
		for ii := range sem.Instalments {
			inst := &sem.Instalments[ii]
			inst.PaymentDate = dates[installmentDateKey(inst.SemesterNumber, inst.InstallmentNumber)]
		}
	}
}

func (s *DateScheduler) persistedBlob(fs *models.FeeStructure, plan models.PaymentPlan) []byte {
	switch plan {
	case models.PaymentPlanOneShot:
		return fs.OneShotDates
	case models.PaymentPlanSemWise:
		return fs.SemWiseDates
	default:
		return fs.InstalmentWiseDates
	}
}

// generateDefaults anchors the schedule to the cohort start date: one-shot
// and admission at the start, sem-wise six months apart, installment-wise
// monthly within each six-month semester window.
func (s *DateScheduler) generateDefaults(fs *models.FeeStructure, plan models.PaymentPlan, start time.Time) ResolvedDates {
	out := ResolvedDates{}
	if start.IsZero() {
		return out
	}

	format := func(t time.Time) string { return t.Format(timeutil.DateLayout) }
	out[dateKeyAdmission] = format(start)

	switch plan {
	case models.PaymentPlanOneShot:
		out[dateKeyOneShot] = format(start)
	case models.PaymentPlanSemWise:
		for sem := 1; sem <= fs.NumberOfSemesters; sem++ {
			out[installmentDateKey(sem, 1)] = format(start.AddDate(0, (sem-1)*6, 0))
		}
	default:
		for sem := 1; sem <= fs.NumberOfSemesters; sem++ {
			for i := 1; i <= fs.InstalmentsPerSemester; i++ {
				months := (sem-1)*6 + (i - 1)
				out[installmentDateKey(sem, i)] = format(start.AddDate(0, months, 0))
			}
		}
	}

	return out
}

// nestedSchedule is the persisted shape
// {"semesters":{"semester_1":{"due_date":"...","installments":{"installment_1":"..."}}}}.
type nestedSchedule struct {
	Semesters map[string]struct {
		DueDate      string            `json:"due_date"`
		Installments map[string]string `json:"installments"`
	} `json:"semesters"`
	AdmissionDate string `json:"admission_date"`
	OneShotDate   string `json:"one_shot_date"`
}

// normalizePersisted accepts either the nested shape or the legacy flat
// keyed map and returns the flat scheme. Anything unreadable is logged and
// skipped.
func (s *DateScheduler) normalizePersisted(raw []byte) ResolvedDates {
	out := ResolvedDates{}
	if len(raw) == 0 || string(raw) == "null" {
		return out
	}

	var nested nestedSchedule
	if err := json.Unmarshal(raw, &nested); err == nil && nested.Semesters != nil {
		for key, sem := range nested.Semesters {
			semNum, ok := trailingNumber(key, "semester_")
			if !ok {
				s.log.Warn("unrecognized semester key in persisted schedule", zap.String("key", key))
				continue
			}
			if sem.DueDate != "" {
				if d, ok := normalizeDate(sem.DueDate); ok {
					out[installmentDateKey(semNum, 1)] = d
				} else {
					s.log.Warn("unparseable persisted due date", zap.String("key", key), zap.String("value", sem.DueDate))
				}
			}
			for instKey, value := range sem.Installments {
				instNum, ok := trailingNumber(instKey, "installment_")
				if !ok {
					s.log.Warn("unrecognized installment key in persisted schedule", zap.String("key", instKey))
					continue
				}
				if d, ok := normalizeDate(value); ok {
					out[installmentDateKey(semNum, instNum)] = d
				} else {
					s.log.Warn("unparseable persisted installment date", zap.String("key", instKey), zap.String("value", value))
				}
			}
		}
		if nested.AdmissionDate != "" {
			if d, ok := normalizeDate(nested.AdmissionDate); ok {
				out[dateKeyAdmission] = d
			}
		}
		if nested.OneShotDate != "" {
			if d, ok := normalizeDate(nested.OneShotDate); ok {
				out[dateKeyOneShot] = d
			}
		}
		return out
	}

	// Legacy flat shape: already keyed by the flat scheme.
	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		s.log.Warn("unreadable persisted date schedule, ignoring", zap.Error(err))
		return out
	}
	for k, v := range flat {
		d, ok := normalizeDate(v)
		if !ok {
			s.log.Warn("unparseable persisted date", zap.String("key", k), zap.String("value", v))
			continue
		}
		out[k] = d
	}
	return out
}

func trailingNumber(key, prefix string) (int, bool) {
	if !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// normalizeDate accepts the handful of formats stored over time and
// normalizes them to the wire layout.
func normalizeDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	for _, layout := range []string{timeutil.DateLayout, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(timeutil.DateLayout), true
		}
	}
	return "", false
}
