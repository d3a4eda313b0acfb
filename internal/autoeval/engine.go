// Package autoeval builds and mutates the automatic grade-release
// configuration of one exam.
package autoeval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tentamen-io/tentamen/internal/exam"
)

// ReleaseTypes is the fixed, ordered set of selectable release policies.
var ReleaseTypes = []exam.ReleaseType{
	exam.ReleaseImmediate,
	exam.ReleaseGivenDate,
	exam.ReleaseGivenAmountDays,
	exam.ReleaseAfterExamPeriod,
	exam.ReleaseNever,
}

// Notifier receives a "config changed" notification after every mutation.
// The engine itself holds no asynchronous state.
type Notifier interface {
	ConfigChanged(ctx context.Context, examID string, cfg *exam.AutoEvaluationConfig) error
}

// Engine mutates one exam's auto-evaluation configuration. It is not safe
// for concurrent use; callers drive it from a single session.
type Engine struct {
	exam     *exam.Exam
	notifier Notifier
	selected exam.ReleaseType // ReleaseNone when nothing is selected
}

func New(e *exam.Exam, n Notifier) *Engine {
	return &Engine{exam: e, notifier: n}
}

// InitConfig creates the config when missing, provided a grade scale can
// be resolved. An existing config gets its evaluations re-sorted and the
// current selection re-applied. Without any grade scale the config stays
// undefined and a ConfigurationError reports the feature as disabled.
func (g *Engine) InitConfig(ctx context.Context) error {
	scale := g.exam.EffectiveGradeScale()
	if g.exam.AutoEvaluationConfig == nil {
		if scale == nil {
			return &exam.ConfigurationError{Reason: "no grade scale available for exam " + g.exam.ID}
		}
		sel := g.selected
		if sel == exam.ReleaseNone {
			sel = exam.ReleaseImmediate
		}
		evals := make([]exam.GradeEvaluation, 0, len(scale.Grades))
		for _, gr := range scale.Grades {
			evals = append(evals, exam.GradeEvaluation{Grade: gr, Percentage: 0})
		}
		cfg := &exam.AutoEvaluationConfig{ReleaseType: sel, GradeEvaluations: evals}
		sortEvaluations(cfg)
		g.exam.AutoEvaluationConfig = cfg
		g.selected = sel
		return nil
	}

	cfg := g.exam.AutoEvaluationConfig
	sortEvaluations(cfg)
	if g.selected == exam.ReleaseNone {
		g.selected = cfg.ReleaseType
	} else {
		cfg.ReleaseType = g.selected
	}
	return nil
}

// Selected returns the currently selected release type, ReleaseNone when
// the selection has been toggled off.
func (g *Engine) Selected() exam.ReleaseType { return g.selected }

// SelectReleaseType toggles the selection: picking a new type clears the
// previous one, picking the already-selected type deselects it and leaves
// no active selection until the caller re-selects one.
func (g *Engine) SelectReleaseType(ctx context.Context, t exam.ReleaseType) error {
	if !validReleaseType(t) {
		return &exam.ValidationError{Fields: []string{"release_type"}}
	}
	if g.exam.AutoEvaluationConfig == nil {
		return &exam.ConfigurationError{Reason: "auto evaluation not initialized"}
	}
	if g.selected == t {
		g.selected = exam.ReleaseNone
	} else {
		g.selected = t
	}
	g.exam.AutoEvaluationConfig.ReleaseType = g.selected
	return g.notify(ctx)
}

func (g *Engine) SetReleaseDate(ctx context.Context, d time.Time) error {
	if g.exam.AutoEvaluationConfig == nil {
		return &exam.ConfigurationError{Reason: "auto evaluation not initialized"}
	}
	g.exam.AutoEvaluationConfig.ReleaseDate = &d
	return g.notify(ctx)
}

func (g *Engine) SetAmountDays(ctx context.Context, days int) error {
	if g.exam.AutoEvaluationConfig == nil {
		return &exam.ConfigurationError{Reason: "auto evaluation not initialized"}
	}
	if days < 0 {
		return &exam.ValidationError{Fields: []string{"amount_days"}}
	}
	g.exam.AutoEvaluationConfig.AmountDays = days
	return g.notify(ctx)
}

// SetPercentage updates the percentage of one grade and keeps the
// evaluations sorted ascending by grade id.
func (g *Engine) SetPercentage(ctx context.Context, gradeID int, pct float64) error {
	cfg := g.exam.AutoEvaluationConfig
	if cfg == nil {
		return &exam.ConfigurationError{Reason: "auto evaluation not initialized"}
	}
	for i := range cfg.GradeEvaluations {
		if cfg.GradeEvaluations[i].Grade.ID == gradeID {
			cfg.GradeEvaluations[i].Percentage = pct
			sortEvaluations(cfg)
			return g.notify(ctx)
		}
	}
	return &exam.ValidationError{Fields: []string{fmt.Sprintf("grade %d not in scale", gradeID)}}
}

// Validate reports configs that cannot release anything yet: a dated
// release without a date, or a day-count release without a day count.
func (g *Engine) Validate() error {
	cfg := g.exam.AutoEvaluationConfig
	if cfg == nil {
		return &exam.ConfigurationError{Reason: "auto evaluation not initialized"}
	}
	var missing []string
	if cfg.ReleaseType == exam.ReleaseGivenDate && cfg.ReleaseDate == nil {
		missing = append(missing, "release_date")
	}
	if cfg.ReleaseType == exam.ReleaseGivenAmountDays && cfg.AmountDays == 0 {
		missing = append(missing, "amount_days")
	}
	if len(missing) > 0 {
		return &exam.ValidationError{Fields: missing}
	}
	return nil
}

// PointLimit maps a grade's percentage onto the exam's maximum score,
// rounded to two decimals. Zero or NaN percentages map to zero.
func PointLimit(ev exam.GradeEvaluation, examMaxScore float64) float64 {
	if ev.Percentage == 0 || math.IsNaN(ev.Percentage) {
		return 0
	}
	return math.Round(examMaxScore*ev.Percentage) / 100
}

func (g *Engine) notify(ctx context.Context) error {
	if g.notifier == nil {
		return nil
	}
	return g.notifier.ConfigChanged(ctx, g.exam.ID, g.exam.AutoEvaluationConfig)
}

func sortEvaluations(cfg *exam.AutoEvaluationConfig) {
	sort.Slice(cfg.GradeEvaluations, func(i, j int) bool {
		return cfg.GradeEvaluations[i].Grade.ID < cfg.GradeEvaluations[j].Grade.ID
	})
}

func validReleaseType(t exam.ReleaseType) bool {
	for _, rt := range ReleaseTypes {
		if rt == t {
			return true
		}
	}
	return false
}
