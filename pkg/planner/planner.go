// Package planner implements the daily ranking pass: it scores every
// non-Done task via the priority kernel under the owner's portfolio
// weights and active focus directive, then derives a now/next pick, a
// ranked queue, and directive exceptions, per §4.F.
package planner

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bvquist1400/mission-control/pkg/config"
	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/pkg/priority"
	"github.com/bvquist1400/mission-control/pkg/store"
)

func newPlanID() string { return uuid.NewString() }

// weightTable maps a clamped, rounded application priority_weight
// (0-10) to the implementation multiplier applied to every task under
// that application.
var weightTable = [11]float64{0.6, 0.7, 0.8, 0.9, 0.95, 1.0, 1.1, 1.25, 1.4, 1.6, 1.8}

const defaultApplicationWeight = 5.0
const nextWindowMinutes = 60
const maxTasksLoaded = 1000
const maxQueueSize = 50
const maxExceptions = 10

type directiveMultiplier struct {
	match    float64
	nonMatch float64
}

var directiveMultipliers = map[models.DirectiveStrength]directiveMultiplier{
	models.StrengthNudge:  {match: 1.2, nonMatch: 0.95},
	models.StrengthStrong: {match: 1.6, nonMatch: 0.85},
	models.StrengthHard:   {match: 2.0, nonMatch: 0.7},
}

// Planner produces a Plan for one owner/date.
type Planner struct {
	db  *store.Store
	cfg *config.Config
}

func New(db *store.Store, cfg *config.Config) *Planner {
	return &Planner{db: db, cfg: cfg}
}

// ScoredTask is one task's ranked output, carrying its full score
// breakdown for the response's reasons_json.
type ScoredTask struct {
	Task              *models.Task
	Result            priority.Result
	SuggestedMinutes  int
	Mode              string
	MatchesDirective  bool
}

// Exception is a non-matching task surfaced alongside the ranked queue
// because it is eligible despite not matching the active directive.
type Exception struct {
	Task   *models.Task
	Reason string
}

// Output is the full planner result for one invocation.
type Output struct {
	PlanDate     string
	NowNext      *ScoredTask
	Next3        []ScoredTask
	Queue        []ScoredTask
	Exceptions   []Exception
	Directive    *models.FocusDirective
	PersistedID  string
	PersistedOK  bool
}

// Plan runs the full scoring pass for ownerID at planDate (YYYY-MM-DD
// in workday TZ; empty defaults to today).
func (p *Planner) Plan(ctx context.Context, ownerID, planDate string) (*Output, error) {
	now := time.Now().UTC()
	if planDate == "" {
		loc, err := time.LoadLocation(p.cfg.Workday.Timezone)
		if err != nil {
			loc = time.UTC
		}
		planDate = now.In(loc).Format("2006-01-02")
	}

	tasks, err := p.db.ListTasks(ctx, ownerID, store.ListTasksOptions{ExcludeDone: true})
	if err != nil {
		return nil, err
	}
	if len(tasks) > maxTasksLoaded {
		tasks = tasks[:maxTasksLoaded]
	}

	apps, err := p.db.ListApplications(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	weights := make(map[string]float64, len(apps))
	for _, a := range apps {
		weights[a.ID] = a.PriorityWeight
	}

	var directive *models.FocusDirective
	active, err := p.db.GetActiveFocusDirective(ctx, ownerID)
	if err == nil && active.InWindow(now) {
		directive = active
	} else if _, ok := err.(*store.NotFoundError); !ok && err != nil {
		return nil, err
	}

	scored := make([]ScoredTask, 0, len(tasks))
	for _, t := range tasks {
		scored = append(scored, p.scoreTask(t, weights, directive, now))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Result.FinalScore != b.Result.FinalScore {
			return a.Result.FinalScore > b.Result.FinalScore
		}
		ad, bd := a.Task.DueAt, b.Task.DueAt
		switch {
		case ad == nil && bd != nil:
			return false
		case ad != nil && bd == nil:
			return true
		case ad != nil && bd != nil && !ad.Equal(*bd):
			return ad.Before(*bd)
		}
		return a.Task.Title < b.Task.Title
	})

	out := &Output{PlanDate: planDate, Directive: directive}

	nowNextIdx := -1
	for i, st := range scored {
		if st.Task.EstimatedMinutes <= nextWindowMinutes {
			nowNextIdx = i
			break
		}
	}
	if nowNextIdx == -1 && len(scored) > 0 {
		nowNextIdx = 0
	}
	if nowNextIdx >= 0 {
		nn := scored[nowNextIdx]
		out.NowNext = &nn
		rest := make([]ScoredTask, 0, len(scored)-1)
		rest = append(rest, scored[:nowNextIdx]...)
		rest = append(rest, scored[nowNextIdx+1:]...)
		if len(rest) > 3 {
			out.Next3 = rest[:3]
		} else {
			out.Next3 = rest
		}
	}

	queue := scored
	if len(queue) > maxQueueSize {
		queue = queue[:maxQueueSize]
	}
	out.Queue = queue

	if directive != nil {
		for _, st := range scored {
			if st.MatchesDirective || len(out.Exceptions) >= maxExceptions {
				continue
			}
			if reason, eligible := exceptionReason(st.Task, now); eligible {
				out.Exceptions = append(out.Exceptions, Exception{Task: st.Task, Reason: reason})
			}
		}
	}

	p.persist(ctx, ownerID, out)

	return out, nil
}

// persist writes a best-effort Plan row. A missing plans relation
// degrades to PersistedOK=false rather than failing the request (§7).
func (p *Planner) persist(ctx context.Context, ownerID string, out *Output) {
	plan := &models.Plan{
		ID:             newPlanID(),
		OwnerID:        ownerID,
		PlanDate:       out.PlanDate,
		Source:         "planner_v1.1",
		InputsSnapshot: map[string]interface{}{"task_count": len(out.Queue)},
		PlanJSON:       summarizePlan(out),
		ReasonsJSON:    summarizeReasons(out),
		Status:         models.PlanStatusProposed,
	}
	if err := p.db.CreatePlan(ctx, plan); err != nil {
		out.PersistedOK = false
		return
	}
	out.PersistedID = plan.ID
	out.PersistedOK = true
}

func summarizePlan(out *Output) map[string]interface{} {
	ids := make([]string, 0, len(out.Queue))
	for _, st := range out.Queue {
		ids = append(ids, st.Task.ID)
	}
	summary := map[string]interface{}{"queue_task_ids": ids}
	if out.NowNext != nil {
		summary["now_next_task_id"] = out.NowNext.Task.ID
	}
	return summary
}

func summarizeReasons(out *Output) map[string]interface{} {
	reasons := make(map[string]interface{}, len(out.Exceptions))
	for _, e := range out.Exceptions {
		reasons[e.Task.ID] = e.Reason
	}
	return map[string]interface{}{"exceptions": reasons}
}

func (p *Planner) scoreTask(t *models.Task, weights map[string]float64, directive *models.FocusDirective, now time.Time) ScoredTask {
	weight := defaultApplicationWeight
	if t.ImplementationID != nil {
		if w, ok := weights[*t.ImplementationID]; ok {
			weight = w
		}
	}
	impIdx := int(clampFloat(math.Round(weight), 0, 10))
	impMult := weightTable[impIdx]

	matches := directive != nil && matchesDirective(directive, t)
	dirMult := 1.0
	if directive != nil {
		dm := directiveMultipliers[directive.Strength]
		if matches {
			dirMult = dm.match
		} else {
			dirMult = dm.nonMatch
		}
	}

	fitBonus := -10.0
	if t.EstimatedMinutes <= nextWindowMinutes {
		fitBonus = 5.0
	}

	result := priority.Score(priority.Input{
		PriorityScoreBase:        t.PriorityScore,
		DueAt:                    t.DueAt,
		FollowUpAt:               t.FollowUpAt,
		WaitingOn:                t.WaitingOn,
		Blocker:                  t.Blocker,
		Status:                   t.Status,
		UpdatedAt:                t.UpdatedAt,
		StakeholderMentions:      t.StakeholderMentions,
		Now:                      now,
		HighPriorityStakeholders: p.cfg.Priority.HighPriorityStakeholders,
		FitBonus:                 fitBonus,
		ImplementationMultiplier: impMult,
		DirectiveMultiplier:      dirMult,
	})

	suggested := t.EstimatedMinutes
	if suggested > nextWindowMinutes {
		suggested = nextWindowMinutes
	}

	return ScoredTask{
		Task:             t,
		Result:           result,
		SuggestedMinutes: suggested,
		Mode:             modeLabel(t.EstimatedMinutes),
		MatchesDirective: matches,
	}
}

func modeLabel(estimatedMinutes int) string {
	switch {
	case estimatedMinutes >= 45:
		return "deep"
	case estimatedMinutes >= 20:
		return "shallow"
	default:
		return "prep"
	}
}

func matchesDirective(d *models.FocusDirective, t *models.Task) bool {
	switch d.ScopeType {
	case models.ScopeApplication:
		return d.ScopeID != nil && t.ImplementationID != nil && *d.ScopeID == *t.ImplementationID
	case models.ScopeStakeholder:
		if d.ScopeValue == nil {
			return false
		}
		needle := strings.ToLower(*d.ScopeValue)
		for _, m := range t.StakeholderMentions {
			if strings.Contains(strings.ToLower(m), needle) {
				return true
			}
		}
		return false
	case models.ScopeTaskType:
		return d.ScopeValue != nil && strings.EqualFold(*d.ScopeValue, string(t.Type))
	case models.ScopeQuery:
		return false
	default:
		return false
	}
}

func exceptionReason(t *models.Task, now time.Time) (string, bool) {
	followUpDue := t.Status == models.TaskStatusBlockedWaiting && t.FollowUpAt != nil && !t.FollowUpAt.After(now)
	dueSoon := t.DueAt != nil && t.DueAt.Sub(now) <= 24*time.Hour

	switch {
	case t.Blocker && followUpDue:
		return "Blocked and follow-up is due", true
	case dueSoon:
		return "Due within 24 hours", true
	default:
		return "", false
	}
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
