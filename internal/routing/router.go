// Package routing selects the support action and task list for a session.
package routing

import (
	"soulsprint/internal/apperr"
	"soulsprint/internal/config"
	"soulsprint/internal/model"
)

// Router is immutable after construction and safe for concurrent use
type Router struct {
	catalog    []model.Task
	peerGroups []model.PeerGroup
	maxTasks   int
	notice     string
}

// NewRouter builds a router from validated engine config
func NewRouter(cfg *config.EngineConfig) *Router {
	return &Router{
		catalog:    cfg.Tasks(),
		peerGroups: append([]model.PeerGroup(nil), cfg.PeerGroups...),
		maxTasks:   cfg.MaxTasks,
		notice:     cfg.EscalationNotice,
	}
}

// ValidateCatalog fails if any tier has no applicable task
func (r *Router) ValidateCatalog() error {
	for _, tier := range model.Tiers {
		if len(r.tasksFor(tier)) == 0 {
			return apperr.Wrap(apperr.ErrEmptyCatalogForTier, "no catalog entries for tier %q", tier)
		}
	}
	return nil
}

// Catalog returns a copy of the full catalog in declaration order
func (r *Router) Catalog() []model.Task {
	return cloneTasks(r.catalog)
}

// Route picks the action and tasks for a tier and an optional chat signal.
// The effective action is the more severe of the tier's action and the
// signal's action; ProfessionalHelp replaces the task list with the notice.
func (r *Router) Route(tier model.Tier, sig *model.IntensitySignal) (*model.RouteResult, error) {
	if !tier.Valid() {
		return nil, apperr.Wrap(apperr.ErrInvalidTier, "unknown tier %q", tier)
	}
	tasks := r.tasksFor(tier)
	if len(tasks) == 0 {
		return nil, apperr.Wrap(apperr.ErrEmptyCatalogForTier, "no catalog entries for tier %q", tier)
	}

	action := model.ActionForTier(tier)
	if sig != nil && sig.RecommendedAction.Rank() > action.Rank() {
		action = sig.RecommendedAction
	}

	res := &model.RouteResult{
		Tier:   tier,
		Action: action,
		Tasks:  []model.Task{},
	}
	switch action {
	case model.ActionProfessionalHelp:
		res.Escalated = true
		res.EscalationNotice = r.notice
		return res, nil
	case model.ActionPeerSupport:
		res.PeerGroups = r.firstPeerGroups()
	}

	if len(tasks) > r.maxTasks {
		tasks = tasks[:r.maxTasks]
	}
	res.Tasks = cloneTasks(tasks)
	return res, nil
}

// Escalate returns the professional-help result for a tier regardless of inputs
func (r *Router) Escalate(tier model.Tier) *model.RouteResult {
	return &model.RouteResult{
		Tier:             tier,
		Action:           model.ActionProfessionalHelp,
		Tasks:            []model.Task{},
		Escalated:        true,
		EscalationNotice: r.notice,
	}
}

func (r *Router) tasksFor(tier model.Tier) []model.Task {
	var out []model.Task
	for _, t := range r.catalog {
		if t.AppliesTo(tier) {
			out = append(out, t)
		}
	}
	return out
}

func (r *Router) firstPeerGroups() []model.PeerGroup {
	n := len(r.peerGroups)
	if n > r.maxTasks {
		n = r.maxTasks
	}
	return append([]model.PeerGroup(nil), r.peerGroups[:n]...)
}

func cloneTasks(in []model.Task) []model.Task {
	out := make([]model.Task, len(in))
	for i, t := range in {
		t.Tiers = append([]model.Tier(nil), t.Tiers...)
		out[i] = t
	}
	return out
}
