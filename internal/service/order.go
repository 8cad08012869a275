package service

import (
	"sort"

	"github.com/voltatrips/volta/backend/internal/domain"
)

// groupActivities attaches activities to their plans. plans keeps its order;
// each plan's activities are sorted by time of day with input order as the
// tiebreak.
func groupActivities(plans []domain.Plan, activities []domain.Activity) []domain.DayPlan {
	byPlan := make(map[string][]domain.Activity, len(plans))
	for _, a := range activities {
		byPlan[a.PlanID] = append(byPlan[a.PlanID], a)
	}

	days := make([]domain.DayPlan, 0, len(plans))
	for _, p := range plans {
		acts := byPlan[p.ID]
		if acts == nil {
			acts = []domain.Activity{}
		}
		sortActivities(acts)
		days = append(days, domain.DayPlan{Plan: p, Activities: acts})
	}
	return days
}

func sortActivities(acts []domain.Activity) {
	sort.SliceStable(acts, func(i, j int) bool {
		return acts[i].MinuteOfDay < acts[j].MinuteOfDay
	})
}
