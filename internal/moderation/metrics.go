package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var userActions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "casewatch_user_moderation_total",
	Help: "Account status changes made by moderators, by action",
}, []string{"action"})

var roleChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "casewatch_user_role_changes_total",
	Help: "Account role changes made by admins, by new role",
}, []string{"role"})
