package models

import "strings"

type CaseCategory string

const (
	CategoryAccident     CaseCategory = "ACCIDENT"
	CategoryAssault      CaseCategory = "ASSAULT"
	CategoryCorruption   CaseCategory = "CORRUPTION"
	CategoryPublicSafety CaseCategory = "PUBLIC_SAFETY"
	CategoryOther        CaseCategory = "OTHER"
)

var caseCategories = map[CaseCategory]struct{}{
	CategoryAccident:     {},
	CategoryAssault:      {},
	CategoryCorruption:   {},
	CategoryPublicSafety: {},
	CategoryOther:        {},
}

func (c CaseCategory) Valid() bool {
	_, ok := caseCategories[c]
	return ok
}

type CaseStatus string

const (
	StatusPendingReview      CaseStatus = "PENDING_REVIEW"
	StatusVerified           CaseStatus = "VERIFIED"
	StatusUnderInvestigation CaseStatus = "UNDER_INVESTIGATION"
	StatusCourtHearing       CaseStatus = "COURT_HEARING"
	StatusResolved           CaseStatus = "RESOLVED"
	StatusClosed             CaseStatus = "CLOSED"
	StatusRejected           CaseStatus = "REJECTED"
	StatusFlagged            CaseStatus = "FLAGGED"
)

var caseStatuses = map[CaseStatus]struct{}{
	StatusPendingReview:      {},
	StatusVerified:           {},
	StatusUnderInvestigation: {},
	StatusCourtHearing:       {},
	StatusResolved:           {},
	StatusClosed:             {},
	StatusRejected:           {},
	StatusFlagged:            {},
}

func (s CaseStatus) Valid() bool {
	_, ok := caseStatuses[s]
	return ok
}

// PublicStatuses are the statuses anyone may browse.
var PublicStatuses = []CaseStatus{
	StatusVerified,
	StatusUnderInvestigation,
	StatusCourtHearing,
	StatusResolved,
	StatusClosed,
}

// TrendingStatuses are the statuses considered "live" for the trending list.
var TrendingStatuses = []CaseStatus{
	StatusVerified,
	StatusUnderInvestigation,
	StatusCourtHearing,
}

// IsPublic reports whether a case in this status is publicly listed.
func (s CaseStatus) IsPublic() bool {
	for _, p := range PublicStatuses {
		if p == s {
			return true
		}
	}
	return false
}

type UpdateType string

const (
	UpdateSubmission   UpdateType = "SUBMISSION"
	UpdateReview       UpdateType = "REVIEW"
	UpdateVerification UpdateType = "VERIFICATION"
	UpdateHearing      UpdateType = "HEARING"
	UpdateResolution   UpdateType = "RESOLUTION"
	UpdateStatusChange UpdateType = "STATUS_CHANGE"
	UpdateGeneral      UpdateType = "GENERAL"
)

var updateTypes = map[UpdateType]struct{}{
	UpdateSubmission:   {},
	UpdateReview:       {},
	UpdateVerification: {},
	UpdateHearing:      {},
	UpdateResolution:   {},
	UpdateStatusChange: {},
	UpdateGeneral:      {},
}

func (t UpdateType) Valid() bool {
	_, ok := updateTypes[t]
	return ok
}

type VoteType string

const (
	VoteSupport VoteType = "SUPPORT"
	VoteOppose  VoteType = "OPPOSE"
)

func (v VoteType) Valid() bool {
	return v == VoteSupport || v == VoteOppose
}

type ModerationAction string

const (
	ActionApproveCase   ModerationAction = "APPROVE_CASE"
	ActionRejectCase    ModerationAction = "REJECT_CASE"
	ActionFlagCase      ModerationAction = "FLAG_CASE"
	ActionSuspendUser   ModerationAction = "SUSPEND_USER"
	ActionBanUser       ModerationAction = "BAN_USER"
	ActionUnsuspendUser ModerationAction = "UNSUSPEND_USER"
)

type Role string

const (
	RolePublic    Role = "PUBLIC"
	RoleLawyer    Role = "LAWYER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole accepts the canonical names plus the legacy "USER" alias for
// PUBLIC. Unknown values yield false.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PUBLIC", "USER":
		return RolePublic, true
	case "LAWYER":
		return RoleLawyer, true
	case "MODERATOR":
		return RoleModerator, true
	case "ADMIN":
		return RoleAdmin, true
	}
	return "", false
}

type AccountStatus string

const (
	AccountPending   AccountStatus = "PENDING"
	AccountVerified  AccountStatus = "VERIFIED"
	AccountSuspended AccountStatus = "SUSPENDED"
	AccountBanned    AccountStatus = "BANNED"
)

// ParseAccountStatus returns false for unknown values.
func ParseAccountStatus(raw string) (AccountStatus, bool) {
	switch s := AccountStatus(strings.ToUpper(strings.TrimSpace(raw))); s {
	case AccountPending, AccountVerified, AccountSuspended, AccountBanned:
		return s, true
	}
	return "", false
}

// Restricted reports whether the account may not perform mutating operations.
func (s AccountStatus) Restricted() bool {
	return s == AccountSuspended || s == AccountBanned
}
