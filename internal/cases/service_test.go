package cases_test

import (
	"context"
	"errors"
	"testing"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/auth"
	"casewatch/backend/internal/cases"
	"casewatch/backend/internal/models"
	"casewatch/backend/internal/storage"
	"casewatch/backend/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actorOf(u *models.User) auth.Actor {
	return auth.Actor{UserID: u.ID, Role: u.Role, Status: u.Status}
}

func validInput() cases.CreateInput {
	return cases.CreateInput{
		Title:           "Hit and run on Ring Road",
		Description:     "A delivery rider was struck near the flyover and the car did not stop.",
		Category:        string(models.CategoryAccident),
		Location:        "New Delhi",
		ReferenceNumber: "FIR/2024/DL/00789",
	}
}

type fixture struct {
	store     *storage.Service
	svc       *cases.Service
	citizen   auth.Actor
	moderator auth.Actor
	lawyer    auth.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storagetest.New(t)
	return &fixture{
		store:     store,
		svc:       cases.NewService(store, nil),
		citizen:   actorOf(storagetest.SeedUser(t, store, "Meera", models.RolePublic)),
		moderator: actorOf(storagetest.SeedUser(t, store, "Mod", models.RoleModerator)),
		lawyer:    actorOf(storagetest.SeedUser(t, store, "Adv. Rao", models.RoleLawyer)),
	}
}

func (f *fixture) count(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := f.store.DB.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func TestCreate_MissingReference(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.Title = "Bad"
	in.Description = "Something happened near the market yesterday evening."
	in.ReferenceNumber = ""

	_, err := f.svc.Create(context.Background(), f.citizen, in)

	assert.True(t, errors.Is(err, apperr.ErrMissingReference))
	assert.Zero(t, f.count(t, &models.Case{}, ""))
}

func TestCreate_ReferenceChecks(t *testing.T) {
	tests := []struct {
		name      string
		ref       string
		sourceURL string
		wantKind  apperr.Kind
	}{
		{name: "FIR number", ref: "FIR/2024/DL/00789"},
		{name: "court case id", ref: "CRL-1123-2023"},
		{name: "news url only", sourceURL: "https://news.example.com/story/42"},
		{name: "too short", ref: "F1", wantKind: apperr.KindMissingReference},
		{name: "bad characters", ref: "FIR #22", wantKind: apperr.KindMissingReference},
		{name: "blank", ref: "   ", wantKind: apperr.KindMissingReference},
		{name: "malformed url", sourceURL: "not a url", wantKind: apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := validInput()
			in.ReferenceNumber = tt.ref
			in.SourceURL = tt.sourceURL

			_, err := f.svc.Create(context.Background(), f.citizen, in)
			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
		})
	}
}

func TestCreate_StartsPendingWithSubmissionUpdate(t *testing.T) {
	f := newFixture(t)

	c, err := f.svc.Create(context.Background(), f.citizen, validInput())

	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReview, c.Status)
	assert.Equal(t, "FIR/2024/DL/00789", c.ReferenceNumber)
	assert.Nil(t, c.SourceURL)
	assert.Equal(t, int64(1), f.count(t, &models.CaseUpdate{}, "case_id = ?", c.ID))

	var update models.CaseUpdate
	require.NoError(t, f.store.DB.Where("case_id = ?", c.ID).First(&update).Error)
	assert.Equal(t, models.UpdateSubmission, update.UpdateType)
	assert.Equal(t, f.citizen.UserID, update.CreatedByID)
}

func TestCreate_AbusiveContent(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.Description = "Caller made a BOMB threat at the station."

	_, err := f.svc.Create(context.Background(), f.citizen, in)

	assert.Equal(t, apperr.KindAbusiveContent, apperr.KindOf(err))
	assert.Zero(t, f.count(t, &models.Case{}, ""))
}

func TestCreate_AbusiveTermSplitByMarkup(t *testing.T) {
	tests := map[string]func(in *cases.CreateInput){
		"title":       func(in *cases.CreateInput) { in.Title = "Plan to <i>b</i>omb the station" },
		"description": func(in *cases.CreateInput) { in.Description = "Caller said he would <b>ki</b>ll the clerk." },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			in := validInput()
			mutate(&in)

			_, err := f.svc.Create(context.Background(), f.citizen, in)

			assert.Equal(t, apperr.KindAbusiveContent, apperr.KindOf(err))
			assert.Zero(t, f.count(t, &models.Case{}, ""))
		})
	}
}

func TestCreate_StripsMarkup(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.Title = "<b>Bridge</b> collapse & flooding"
	in.Description = "<p>Water main <i>burst</i> near the school gate</p>"
	in.Location = "<span>Pune</span>"
	in.Documents = []string{"uploads/fir.pdf", " ", "uploads/photo.jpg"}

	c, err := f.svc.Create(context.Background(), f.citizen, in)

	require.NoError(t, err)
	assert.Equal(t, "Bridge collapse & flooding", c.Title)
	assert.Equal(t, "Water main burst near the school gate", c.Description)
	assert.Equal(t, "Pune", c.Location)

	stored, err := f.store.GetCase(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/fir.pdf", "uploads/photo.jpg"}, stored.Documents)
}

func TestCreate_MarkupOnlyTitleIsInvalid(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.Title = "<img src=x>"

	_, err := f.svc.Create(context.Background(), f.citizen, in)

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreate_AuthorizationRunsFirst(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.ReferenceNumber = ""

	suspended := f.citizen
	suspended.Status = models.AccountSuspended
	_, err := f.svc.Create(context.Background(), suspended, in)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = f.svc.Create(context.Background(), auth.Anonymous, in)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestCreate_InvalidCategory(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.Category = "ARSON"

	_, err := f.svc.Create(context.Background(), f.citizen, in)

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, apperr.Message(err), "category")
}

func TestList_PublicVisibilityAndOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	mk := func(title, location string, support int64, approve bool) *models.Case {
		in := validInput()
		in.Title = title
		in.Location = location
		c, err := f.svc.Create(ctx, f.citizen, in)
		require.NoError(t, err)
		if approve {
			_, err = f.svc.Approve(ctx, f.moderator, c.ID)
			require.NoError(t, err)
		}
		require.NoError(t, f.store.SetTally(ctx, c.ID, support, 0))
		return c
	}
	low := mk("Streetlight outage", "Mumbai", 1, true)
	high := mk("Bus accident", "Navi Mumbai", 9, true)
	pending := mk("Unreviewed report", "Mumbai", 50, false)

	page, err := f.svc.List(ctx, auth.Anonymous, cases.ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, high.ID, page.Items[0].ID)
	assert.Equal(t, low.ID, page.Items[1].ID)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)

	t.Run("location is a case-insensitive substring", func(t *testing.T) {
		page, err := f.svc.List(ctx, auth.Anonymous, cases.ListQuery{Location: "navi"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, high.ID, page.Items[0].ID)
	})

	t.Run("search matches title or reference", func(t *testing.T) {
		page, err := f.svc.List(ctx, auth.Anonymous, cases.ListQuery{Search: "STREETLIGHT"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, low.ID, page.Items[0].ID)

		page, err = f.svc.List(ctx, auth.Anonymous, cases.ListQuery{Search: "dl/00789"})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		page, err := f.svc.List(ctx, auth.Anonymous, cases.ListQuery{Search: "%"})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("non-public status needs a moderator", func(t *testing.T) {
		_, err := f.svc.List(ctx, f.citizen, cases.ListQuery{Status: "PENDING_REVIEW"})
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

		page, err := f.svc.List(ctx, f.moderator, cases.ListQuery{Status: "PENDING_REVIEW"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, pending.ID, page.Items[0].ID)
	})

	t.Run("public status filter is open", func(t *testing.T) {
		page, err := f.svc.List(ctx, auth.Anonymous, cases.ListQuery{Status: "verified"})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
	})

	t.Run("bad filters", func(t *testing.T) {
		_, err := f.svc.List(ctx, auth.Anonymous, cases.ListQuery{Status: "ARCHIVED"})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		_, err = f.svc.List(ctx, auth.Anonymous, cases.ListQuery{Category: "ARSON"})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := f.svc.List(ctx, auth.Anonymous, cases.ListQuery{Page: 2, Limit: 1})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, low.ID, page.Items[0].ID)
		assert.Equal(t, 2, page.TotalPages)
	})
}

func TestTrendingAndQueue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Create(ctx, f.citizen, validInput())
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.citizen, validInput())
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, f.moderator, first.ID)
	require.NoError(t, err)

	trending, err := f.svc.Trending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, trending, 1)
	assert.Equal(t, first.ID, trending[0].ID)

	_, err = f.svc.Queue(ctx, f.citizen, "", 1, 20)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	queue, err := f.svc.Queue(ctx, f.moderator, "pending_review", 0, 0)
	require.NoError(t, err)
	require.Len(t, queue.Items, 1)
	assert.Equal(t, second.ID, queue.Items[0].ID)
}

func TestGet_Detail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, err := f.svc.Create(ctx, f.citizen, validInput())
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, f.moderator, c.ID)
	require.NoError(t, err)
	_, err = f.svc.AddLawyerComment(ctx, f.lawyer, c.ID, "Section 304A IPC covers death by negligence.")
	require.NoError(t, err)

	detail, err := f.svc.Get(ctx, c.ID)

	require.NoError(t, err)
	require.Len(t, detail.Updates, 2)
	assert.Equal(t, models.UpdateSubmission, detail.Updates[0].UpdateType)
	assert.Equal(t, models.UpdateVerification, detail.Updates[1].UpdateType)
	require.Len(t, detail.LawyerComments, 1)
	require.NotNil(t, detail.LawyerComments[0].Lawyer)
	assert.Equal(t, "Adv. Rao", detail.LawyerComments[0].Lawyer.Name)
	require.NotNil(t, detail.VerifiedBy)
	assert.Equal(t, f.moderator.UserID, detail.VerifiedBy.ID)

	_, err = f.svc.Get(ctx, "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAddLawyerComment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, err := f.svc.Create(ctx, f.citizen, validInput())
	require.NoError(t, err)

	t.Run("guilt declaration", func(t *testing.T) {
		_, err := f.svc.AddLawyerComment(ctx, f.lawyer, c.ID, "The defendant is guilty of fraud")
		assert.Equal(t, apperr.KindGuiltDeclaration, apperr.KindOf(err))
		assert.Zero(t, f.count(t, &models.LawyerComment{}, ""))
	})

	t.Run("guilt declaration split by markup", func(t *testing.T) {
		_, err := f.svc.AddLawyerComment(ctx, f.lawyer, c.ID, "The defendant is <b>guilty</b> of fraud")
		assert.Equal(t, apperr.KindGuiltDeclaration, apperr.KindOf(err))
		_, err = f.svc.AddLawyerComment(ctx, f.lawyer, c.ID, "The defendant is<i></i> guilty of fraud")
		assert.Equal(t, apperr.KindGuiltDeclaration, apperr.KindOf(err))
		assert.Zero(t, f.count(t, &models.LawyerComment{}, ""))
	})

	t.Run("lawyers only", func(t *testing.T) {
		_, err := f.svc.AddLawyerComment(ctx, f.moderator, c.ID, "Bail is likely.")
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("unknown case", func(t *testing.T) {
		_, err := f.svc.AddLawyerComment(ctx, f.lawyer, "missing", "Bail is likely.")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("accepted", func(t *testing.T) {
		comment, err := f.svc.AddLawyerComment(ctx, f.lawyer, c.ID, "<p>Bail is likely under Section 437.</p>")
		require.NoError(t, err)
		assert.Equal(t, "Bail is likely under Section 437.", comment.Explanation)
		assert.Equal(t, f.lawyer.UserID, comment.LawyerID)
	})
}

func TestAddUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, err := f.svc.Create(ctx, f.citizen, validInput())
	require.NoError(t, err)

	update, err := f.svc.AddUpdate(ctx, f.moderator, c.ID, cases.UpdateInput{UpdateText: "Hearing set for March", UpdateType: "hearing"})
	require.NoError(t, err)
	assert.Equal(t, models.UpdateHearing, update.UpdateType)

	_, err = f.svc.AddUpdate(ctx, f.moderator, c.ID, cases.UpdateInput{UpdateText: "x", UpdateType: "GOSSIP"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.svc.AddUpdate(ctx, f.moderator, "missing", cases.UpdateInput{UpdateText: "x", UpdateType: "GENERAL"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.svc.AddUpdate(ctx, f.citizen, c.ID, cases.UpdateInput{UpdateText: "x", UpdateType: "GENERAL"})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	assert.Equal(t, int64(2), f.count(t, &models.CaseUpdate{}, "case_id = ?", c.ID))
}
