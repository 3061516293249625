package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"storepulse/internal/actionplan/handler"
	"storepulse/internal/actionplan/handler/mocks"
	"storepulse/internal/actionplan/models"
	"storepulse/internal/actionplan/service"
	"storepulse/internal/platform/logger"
	"storepulse/internal/platform/middleware"
	id "storepulse/pkg/domain"
	dErrors "storepulse/pkg/domain-errors"
)

type fixture struct {
	service *mocks.MockService
	router  chi.Router
	actor   id.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		service: mocks.NewMockService(ctrl),
		actor:   id.Actor{ID: "u-1", Name: "Dina", Role: id.RoleStore},
	}

	h := handler.New(f.service, logger.New())
	f.router = chi.NewRouter()
	f.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithActor(r.Context(), f.actor)))
		})
	})
	h.Register(f.router)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func testPlan(planID id.PlanID) *models.ActionPlan {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	plan, err := models.NewActionPlan(
		planID, id.NewStoreID(), id.NewEvaluationID(),
		"Wave 2", "A", "A. Service Quality", 75,
		[]models.PlanItem{}, now.Add(14*24*time.Hour), now,
	)
	if err != nil {
		panic(err)
	}
	return plan
}

func TestGetPlan(t *testing.T) {
	f := newFixture(t)
	planID := id.NewPlanID()
	plan := testPlan(planID)

	f.service.EXPECT().GetPlan(gomock.Any(), planID).Return(plan, nil)

	rec := f.do(t, http.MethodGet, "/plans/"+planID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, planID.String(), resp.ID)
	assert.Equal(t, "Wave 2", resp.Wave)
	assert.Equal(t, string(models.StatusRequiresAction), resp.Status)
	assert.False(t, resp.Overdue, "due date is in the future")
}

func TestGetPlan_NotFound(t *testing.T) {
	f := newFixture(t)
	planID := id.NewPlanID()

	f.service.EXPECT().GetPlan(gomock.Any(), planID).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "action plan not found"))

	rec := f.do(t, http.MethodGet, "/plans/"+planID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPlan_InvalidID(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/plans/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	planID := id.NewPlanID()
	plan := testPlan(planID)
	plan.Status = models.StatusWaitingForApproval

	f.service.EXPECT().
		Submit(gomock.Any(), planID, f.actor, models.Submission{
			RootCause:      "New hires missed onboarding",
			Commitment:     "Re-run onboarding this week",
			PersonInCharge: "Dina",
		}).
		Return(plan, nil)

	// Whitespace is trimmed before the service sees the submission.
	body := `{
		"root_cause": "  New hires missed onboarding ",
		"commitment": "Re-run onboarding this week",
		"person_in_charge": " Dina "
	}`
	rec := f.do(t, http.MethodPost, "/plans/"+planID.String()+"/submit", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(models.StatusWaitingForApproval), resp.Status)
}

func TestSubmit_InvalidBody(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/plans/"+id.NewPlanID().String()+"/submit", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_BlankRootCause(t *testing.T) {
	f := newFixture(t)
	body := `{"root_cause": "   ", "commitment": "do it", "person_in_charge": "Dina"}`
	rec := f.do(t, http.MethodPost, "/plans/"+id.NewPlanID().String()+"/submit", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_InvalidEvidenceURL(t *testing.T) {
	f := newFixture(t)
	body := `{
		"root_cause": "cause", "commitment": "fix", "person_in_charge": "Dina",
		"evidence_url": "not a url"
	}`
	rec := f.do(t, http.MethodPost, "/plans/"+id.NewPlanID().String()+"/submit", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApprove_NoteOptional(t *testing.T) {
	f := newFixture(t)
	f.actor = id.Actor{ID: "mgr-1", Name: "Budi", Role: id.RoleBranch}
	planID := id.NewPlanID()
	plan := testPlan(planID)
	plan.Status = models.StatusApproved

	f.service.EXPECT().Approve(gomock.Any(), planID, f.actor, "").Return(plan, nil)

	rec := f.do(t, http.MethodPost, "/plans/"+planID.String()+"/approve", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApprove_InvalidStateConflicts(t *testing.T) {
	f := newFixture(t)
	planID := id.NewPlanID()

	f.service.EXPECT().Approve(gomock.Any(), planID, gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInvalidState, "cannot approve from Requires Action"))

	rec := f.do(t, http.MethodPost, "/plans/"+planID.String()+"/approve", "{}")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReject_RequiresReason(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/plans/"+id.NewPlanID().String()+"/reject", `{"reason": "  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	planID := id.NewPlanID()
	plan := testPlan(planID)
	plan.Status = models.StatusRevisionRequired

	f.service.EXPECT().Reject(gomock.Any(), planID, f.actor, "Commitment has no date").Return(plan, nil)

	rec := f.do(t, http.MethodPost, "/plans/"+planID.String()+"/reject", `{"reason": "Commitment has no date"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(models.StatusRevisionRequired), resp.Status)
}

func TestQueueStats(t *testing.T) {
	f := newFixture(t)
	f.service.EXPECT().QueueStats(gomock.Any()).
		Return(service.QueueStats{Length: 3, OldestAge: 90 * time.Minute}, nil)

	rec := f.do(t, http.MethodGet, "/plans/queue/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats service.QueueStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Length)
}

func TestOverdue(t *testing.T) {
	f := newFixture(t)
	f.service.EXPECT().Overdue(gomock.Any()).Return(&service.OverdueReport{Total: 2}, nil)

	rec := f.do(t, http.MethodGet, "/plans/overdue", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report service.OverdueReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Total)
}

func TestListByWave(t *testing.T) {
	f := newFixture(t)
	plans := []*models.ActionPlan{testPlan(id.NewPlanID()), testPlan(id.NewPlanID())}

	f.service.EXPECT().ListByWave(gomock.Any(), "Wave 2").Return(plans, nil)

	rec := f.do(t, http.MethodGet, "/waves/Wave%202/plans", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Plans []handler.PlanResponse `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Plans, 2)
}
