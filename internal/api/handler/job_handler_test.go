package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeply/marketplace-be/internal/domain"
	"github.com/sweeply/marketplace-be/internal/lifecycle"
)

type stubJobService struct {
	job  *domain.Job
	jobs []domain.Job
	err  error

	gotInput  lifecycle.CreateJobInput
	gotJobID  string
	gotCaller domain.Principal
	gotPatch  domain.JobPatch
}

func (s *stubJobService) CreateJob(_ context.Context, caller domain.Principal, in lifecycle.CreateJobInput) (*domain.Job, error) {
	s.gotCaller = caller
	s.gotInput = in
	return s.job, s.err
}

func (s *stubJobService) AcceptJob(_ context.Context, caller domain.Principal, jobID string) (*domain.Job, error) {
	s.gotCaller = caller
	s.gotJobID = jobID
	return s.job, s.err
}

func (s *stubJobService) CancelJob(_ context.Context, caller domain.Principal, jobID string) (*domain.Job, error) {
	s.gotCaller = caller
	s.gotJobID = jobID
	return s.job, s.err
}

func (s *stubJobService) CancelOrder(_ context.Context, caller domain.Principal, jobID string) (*domain.Job, error) {
	s.gotCaller = caller
	s.gotJobID = jobID
	return s.job, s.err
}

func (s *stubJobService) ReactivateJob(_ context.Context, caller domain.Principal, jobID string) (*domain.Job, error) {
	s.gotCaller = caller
	s.gotJobID = jobID
	return s.job, s.err
}

func (s *stubJobService) UpdateJob(_ context.Context, caller domain.Principal, jobID string, patch domain.JobPatch) (*domain.Job, error) {
	s.gotCaller = caller
	s.gotJobID = jobID
	s.gotPatch = patch
	return s.job, s.err
}

func (s *stubJobService) GetJobs(context.Context) ([]domain.Job, error) {
	return s.jobs, s.err
}

func (s *stubJobService) GetJobByID(_ context.Context, jobID string) (*domain.Job, error) {
	s.gotJobID = jobID
	return s.job, s.err
}

func (s *stubJobService) GetJobsByClientID(_ context.Context, clientID string) ([]domain.Job, error) {
	s.gotJobID = clientID
	return s.jobs, s.err
}

func (s *stubJobService) GetClientJobs(_ context.Context, caller domain.Principal) ([]domain.OwnedJob, error) {
	s.gotCaller = caller
	return nil, s.err
}

func (s *stubJobService) GetMyJobs(_ context.Context, caller domain.Principal) ([]domain.AssignedJob, error) {
	s.gotCaller = caller
	return nil, s.err
}

func testJobHandler(svc *stubJobService) *JobHandler {
	return NewJobHandler(&Dependencies{
		Logger: slog.New(slog.DiscardHandler),
		Jobs:   svc,
	})
}

func newTestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestJobHandler_CreateJob(t *testing.T) {
	t.Run("creates job for authenticated client", func(t *testing.T) {
		svc := &stubJobService{job: &domain.Job{
			JobID:    "job-1",
			ClientID: "client-1",
			Status:   domain.JobStatusPending,
			Title:    "Office deep clean",
		}}
		h := testJobHandler(svc)

		c, w := newTestContext(t, http.MethodPost, "/jobs",
			`{"title":"Office deep clean","workerQuantity":2,"price":150,"location":"District 1"}`)
		SetPrincipal(c, domain.Principal{ID: "client-1", Role: domain.RoleClient})

		h.CreateJob(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "client-1", svc.gotCaller.ID)
		assert.Equal(t, "Office deep clean", svc.gotInput.Title)
		assert.Equal(t, 2, svc.gotInput.WorkerQuantity)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "job-1", resp["jobId"])
		assert.Nil(t, resp["workerId"])
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		h := testJobHandler(&stubJobService{})

		c, w := newTestContext(t, http.MethodPost, "/jobs", `{"title":""}`)
		SetPrincipal(c, domain.Principal{ID: "client-1", Role: domain.RoleClient})

		h.CreateJob(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unauthenticated request", func(t *testing.T) {
		h := testJobHandler(&stubJobService{})

		c, w := newTestContext(t, http.MethodPost, "/jobs", `{}`)
		h.CreateJob(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestJobHandler_AcceptJob(t *testing.T) {
	t.Run("returns accepted job", func(t *testing.T) {
		svc := &stubJobService{job: &domain.Job{
			JobID:    "job-1",
			ClientID: "client-1",
			Status:   domain.JobStatusInProgress,
		}}
		h := testJobHandler(svc)

		c, w := newTestContext(t, http.MethodPost, "/jobs/job-1/accept", "")
		c.Params = gin.Params{{Key: "id", Value: "job-1"}}
		SetPrincipal(c, domain.Principal{ID: "worker-1", Role: domain.RoleWorker})

		h.AcceptJob(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "job-1", svc.gotJobID)
		assert.Equal(t, "worker-1", svc.gotCaller.ID)
	})

	t.Run("maps claimed job to conflict", func(t *testing.T) {
		h := testJobHandler(&stubJobService{err: domain.ErrJobTaken})

		c, w := newTestContext(t, http.MethodPost, "/jobs/job-1/accept", "")
		c.Params = gin.Params{{Key: "id", Value: "job-1"}}
		SetPrincipal(c, domain.Principal{ID: "worker-1", Role: domain.RoleWorker})

		h.AcceptJob(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("maps detached job to unprocessable", func(t *testing.T) {
		h := testJobHandler(&stubJobService{err: domain.ErrMissingClient})

		c, w := newTestContext(t, http.MethodPost, "/jobs/job-1/accept", "")
		c.Params = gin.Params{{Key: "id", Value: "job-1"}}
		SetPrincipal(c, domain.Principal{ID: "worker-1", Role: domain.RoleWorker})

		h.AcceptJob(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestJobHandler_GetJobByID(t *testing.T) {
	t.Run("maps missing job to not found", func(t *testing.T) {
		h := testJobHandler(&stubJobService{err: domain.ErrJobNotFound})

		c, w := newTestContext(t, http.MethodGet, "/jobs/absent", "")
		c.Params = gin.Params{{Key: "id", Value: "absent"}}

		h.GetJobByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("hides internal errors", func(t *testing.T) {
		h := testJobHandler(&stubJobService{err: assert.AnError})

		c, w := newTestContext(t, http.MethodGet, "/jobs/job-1", "")
		c.Params = gin.Params{{Key: "id", Value: "job-1"}}

		h.GetJobByID(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

func TestJobHandler_CancelOrder(t *testing.T) {
	t.Run("maps foreign posting to forbidden", func(t *testing.T) {
		h := testJobHandler(&stubJobService{err: domain.ErrForbidden})

		c, w := newTestContext(t, http.MethodPost, "/jobs/job-1/cancel-order", "")
		c.Params = gin.Params{{Key: "id", Value: "job-1"}}
		SetPrincipal(c, domain.Principal{ID: "intruder", Role: domain.RoleClient})

		h.CancelOrder(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestJobHandler_UpdateJob(t *testing.T) {
	t.Run("forwards only supplied fields", func(t *testing.T) {
		svc := &stubJobService{job: &domain.Job{JobID: "job-1", ClientID: "client-1"}}
		h := testJobHandler(svc)

		c, w := newTestContext(t, http.MethodPut, "/jobs/job-1", `{"price":200,"status":"pending"}`)
		c.Params = gin.Params{{Key: "id", Value: "job-1"}}
		SetPrincipal(c, domain.Principal{ID: "client-1", Role: domain.RoleClient})

		h.UpdateJob(c)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, svc.gotPatch.Price)
		assert.Equal(t, 200.0, *svc.gotPatch.Price)
		require.NotNil(t, svc.gotPatch.Status)
		assert.Equal(t, "pending", *svc.gotPatch.Status)
		assert.Nil(t, svc.gotPatch.Title)
	})
}

func TestJobHandler_GetJobs(t *testing.T) {
	svc := &stubJobService{jobs: []domain.Job{
		{JobID: "job-1", Status: domain.JobStatusPending},
		{JobID: "job-2", Status: domain.JobStatusPending},
	}}
	h := testJobHandler(svc)

	c, w := newTestContext(t, http.MethodGet, "/jobs", "")
	h.GetJobs(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}
