package create_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got  *createAppointment.Request
	resp *createAppointment.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	f.got = req
	return f.resp, f.err
}

const validBody = `{
	"branchId": 1,
	"serviceId": 2,
	"appointmentDate": "2025-06-02",
	"startTime": "10:00",
	"customer": {"firstName": "Thandi", "lastName": "Mokoena", "email": "thandi@example.com"}
}`

func serve(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: &models.AppointmentResponse{
		ID:               7,
		ConfirmationCode: "APT-20250602-AB12C",
		StartTime:        "10:00",
		EndTime:          "10:30",
		Status:           "confirmed",
	}}

	rec := serve(uc, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body models.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "APT-20250602-AB12C", body.ConfirmationCode)
	assert.Equal(t, "10:30", body.EndTime)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(1), uc.got.BranchID)
	assert.Equal(t, "2025-06-02", uc.got.Date.Format(domain.DateFormat))
	assert.Equal(t, "thandi@example.com", uc.got.Customer.Email)
}

func TestHandle_BadRequestBeforeUseCase(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{"},
		{name: "bad date", body: strings.Replace(validBody, "2025-06-02", "02.06.2025", 1)},
		{name: "bad time", body: strings.Replace(validBody, `"10:00"`, `"10h"`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}

			rec := serve(uc, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantText   string
	}{
		{name: "off grid", err: domain.ErrInvalidSlot, wantStatus: http.StatusBadRequest, wantText: "15-minute increments"},
		{name: "closed", err: domain.ErrBranchClosed, wantStatus: http.StatusBadRequest, wantText: "closed"},
		{name: "outside hours", err: fmt.Errorf("%w: 16:45-17:15", domain.ErrOutsideOperatingHours), wantStatus: http.StatusBadRequest},
		{name: "invalid input", err: fmt.Errorf("%w: invalid customer email", createAppointment.ErrInvalidInput), wantStatus: http.StatusBadRequest, wantText: msgInvalidInput},
		{name: "past date", err: fmt.Errorf("%w: 2020-01-06", createAppointment.ErrInvalidDate), wantStatus: http.StatusBadRequest, wantText: msgPastDate},
		{name: "too far ahead", err: fmt.Errorf("%w: 90 days", createAppointment.ErrDateTooFarInFuture), wantStatus: http.StatusBadRequest, wantText: msgDateTooFar},
		{name: "service not found", err: createAppointment.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "branch not found", err: createAppointment.ErrBranchNotFound, wantStatus: http.StatusNotFound},
		{name: "customer conflict", err: &domain.CustomerConflictError{AppointmentID: 3, BranchName: "Sandton"}, wantStatus: http.StatusConflict, wantText: "Sandton"},
		{name: "slot unavailable", err: fmt.Errorf("%w: pq: duplicate key", domain.ErrSlotUnavailable), wantStatus: http.StatusConflict, wantText: "no consultants available"},
		{name: "no consultant", err: domain.ErrNoConsultantAvailable, wantStatus: http.StatusConflict, wantText: "no consultants available"},
		{name: "code exhausted", err: fmt.Errorf("%w: 10 attempts", domain.ErrCodeGenerationExhausted), wantStatus: http.StatusInternalServerError},
		{name: "internal", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, validBody)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantText != "" {
				assert.Contains(t, body.Message, tt.wantText)
			}
			assert.NotContains(t, body.Message, "pq:")
			assert.NotContains(t, body.Message, "create_appointment")
		})
	}
}
