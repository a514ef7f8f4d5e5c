package medical

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guhospital/hms-api/internal/access"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/service/audit"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
	"github.com/guhospital/hms-api/pkg/logger"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = uuid.New()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) Update(_ context.Context, _ *model.User) error { return nil }
func (r *fakeUserRepo) Delete(_ context.Context, _ uuid.UUID) error   { return nil }
func (r *fakeUserRepo) List(_ context.Context, _ string) ([]*model.User, error) {
	return nil, nil
}

type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*model.MedicalRecord
}

func (r *fakeRecordRepo) Create(_ context.Context, record *model.MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = uuid.New()
	record.RecordDate = time.Now()
	r.records[record.ID] = record
	return nil
}

func (r *fakeRecordRepo) Get(_ context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok {
		return rec, nil
	}
	return nil, apperrors.NotFound("medical record", nil)
}

func (r *fakeRecordRepo) Update(_ context.Context, record *model.MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = record
	return nil
}

func (r *fakeRecordRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}

func (r *fakeRecordRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.MedicalRecord
	for _, rec := range r.records {
		if rec.PatientID == patientID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRecordRepo) List(_ context.Context) ([]*model.MedicalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.MedicalRecord
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}

type fakeFileRepo struct{}

func (r *fakeFileRepo) Create(_ context.Context, _ *model.MedicalFile) error { return nil }
func (r *fakeFileRepo) Get(_ context.Context, _ uuid.UUID) (*model.MedicalFile, error) {
	return nil, apperrors.NotFound("medical file", nil)
}
func (r *fakeFileRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (r *fakeFileRepo) ListByPatient(_ context.Context, _ uuid.UUID) ([]*model.MedicalFile, error) {
	return nil, nil
}

type fakeAuditRepo struct{}

func (r *fakeAuditRepo) Create(_ context.Context, _ *model.AuditLog) error { return nil }
func (r *fakeAuditRepo) ListByResource(_ context.Context, _ string, _ uuid.UUID) ([]*model.AuditLog, error) {
	return nil, nil
}
func (r *fakeAuditRepo) DeleteBefore(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

type testEnv struct {
	svc   *Service
	users *fakeUserRepo

	doctor   *model.User
	patient  *model.User
	otherPat *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	users := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	records := &fakeRecordRepo{records: make(map[uuid.UUID]*model.MedicalRecord)}
	auditor := audit.NewService(&fakeAuditRepo{}, log)
	svc := NewService(records, &fakeFileRepo{}, users, auditor)

	doctor := &model.User{Username: "drrao", Role: model.RoleDoctor, FullName: "Dr. Rao"}
	patient := &model.User{Username: "asha", Role: model.RolePatient, FullName: "Asha"}
	otherPat := &model.User{Username: "ravi", Role: model.RolePatient, FullName: "Ravi"}
	require.NoError(t, users.Create(context.Background(), doctor))
	require.NoError(t, users.Create(context.Background(), patient))
	require.NoError(t, users.Create(context.Background(), otherPat))

	return &testEnv{svc: svc, users: users, doctor: doctor, patient: patient, otherPat: otherPat}
}

func (e *testEnv) doctorActor() access.Actor {
	return access.Actor{ID: e.doctor.ID, Role: model.RoleDoctor}
}

func (e *testEnv) patientActor() access.Actor {
	return access.Actor{ID: e.patient.ID, Role: model.RolePatient}
}

func (e *testEnv) addRecord(t *testing.T, patientID uuid.UUID) *model.MedicalRecord {
	t.Helper()
	diagnosis := "seasonal flu"
	record, err := e.svc.CreateRecord(context.Background(), e.doctorActor(), &model.CreateMedicalRecordRequest{
		PatientID: patientID,
		Diagnosis: &diagnosis,
	})
	require.NoError(t, err)
	return record
}

func TestListRecordsUnfilteredIsDoctorOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addRecord(t, env.patient.ID)
	env.addRecord(t, env.otherPat.ID)

	records, err := env.svc.ListRecords(ctx, env.doctorActor(), uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = env.svc.ListRecords(ctx, env.patientActor(), uuid.Nil)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestListRecordsByPatientScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addRecord(t, env.patient.ID)
	env.addRecord(t, env.otherPat.ID)

	// the patient can list their own
	records, err := env.svc.ListRecords(ctx, env.patientActor(), env.patient.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, env.patient.ID, records[0].PatientID)

	// but not another patient's
	_, err = env.svc.ListRecords(ctx, env.patientActor(), env.otherPat.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestPatientCannotWriteRecords(t *testing.T) {
	env := newTestEnv(t)

	diagnosis := "self diagnosis"
	_, err := env.svc.CreateRecord(context.Background(), env.patientActor(), &model.CreateMedicalRecordRequest{
		PatientID: env.patient.ID,
		Diagnosis: &diagnosis,
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}
