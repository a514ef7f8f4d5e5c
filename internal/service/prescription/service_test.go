package prescription

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

type fakePrescriptionRepo struct {
	mu            sync.Mutex
	prescriptions map[uuid.UUID]*model.Prescription
	items         map[uuid.UUID][]*model.PrescriptionItem
}

func newFakePrescriptionRepo() *fakePrescriptionRepo {
	return &fakePrescriptionRepo{
		prescriptions: make(map[uuid.UUID]*model.Prescription),
		items:         make(map[uuid.UUID][]*model.PrescriptionItem),
	}
}

func (r *fakePrescriptionRepo) Create(_ context.Context, p *model.Prescription, items []*model.PrescriptionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New()
	p.PrescriptionDate = time.Now()
	r.prescriptions[p.ID] = p
	for _, item := range items {
		item.ID = uuid.New()
		item.PrescriptionID = p.ID
		r.items[p.ID] = append(r.items[p.ID], item)
	}
	return nil
}

func (r *fakePrescriptionRepo) Get(_ context.Context, id uuid.UUID) (*model.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.prescriptions[id]; ok {
		return p, nil
	}
	return nil, apperrors.NotFound("prescription", nil)
}

func (r *fakePrescriptionRepo) Update(_ context.Context, p *model.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prescriptions[p.ID] = p
	return nil
}

func (r *fakePrescriptionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.prescriptions, id)
	return nil
}

func (r *fakePrescriptionRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Prescription
	for _, p := range r.prescriptions {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePrescriptionRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Prescription
	for _, p := range r.prescriptions {
		if p.DoctorID == doctorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePrescriptionRepo) AddItem(_ context.Context, item *model.PrescriptionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = uuid.New()
	r.items[item.PrescriptionID] = append(r.items[item.PrescriptionID], item)
	return nil
}

func (r *fakePrescriptionRepo) GetItems(_ context.Context, prescriptionID uuid.UUID) ([]*model.PrescriptionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[prescriptionID], nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = uuid.New()
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
}
func (r *fakeOutboxRepo) MarkCompleted(_ context.Context, _ uuid.UUID) error { return nil }
func (r *fakeOutboxRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
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

	doctor  *model.User
	second  *model.User
	patient *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	users := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	repo := newFakePrescriptionRepo()
	auditor := audit.NewService(&fakeAuditRepo{}, log)
	svc := NewService(repo, users, &fakeOutboxRepo{}, auditor, log)

	doctor := &model.User{Username: "drrao", Role: model.RoleDoctor, FullName: "Dr. Rao"}
	second := &model.User{Username: "drmehta", Role: model.RoleDoctor, FullName: "Dr. Mehta"}
	patient := &model.User{Username: "asha", Role: model.RolePatient, FullName: "Asha"}
	require.NoError(t, users.Create(context.Background(), doctor))
	require.NoError(t, users.Create(context.Background(), second))
	require.NoError(t, users.Create(context.Background(), patient))

	return &testEnv{svc: svc, users: users, doctor: doctor, second: second, patient: patient}
}

func (e *testEnv) doctorActor() access.Actor {
	return access.Actor{ID: e.doctor.ID, Role: model.RoleDoctor}
}

func (e *testEnv) secondDoctorActor() access.Actor {
	return access.Actor{ID: e.second.ID, Role: model.RoleDoctor}
}

func (e *testEnv) patientActor() access.Actor {
	return access.Actor{ID: e.patient.ID, Role: model.RolePatient}
}

func (e *testEnv) prescribe(t *testing.T, actor access.Actor) *model.PrescriptionDetail {
	t.Helper()
	detail, err := e.svc.Create(context.Background(), actor, &model.CreatePrescriptionRequest{
		PatientID: e.patient.ID,
		Items: []*model.PrescriptionItemRequest{
			{MedicationName: "amoxicillin", Dosage: "500mg", Frequency: "tds", Duration: "5 days"},
		},
	})
	require.NoError(t, err)
	return detail
}

func TestListDefaultsToCallerScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.prescribe(t, env.doctorActor())
	env.prescribe(t, env.secondDoctorActor())

	// unfiltered: each doctor sees only what they prescribed
	mine, err := env.svc.List(ctx, env.doctorActor(), uuid.Nil, uuid.Nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, env.doctor.ID, mine[0].DoctorID)

	// unfiltered: the patient sees everything prescribed to them
	received, err := env.svc.List(ctx, env.patientActor(), uuid.Nil, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, received, 2)
}

func TestListByDoctorFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.prescribe(t, env.doctorActor())
	env.prescribe(t, env.secondDoctorActor())

	listed, err := env.svc.List(ctx, env.doctorActor(), uuid.Nil, env.second.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, env.second.ID, listed[0].DoctorID)

	// patients cannot browse by doctor
	_, err = env.svc.List(ctx, env.patientActor(), uuid.Nil, env.doctor.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestListByPatientFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.prescribe(t, env.doctorActor())

	listed, err := env.svc.List(ctx, env.doctorActor(), env.patient.ID, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	// a patient may use the filter for themselves but not for others
	listed, err = env.svc.List(ctx, env.patientActor(), env.patient.ID, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	other := &model.User{Username: "ravi", Role: model.RolePatient}
	require.NoError(t, env.users.Create(ctx, other))
	_, err = env.svc.List(ctx, access.Actor{ID: other.ID, Role: model.RolePatient}, env.patient.ID, uuid.Nil)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestPatientCannotPrescribe(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), env.patientActor(), &model.CreatePrescriptionRequest{
		PatientID: env.patient.ID,
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}
