package directory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehr/clinicdesk/internal/domain/identity"
	"github.com/ehr/clinicdesk/internal/domain/identity/identitytest"
	"github.com/ehr/clinicdesk/internal/domain/scheduling"
	"github.com/ehr/clinicdesk/internal/platform/flatfile"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const (
	patientFile = "credentials.txt"
	doctorFile  = "userIdDB.txt"
	regFile     = "admin.txt"
	apptFile    = "appointments.txt"
)

type fixture struct {
	fs  afero.Fs
	svc *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fsys := afero.NewMemMapFs()
	reg := flatfile.NewRegistry(fsys, zerolog.Nop())
	people := identity.NewService(
		identity.NewPersonRepoFile(reg.Table(patientFile, identity.PersonColumns), identity.KindPatient),
		identity.NewPersonRepoFile(reg.Table(doctorFile, identity.PersonColumns), identity.KindDoctor),
		zerolog.Nop(),
	)
	sched := scheduling.NewService(
		scheduling.NewRegistrationRepoFile(reg.Table(regFile, scheduling.RegistrationColumns)),
		scheduling.NewAppointmentRepoFile(reg.Table(apptFile, scheduling.AppointmentColumns)),
		zerolog.Nop(),
	)
	return &fixture{fs: fsys, svc: NewService(people, sched)}
}

func (f *fixture) seed(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(f.fs, path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func (f *fixture) lineCount(t *testing.T, path string) int {
	t.Helper()
	raw, err := afero.ReadFile(f.fs, path)
	if errors.Is(err, afero.ErrFileNotFound) {
		return 0
	}
	require.NoError(t, err)
	return strings.Count(string(raw), "\n")
}

func personRow(id, first, last string) string {
	return id + ",pw" + id + "," + first + "," + last + "," + strings.ToLower(first) + "@example.com,555,1,Main St,Springfield,IL"
}

// ---------------------------------------------------------------------------
// People
// ---------------------------------------------------------------------------

func TestListAllOfKind_SkipsShortDoctorRow(t *testing.T) {
	f := newFixture(t)
	f.seed(t, doctorFile,
		personRow("D0001", "Gregory", "House"),
		"D0002,pw,James,Wilson,wilson@example.com,555",
		personRow("D0003", "Lisa", "Cuddy"),
	)

	doctors, err := f.svc.ListAllOfKind(context.Background(), identity.KindDoctor)
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "D0001", doctors[0].ID)
	assert.Equal(t, "D0003", doctors[1].ID)
}

func TestListAllOfKind_NoFile(t *testing.T) {
	f := newFixture(t)

	patients, err := f.svc.ListAllOfKind(context.Background(), identity.KindPatient)
	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestFindPersonByID(t *testing.T) {
	f := newFixture(t)
	f.seed(t, patientFile, personRow("P0001", "Ada", "Lovelace"))

	p, err := f.svc.FindPersonByID(context.Background(), identity.KindPatient, "P0001")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.FullName())

	_, err = f.svc.FindPersonByID(context.Background(), identity.KindDoctor, "P0001")
	assert.ErrorIs(t, err, identity.ErrPersonNotFound)
}

func TestPatientsOfDoctor(t *testing.T) {
	f := newFixture(t)
	f.seed(t, patientFile,
		personRow("P0001", "Ada", "Lovelace"),
		personRow("P0002", "Alan", "Turing"),
		personRow("P0003", "Grace", "Hopper"),
	)
	f.seed(t, regFile,
		"P0003,D0001",
		"P0002,D0002",
		"P0009,D0001",
		"P0001,D0001",
		"P0003,D0001",
	)

	patients, err := f.svc.PatientsOfDoctor(context.Background(), "D0001")
	require.NoError(t, err)

	var ids []string
	for _, p := range patients {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"P0003", "P0001"}, ids, "dangling P0009 dropped, duplicate P0003 listed once")
}

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func TestDoctorOfPatient(t *testing.T) {
	f := newFixture(t)
	f.seed(t, regFile, "P0001,D0002", "P0001,D0003")

	doc, err := f.svc.DoctorOfPatient(context.Background(), "P0001")
	require.NoError(t, err)
	assert.Equal(t, "D0002", doc)

	_, err = f.svc.DoctorOfPatient(context.Background(), "P0002")
	assert.ErrorIs(t, err, scheduling.ErrNotRegistered)
}

func TestRegisterPatientWithDoctor(t *testing.T) {
	f := newFixture(t)
	f.seed(t, patientFile, personRow("P0001", "Ada", "Lovelace"))
	f.seed(t, doctorFile, personRow("D0001", "Gregory", "House"))
	ctx := context.Background()

	require.NoError(t, f.svc.RegisterPatientWithDoctor(ctx, "P0001", "D0001"))
	require.NoError(t, f.svc.RegisterPatientWithDoctor(ctx, "P0001", "D0001"))
	assert.Equal(t, 2, f.lineCount(t, regFile), "duplicate registrations are kept")

	err := f.svc.RegisterPatientWithDoctor(ctx, "P0001", "D0404")
	assert.ErrorIs(t, err, identity.ErrPersonNotFound)
	assert.Equal(t, 2, f.lineCount(t, regFile))
}

func TestRegisteredDoctor(t *testing.T) {
	f := newFixture(t)
	f.seed(t, doctorFile, personRow("D0001", "Gregory", "House"))
	f.seed(t, regFile, "P0001,D0001")

	doc, err := f.svc.RegisteredDoctor(context.Background(), "P0001")
	require.NoError(t, err)
	assert.Equal(t, "Gregory House", doc.FullName())
}

// ---------------------------------------------------------------------------
// Appointments
// ---------------------------------------------------------------------------

func TestBookAppointment_ExistingRegistration(t *testing.T) {
	f := newFixture(t)
	f.seed(t, regFile, "P0001,D0001")

	a, err := f.svc.BookAppointment(context.Background(), "P0001", "D0001", "2024-01-01", "09:00", "checkup")
	require.NoError(t, err)
	assert.Equal(t, "D0001", a.DoctorID)

	assert.Equal(t, 1, f.lineCount(t, apptFile))
	assert.Equal(t, 1, f.lineCount(t, regFile), "no new registration rows")
}

func TestBookAppointment_RegistersNewPatient(t *testing.T) {
	f := newFixture(t)
	f.seed(t, doctorFile, personRow("D0002", "James", "Wilson"))

	_, err := f.svc.BookAppointment(context.Background(), "P0001", "D0002", "2024-03-01", "10:15", "")
	require.NoError(t, err)

	doc, err := f.svc.DoctorOfPatient(context.Background(), "P0001")
	require.NoError(t, err)
	assert.Equal(t, "D0002", doc)
	assert.Equal(t, 1, f.lineCount(t, apptFile))
}

func TestBookAppointment_UnknownDoctor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.BookAppointment(context.Background(), "P0001", "D0404", "2024-03-01", "10:15", "")
	assert.ErrorIs(t, err, identity.ErrPersonNotFound)
	assert.Equal(t, 0, f.lineCount(t, regFile))
	assert.Equal(t, 0, f.lineCount(t, apptFile))
}

func TestAppointmentsOf(t *testing.T) {
	f := newFixture(t)
	f.seed(t, apptFile,
		"P0001,D0001,2024-01-01,09:00,a",
		"P0002,D0001,2024-01-01,10:00,b",
		"P0001,D0002,2024-01-02,09:00,c",
	)
	ctx := context.Background()

	byPatient, err := f.svc.AppointmentsOf(ctx, identity.KindPatient, "P0001")
	require.NoError(t, err)
	require.Len(t, byPatient, 2)
	assert.Equal(t, "a", byPatient[0].Notes)
	assert.Equal(t, "c", byPatient[1].Notes)

	byDoctor, err := f.svc.AppointmentsOf(ctx, identity.KindDoctor, "D0001")
	require.NoError(t, err)
	require.Len(t, byDoctor, 2)
	assert.Equal(t, "a", byDoctor[0].Notes)
	assert.Equal(t, "b", byDoctor[1].Notes)

	_, err = f.svc.AppointmentsOf(ctx, identity.Kind("nurse"), "N0001")
	assert.Error(t, err)
}

func TestMostRecentDoctorFor(t *testing.T) {
	f := newFixture(t)
	f.seed(t, apptFile,
		"P0001,D0001,2024-06-01,09:00,first",
		"P0001,D0002,2024-01-01,09:00,second",
	)

	doc, err := f.svc.MostRecentDoctorFor(context.Background(), "P0001")
	require.NoError(t, err)
	assert.Equal(t, "D0002", doc)
}

func TestMyDoctor(t *testing.T) {
	f := newFixture(t)
	f.seed(t, doctorFile, personRow("D0002", "James", "Wilson"))
	f.seed(t, apptFile, "P0001,D0002,2024-01-01,09:00,x")

	doc, err := f.svc.MyDoctor(context.Background(), "P0001")
	require.NoError(t, err)
	assert.Equal(t, "D0002", doc.ID)

	_, err = f.svc.MyDoctor(context.Background(), "P0002")
	assert.ErrorIs(t, err, scheduling.ErrNoAppointments)
}

func TestAppointmentHistory_ResolvesNames(t *testing.T) {
	f := newFixture(t)
	f.seed(t, patientFile, personRow("P0001", "Ada", "Lovelace"))
	f.seed(t, doctorFile, personRow("D0001", "Gregory", "House"))
	f.seed(t, apptFile,
		"P0001,D0001,2024-01-01,09:00,a",
		"P0001,D0404,2024-01-02,09:00,b",
	)

	views, err := f.svc.AppointmentHistory(context.Background(), identity.KindPatient, "P0001")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Gregory House", views[0].DoctorName)
	assert.Equal(t, "Ada Lovelace", views[0].PatientName)
	assert.Equal(t, UnknownDoctor, views[1].DoctorName)
	assert.Equal(t, "2024-01-02", views[1].Date)
}

func TestAppointmentsBetween(t *testing.T) {
	f := newFixture(t)
	f.seed(t, patientFile, personRow("P0001", "Ada", "Lovelace"))
	f.seed(t, regFile, "P0001,D0001")
	f.seed(t, apptFile,
		"P0001,D0001,2024-01-01,09:00,a",
		"P0001,D0002,2024-01-02,09:00,b",
		"P0001,D0001,2024-01-03,09:00,c",
	)
	ctx := context.Background()

	views, err := f.svc.AppointmentsBetween(ctx, "D0001", "P0001")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "a", views[0].Notes)
	assert.Equal(t, "c", views[1].Notes)
	assert.Equal(t, UnknownDoctor, views[0].DoctorName)

	_, err = f.svc.AppointmentsBetween(ctx, "D0002", "P0001")
	assert.ErrorIs(t, err, scheduling.ErrNotRegistered)
}

func TestEndToEnd_CreatedPeopleBookAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doctor := identitytest.NewPerson()
	require.NoError(t, f.svc.AddPerson(ctx, identity.KindDoctor, doctor))
	patient := identitytest.NewPerson()
	require.NoError(t, f.svc.AddPerson(ctx, identity.KindPatient, patient))

	_, err := f.svc.BookAppointment(ctx, patient.ID, doctor.ID, "2024-04-01", "08:30", "intake")
	require.NoError(t, err)
	_, err = f.svc.BookAppointment(ctx, patient.ID, "", "2024-05-01", "08:30", "review")
	require.NoError(t, err)

	patients, err := f.svc.PatientsOfDoctor(ctx, doctor.ID)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, patient.ID, patients[0].ID)

	history, err := f.svc.AppointmentHistory(ctx, identity.KindDoctor, doctor.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, patient.FullName(), history[1].PatientName)
	assert.Equal(t, "review", history[1].Notes)
}
