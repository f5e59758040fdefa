package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/changhyun152521/tbc-sub001/access"
	"github.com/changhyun152521/tbc-sub001/apperr"
	"github.com/changhyun152521/tbc-sub001/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Teacher{}, &models.Student{}, &models.ClassGroup{},
		&models.ClassTeacher{}, &models.ClassStudent{},
		&models.LessonDay{}, &models.Period{}, &models.StudentRecord{},
	))
	return db
}

// fixture: one class with one teacher and two students, plus a teacher
// outside the class's teacher set.
type fixture struct {
	db       *gorm.DB
	class    models.ClassGroup
	teacher  models.Teacher
	outsider models.Teacher
	students []models.Student
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{db: openTestDB(t)}
	f.teacher = models.Teacher{TeacherCode: "T-001", FirstName: "Dana", LastName: "Kim", Email: "dana@example.com"}
	f.outsider = models.Teacher{TeacherCode: "T-002", FirstName: "Minho", LastName: "Lee", Email: "minho@example.com"}
	require.NoError(t, f.db.Create(&f.teacher).Error)
	require.NoError(t, f.db.Create(&f.outsider).Error)

	f.class = models.ClassGroup{Name: "Math A"}
	require.NoError(t, f.db.Create(&f.class).Error)
	require.NoError(t, f.db.Create(&models.ClassTeacher{ClassGroupID: f.class.ID, TeacherID: f.teacher.ID}).Error)

	for _, code := range []string{"S-001", "S-002"} {
		s := models.Student{StudentCode: code, FirstName: "Hana", LastName: "Choi"}
		require.NoError(t, f.db.Create(&s).Error)
		require.NoError(t, f.db.Create(&models.ClassStudent{ClassGroupID: f.class.ID, StudentID: s.ID}).Error)
		f.students = append(f.students, s)
	}
	return f
}

func (f *fixture) teacherActor() access.Actor {
	id := f.teacher.ID
	return access.Actor{UserID: 1, Role: models.RoleTeacher, TeacherID: &id}
}

func (f *fixture) outsiderActor() access.Actor {
	id := f.outsider.ID
	return access.Actor{UserID: 2, Role: models.RoleTeacher, TeacherID: &id}
}

func TestCreateLessonDaySecondSameDateConflict(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.db)

	_, err := svc.CreateLessonDay(f.teacherActor(), f.class.ID, "2024-03-01")
	require.NoError(t, err)

	_, err = svc.CreateLessonDay(f.teacherActor(), f.class.ID, "2024-03-01")
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Equal(t, "LESSON_DAY_EXISTS", apperr.CodeOf(err))

	var count int64
	require.NoError(t, f.db.Model(&models.LessonDay{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateDayDuplicateKeyTranslatedToConflict(t *testing.T) {
	// the pre-insert existence check races with concurrent creates; when
	// the unique index on (class, date) fires instead, the failure must
	// still come back as the same Conflict
	f := newFixture(t)
	svc := NewService(f.db)

	first := models.LessonDay{ID: "day-1", ClassGroupID: f.class.ID, Date: "2024-03-01"}
	require.NoError(t, f.db.Create(&first).Error)

	dup := models.LessonDay{ID: "day-2", ClassGroupID: f.class.ID, Date: "2024-03-01"}
	err := svc.createDay(&dup)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Equal(t, "LESSON_DAY_EXISTS", apperr.CodeOf(err))
}

func TestCreateLessonDayOutsiderTeacherForbidden(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.db)

	_, err := svc.CreateLessonDay(f.outsiderActor(), f.class.ID, "2024-03-01")
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}

func TestAddPeriodOutsiderTeacherForbidden(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.db)

	day, err := svc.CreateLessonDay(f.teacherActor(), f.class.ID, "2024-03-01")
	require.NoError(t, err)

	_, err = svc.AddPeriod(f.outsiderActor(), day.ID, f.outsider.ID)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	// nothing was appended
	var count int64
	require.NoError(t, f.db.Model(&models.Period{}).Where("lesson_day_id = ?", day.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddPeriodSeedsCurrentMembers(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.db)

	day, err := svc.CreateLessonDay(f.teacherActor(), f.class.ID, "2024-03-01")
	require.NoError(t, err)

	day, err = svc.AddPeriod(f.teacherActor(), day.ID, f.teacher.ID)
	require.NoError(t, err)
	require.Len(t, day.Periods, 1)
	require.Len(t, day.Periods[0].Records, len(f.students))
	for _, r := range day.Periods[0].Records {
		assert.Equal(t, models.AttendanceUnset, r.Attendance)
		assert.Equal(t, models.HomeworkUnset, r.Homework)
	}
}

func TestListLessonDaysTeacherWithoutLinkSeesNothing(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.db)

	_, err := svc.CreateLessonDay(access.Actor{UserID: 3, Role: models.RoleAdmin}, f.class.ID, "2024-03-01")
	require.NoError(t, err)

	rows, err := svc.ListLessonDays(access.Actor{UserID: 4, Role: models.RoleTeacher}, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
