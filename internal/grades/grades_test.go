package grades

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/apperr"
	"github.com/Spok95/vocab-scale/internal/models"
)

type snapshot struct {
	users   []models.User
	answers []models.AnswerRecord
	err     error
}

func (s *snapshot) ListUsers(context.Context) ([]models.User, error) { return s.users, s.err }

func (s *snapshot) ListAnswers(context.Context) ([]models.AnswerRecord, error) {
	return s.answers, s.err
}

func (s *snapshot) student(name, class string, num int) string {
	n := num
	id := fmt.Sprintf("id-%s", name)
	s.users = append(s.users, models.User{ID: id, Seq: int64(len(s.users) + 1), Name: name, Role: models.Student, ClassName: class, StudentNum: &n})
	return id
}

func (s *snapshot) answer(id string, correct bool, points int) {
	s.answers = append(s.answers, models.AnswerRecord{ID: int64(len(s.answers) + 1), StudentID: id, IsCorrect: correct, Points: points})
}

// seeded mirrors the test data set: stu0..stu9, classes "1" and "2", plus one teacher.
func seeded() *snapshot {
	s := &snapshot{}
	for i := 0; i < 10; i++ {
		class := "1"
		if i >= 5 {
			class = "2"
		}
		s.student(fmt.Sprintf("stu%d", i), class, i)
	}
	s.users = append(s.users, models.User{ID: "id-teacher0", Seq: 11, Name: "teacher0", Role: models.Teacher})
	return s
}

func names(rows []models.GradeSummary) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestByNameSubstring_StudentsOnlyMatch(t *testing.T) {
	agg := NewAggregator(seeded(), zap.NewNop())
	rows, err := agg.ByNameSubstring(context.Background(), "STU")
	require.NoError(t, err)
	require.Len(t, rows, 10)
	for i, r := range rows {
		assert.Equal(t, fmt.Sprintf("stu%d", i), r.Name)
		assert.Zero(t, r.TotalAttempts)
		assert.Zero(t, r.Accuracy)
	}

	rows, err = agg.ByNameSubstring(context.Background(), "teach")
	require.NoError(t, err)
	assert.Equal(t, []string{"teacher0"}, names(rows))
}

func TestByClass_DescendingStable(t *testing.T) {
	s := &snapshot{}
	a := s.student("a", "1", 1)
	b := s.student("b", "1", 2)
	c := s.student("c", "1", 3)
	s.student("other", "2", 4)
	s.answer(a, true, 50)
	s.answer(b, true, 50)
	s.answer(b, true, 50)
	s.answer(c, true, 50)

	rows, err := NewAggregator(s, nil).ByClass(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, names(rows))
	assert.Equal(t, 100, rows[0].TotalScore)
	assert.Equal(t, 2, rows[0].TotalAttempts)
	assert.Equal(t, 1.0, rows[0].Accuracy)
}

func TestByClass_ExcludesStaff(t *testing.T) {
	s := seeded()
	s.users = append(s.users, models.User{ID: "t2", Name: "t2", Role: models.Teacher, ClassName: "1"})
	rows, err := NewAggregator(s, nil).ByClass(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"stu0", "stu1", "stu2", "stu3", "stu4"}, names(rows))
}

func TestByStudentNumberRange(t *testing.T) {
	s := &snapshot{}
	s.student("seven", "1", 7)
	s.student("two", "2", 2)
	s.student("five", "1", 5)
	s.student("nine", "1", 9)
	s.users = append(s.users, models.User{ID: "t", Name: "teach", Role: models.Teacher})
	agg := NewAggregator(s, nil)

	rows, err := agg.ByStudentNumberRange(context.Background(), 2, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "five", "seven"}, names(rows))

	rows, err = agg.ByStudentNumberRange(context.Background(), 5, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"five"}, names(rows))

	_, err = agg.ByStudentNumberRange(context.Background(), 8, 3)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestByStudentNumberRange_ExcludesStaffWithNumbers(t *testing.T) {
	s := &snapshot{}
	s.student("four", "1", 4)
	teacherNum, adminNum := 3, 5
	s.users = append(s.users,
		models.User{ID: "t", Seq: 2, Name: "teach", Role: models.Teacher, ClassName: "1", StudentNum: &teacherNum},
		models.User{ID: "a", Seq: 3, Name: "root", Role: models.Admin, StudentNum: &adminNum},
	)
	s.answer("t", true, 100)

	rows, err := NewAggregator(s, nil).ByStudentNumberRange(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"four"}, names(rows))
}

func TestStatisticsByClass_BandsSumToTotal(t *testing.T) {
	s := &snapshot{}
	scores := []int{100, 95, 85, 72, 60, 59, 0, 150}
	for i, sc := range scores {
		id := s.student(fmt.Sprintf("s%d", i), "A", i)
		if sc > 0 {
			s.answer(id, true, sc)
		}
	}
	st, err := NewAggregator(s, nil).StatisticsByClass(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, len(scores), st.Total)

	sum := 0
	counts := map[string]int{}
	for _, b := range st.Bands {
		sum += b.Count
		counts[b.Label] = b.Count
	}
	assert.Equal(t, st.Total, sum)
	assert.Equal(t, map[string]int{"90-100": 3, "80-89": 1, "70-79": 1, "60-69": 1, "<60": 2}, counts)
	assert.Equal(t, 150, st.Students[0].TotalScore)
}

func TestStatisticsByClass_Empty(t *testing.T) {
	st, err := NewAggregator(seeded(), nil).StatisticsByClass(context.Background(), "nope")
	require.NoError(t, err)
	assert.Zero(t, st.Total)
	assert.Len(t, st.Bands, 5)
}

func TestAllOrderings(t *testing.T) {
	s := &snapshot{}
	x := s.student("x", "2", 3)
	y := s.student("y", "1", 2)
	z := s.student("z", "1", 1)
	s.student("w", "2", 0)
	s.answer(x, true, 50)
	s.answer(y, true, 50)
	s.answer(z, true, 100)
	agg := NewAggregator(s, nil)

	rows, err := agg.AllByScore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "y", "x", "w"}, names(rows))

	rows, err = agg.AllByClass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "y", "x", "w"}, names(rows))
	assert.Equal(t, "1", rows[0].ClassName)
	assert.Equal(t, "2", rows[3].ClassName)
}

func TestOrphanedRecordsIgnored(t *testing.T) {
	s := &snapshot{}
	id := s.student("kept", "1", 1)
	s.answer(id, false, 0)
	s.answer("deleted-user", true, 100)

	rows, err := NewAggregator(s, nil).ByNameSubstring(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].TotalScore)
	assert.Equal(t, 1, rows[0].TotalAttempts)
}

func TestForStudent(t *testing.T) {
	s := &snapshot{}
	id := s.student("me", "1", 1)
	s.answer(id, true, 50)
	s.answer(id, false, 0)
	agg := NewAggregator(s, nil)

	g, err := agg.ForStudent(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 50, g.TotalScore)
	assert.Equal(t, 0.5, g.Accuracy)

	_, err = agg.ForStudent(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorageErrorPropagates(t *testing.T) {
	_, err := NewAggregator(&snapshot{err: apperr.ErrStorageUnavailable}, nil).ByClass(context.Background(), "1")
	assert.ErrorIs(t, err, apperr.ErrStorageUnavailable)
}
