package auth

import (
	"context"
	"errors"
	"strings"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/vocab-scale/internal/apperr"
	"github.com/Spok95/vocab-scale/internal/models"
)

type memStore struct {
	byID map[string]models.User
	err  error
}

func newMemStore() *memStore { return &memStore{byID: map[string]models.User{}} }

func (m *memStore) CreateUser(_ context.Context, u models.User) (models.User, error) {
	if m.err != nil {
		return models.User{}, m.err
	}
	for _, x := range m.byID {
		if x.Name == u.Name {
			return models.User{}, fmt.Errorf("insert: %w", apperr.Invalid("username", "already exists"))
		}
	}
	u.Seq = int64(len(m.byID) + 1)
	m.byID[u.ID] = u
	return u, nil
}

func (m *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) GetUserByName(_ context.Context, name string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *memStore) DeleteUser(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func intp(n int) *int { return &n }

func newTestService(st Store) *Service {
	return NewService(st, zap.NewNop(), WithCost(bcrypt.MinCost))
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	svc := newTestService(st)

	u, err := svc.Register(ctx, Registration{Name: "stu0", Password: "pw", RoleCode: 2, ClassName: "1", StudentNum: intp(0)})
	require.NoError(t, err)
	assert.Len(t, u.ID, 36)
	assert.NotEqual(t, "pw", u.PasswordHash)
	require.NotNil(t, u.StudentNum)
	assert.Equal(t, 0, *u.StudentNum)

	got, err := svc.Login(ctx, "stu0", "pw")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Login(ctx, "stu0", "wrong")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	role, err := svc.Level(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Student, role)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemStore())

	cases := []struct {
		name  string
		reg   Registration
		field string
	}{
		{"empty name", Registration{Name: " ", Password: "x", RoleCode: 1}, "name"},
		{"empty password", Registration{Name: "a", RoleCode: 1}, "password"},
		{"bad role", Registration{Name: "a", Password: "x", RoleCode: 5}, "role"},
		{"student without number", Registration{Name: "a", Password: "x", RoleCode: 2}, "student_number"},
		{"negative number", Registration{Name: "a", Password: "x", RoleCode: 2, StudentNum: intp(-1)}, "student_number"},
		{"password too long", Registration{Name: "a", Password: strings.Repeat("x", 73), RoleCode: 1}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.reg)
			require.ErrorIs(t, err, apperr.ErrValidation)
			var ve *apperr.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestRegister_TeacherStoresNoNumber(t *testing.T) {
	svc := newTestService(newMemStore())
	u, err := svc.Register(context.Background(), Registration{Name: "t", Password: "x", RoleCode: 1, StudentNum: intp(4)})
	require.NoError(t, err)
	assert.Nil(t, u.StudentNum)
}

func TestRegister_DuplicateName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemStore())
	_, err := svc.Register(ctx, Registration{Name: "dup", Password: "x", RoleCode: 0})
	require.NoError(t, err)
	_, err = svc.Register(ctx, Registration{Name: "dup", Password: "y", RoleCode: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLogin_StorageError(t *testing.T) {
	st := newMemStore()
	st.err = apperr.ErrStorageUnavailable
	_, err := newTestService(st).Login(context.Background(), "x", "y")
	assert.ErrorIs(t, err, apperr.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemStore())
	u, err := svc.Register(ctx, Registration{Name: "gone", Password: "x", RoleCode: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), apperr.ErrNotFound)
	_, err = svc.Level(ctx, u.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPrincipal(t *testing.T) {
	var p Principal
	assert.False(t, p.LoggedIn())
	p = PrincipalOf(models.User{ID: "id", Name: "n", Role: models.Teacher})
	assert.True(t, p.LoggedIn())
	assert.Equal(t, models.Teacher, p.Role)
}
