package bank

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/apperr"
	"github.com/Spok95/vocab-scale/internal/models"
)

type memBank struct {
	next int64
	qs   []models.Question
	err  error
}

func (m *memBank) AddQuestion(_ context.Context, word, translation string) (models.Question, error) {
	if m.err != nil {
		return models.Question{}, m.err
	}
	for _, q := range m.qs {
		if q.Word == word {
			return models.Question{}, apperr.Invalid("word", "already exists")
		}
	}
	m.next++
	q := models.Question{ID: m.next, Word: word, Translation: translation, Difficulty: 1}
	m.qs = append(m.qs, q)
	return q, nil
}

func (m *memBank) DeleteQuestion(_ context.Context, id int64) error {
	for i, q := range m.qs {
		if q.ID == id {
			m.qs = append(m.qs[:i], m.qs[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (m *memBank) ListQuestions(context.Context) ([]models.Question, error) {
	return append([]models.Question(nil), m.qs...), nil
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memBank{}, zap.NewNop())

	q, err := svc.Add(ctx, "  apple ", " 苹果")
	require.NoError(t, err)
	assert.Equal(t, "apple", q.Word)
	assert.Equal(t, "苹果", q.Translation)

	_, err = svc.Add(ctx, "apple", "again")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Add(ctx, "Apple", "大写")
	assert.NoError(t, err, "words are case-sensitive")

	_, err = svc.Add(ctx, "", "x")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Add(ctx, "x", " ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestImport(t *testing.T) {
	m := &memBank{}
	svc := NewService(m, zap.NewNop())
	in := strings.NewReader("# words\napple\t苹果\n\nbook,书\nbroken line\napple,dup\nwater\t水\n")

	res, err := svc.Import(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Added: 3, Skipped: 2}, res)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"apple", "book", "water"}, []string{list[0].Word, list[1].Word, list[2].Word})
}

func TestImport_StorageErrorStops(t *testing.T) {
	m := &memBank{err: apperr.ErrStorageUnavailable}
	res, err := NewService(m, nil).Import(context.Background(), strings.NewReader("a,b\nc,d\n"))
	assert.ErrorIs(t, err, apperr.ErrStorageUnavailable)
	assert.Zero(t, res.Added)
}

func TestDeleteKeepsIDsMonotonic(t *testing.T) {
	ctx := context.Background()
	m := &memBank{}
	svc := NewService(m, nil)
	a, _ := svc.Add(ctx, "a", "1")
	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), apperr.ErrNotFound)
	b, _ := svc.Add(ctx, "a", "1")
	assert.Greater(t, b.ID, a.ID)
}
