//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Spok95/vocab-scale/internal/db"
	"github.com/Spok95/vocab-scale/internal/models"
	"github.com/Spok95/vocab-scale/internal/testutil/testdb"
)

func BenchmarkAppendAnswer(b *testing.B) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		b.Fatal(err)
	}
	defer h.Close()
	s := db.NewStore(h.DB)

	n := 1
	st, err := s.CreateUser(context.Background(), models.User{
		ID: uuid.NewString(), Name: "bench", PasswordHash: "x", Role: models.Student, ClassName: "1", StudentNum: &n,
	})
	if err != nil {
		b.Fatal(err)
	}
	q, err := s.AddQuestion(context.Background(), "bench", "基准")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = s.AppendAnswer(context.Background(), models.AnswerRecord{
				StudentID: st.ID, QuestionID: q.ID, Answer: "bench", IsCorrect: true, Points: 1,
			})
		}
	})
}
