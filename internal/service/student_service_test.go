package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/resultbook/internal/model"
)

func registerReq(name string, year int, class string) model.RegisterStudentRequest {
	return model.RegisterStudentRequest{Name: name, AdmissionYear: intPtr(year), ClassName: class}
}

func TestStudentRegisterAssignsSequentialNumbers(t *testing.T) {
	svc := NewStudentService(&memStudents{}, nil, testLog)
	ctx := context.Background()

	a, err := svc.Register(ctx, registerReq("  Alice ", 2025, "5A"))
	require.NoError(t, err)
	assert.Equal(t, "Alice", a.Name)
	assert.Equal(t, 1, a.YearSerial)
	assert.Equal(t, "2025-001", a.AdmissionNo)

	b, err := svc.Register(ctx, registerReq("Bob", 2025, "5A"))
	require.NoError(t, err)
	assert.Equal(t, "2025-002", b.AdmissionNo)

	c, err := svc.Register(ctx, registerReq("Cara", 2024, "UKGB"))
	require.NoError(t, err)
	assert.Equal(t, "2024-001", c.AdmissionNo)
}

func TestStudentRegisterConcurrentIsUniqueAndGapFree(t *testing.T) {
	svc := NewStudentService(&memStudents{}, nil, testLog)
	const n = 40

	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st, err := svc.Register(context.Background(), registerReq("Student", 2025, "3C"))
			if assert.NoError(t, err) {
				results <- st.AdmissionNo
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for no := range results {
		assert.False(t, seen[no], "duplicate %s", no)
		seen[no] = true
	}
	require.Len(t, seen, n)
	assert.True(t, seen["2025-001"])
	assert.True(t, seen["2025-040"])
}

func TestStudentRegisterRejectsInvalidInput(t *testing.T) {
	svc := NewStudentService(&memStudents{}, nil, testLog)

	_, err := svc.Register(context.Background(), registerReq("Alice", -1, "5A"))
	assert.ErrorIs(t, err, ErrInvalidAdmissionYear)

	_, err = svc.Register(context.Background(), model.RegisterStudentRequest{Name: "Alice", ClassName: "5A"})
	assert.ErrorIs(t, err, ErrInvalidAdmissionYear)

	_, err = svc.Register(context.Background(), registerReq("Alice", 2025, "Grade5"))
	assert.ErrorIs(t, err, ErrInvalidClassName)
}

func TestStudentPreviewNextDoesNotReserve(t *testing.T) {
	svc := NewStudentService(&memStudents{}, nil, testLog)
	ctx := context.Background()

	next, err := svc.PreviewNext(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-001", next.AdmissionNo)

	again, err := svc.PreviewNext(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, next, again)

	_, err = svc.Register(ctx, registerReq("Alice", 2025, "5A"))
	require.NoError(t, err)
	next, err = svc.PreviewNext(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 2, next.YearSerial)

	_, err = svc.PreviewNext(ctx, -5)
	assert.ErrorIs(t, err, ErrInvalidAdmissionYear)
}

func TestStudentGetAndList(t *testing.T) {
	store := &memStudents{}
	svc := NewStudentService(store, nil, testLog)
	ctx := context.Background()
	for _, r := range []model.RegisterStudentRequest{
		registerReq("Alice", 2025, "5A"),
		registerReq("Bob", 2025, "5B"),
		registerReq("Alina", 2025, "5A"),
	} {
		_, err := svc.Register(ctx, r)
		require.NoError(t, err)
	}

	_, err := svc.Get(ctx, "2025-999")
	assert.ErrorIs(t, err, ErrStudentNotFound)

	st, err := svc.Get(ctx, "2025-002")
	require.NoError(t, err)
	assert.Equal(t, "Bob", st.Name)

	list, total, err := svc.List(ctx, "5A", "ali", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)

	list, total, err = svc.List(ctx, "", "nobody", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, list)

	classes, err := svc.Classes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"5A", "5B"}, classes)
}
