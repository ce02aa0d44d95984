// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package table

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/moodlehq/moodleapp-sub049/internal/mock"
	"github.com/moodlehq/moodleapp-sub049/internal/store"
)

const peopleTable = "people"

type person struct {
	ID      int64
	Name    string
	Surname string
}

type personMapper struct{}

func (personMapper) ToRecord(p person) store.Record {
	return store.Record{"id": p.ID, "name": p.Name, "surname": p.Surname}
}

func (personMapper) FromRecord(r store.Record) (person, error) {
	id, ok := r["id"].(int64)
	if !ok {
		return person{}, fmt.Errorf("id has type %T", r["id"])
	}
	name, _ := r["name"].(string)
	surname, _ := r["surname"].(string)
	return person{ID: id, Name: name, Surname: surname}, nil
}

var (
	john = person{ID: 1, Name: "John", Surname: "Doe"}
	amy  = person{ID: 2, Name: "Amy", Surname: "Doe"}
	jane = person{ID: 3, Name: "Jane", Surname: "Smith"}
)

var allStrategies = []CachingStrategy{CachingEager, CachingLazy, CachingNone}

func newMemoryStore() *store.MemoryRowStore {
	return store.NewMemoryRowStore(map[string][]string{peopleTable: {"id"}})
}

func seed(t *testing.T, rows store.RowStore, people ...person) {
	t.Helper()
	for _, p := range people {
		require.NoError(t, rows.InsertRecord(context.Background(), peopleTable, personMapper{}.ToRecord(p)))
	}
}

func newPeople(t *testing.T, strategy CachingStrategy, rows store.RowStore) *Table[person] {
	t.Helper()
	tbl, err := New[person](Config{CachingStrategy: strategy}, rows, peopleTable, []string{"id"}, personMapper{})
	require.NoError(t, err)
	return tbl
}

// newInitializedPeople returns a table over a memory store that already
// holds John, Amy and Jane, in that order.
func newInitializedPeople(t *testing.T, strategy CachingStrategy) *Table[person] {
	t.Helper()
	rows := newMemoryStore()
	tbl := newPeople(t, strategy, rows)
	require.NoError(t, tbl.Initialize(context.Background()))
	for _, p := range []person{john, amy, jane} {
		require.NoError(t, tbl.Insert(context.Background(), p))
	}
	return tbl
}

func names(people []person) []string {
	out := make([]string, 0, len(people))
	for _, p := range people {
		out = append(out, p.Name)
	}
	return out
}

func TestNew_EmptyPrimaryKey(t *testing.T) {
	_, err := New[person](Config{}, newMemoryStore(), peopleTable, nil, personMapper{})
	assert.ErrorIs(t, err, ErrEmptyPrimaryKey)
}

func TestEagerTable_ReadsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := newMemoryStore()
	seed(t, mem, john, amy, jane)

	rows := mock.NewMockRowStore(ctrl)
	rows.EXPECT().GetAllRecords(gomock.Any(), peopleTable).DoAndReturn(mem.GetAllRecords).Times(1)
	rows.EXPECT().GetRecord(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	rows.EXPECT().GetRecords(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	ctx := context.Background()
	tbl := newPeople(t, CachingEager, rows)
	require.NoError(t, tbl.Initialize(ctx))

	for i := 0; i < 3; i++ {
		got, err := tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": 2})
		require.NoError(t, err)
		assert.Equal(t, amy, got)

		got, err = tbl.GetOne(ctx, store.Conditions{"surname": "Smith"})
		require.NoError(t, err)
		assert.Equal(t, jane, got)

		many, err := tbl.GetMany(ctx, store.Conditions{"surname": "Doe"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []person{john, amy}, many)
	}

	// a miss is answered from the complete cache
	_, err := tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": 42})
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestLazyTable_ReadsOnDemand(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := newMemoryStore()
	seed(t, mem, john, amy, jane)

	rows := mock.NewMockRowStore(ctrl)
	rows.EXPECT().GetAllRecords(gomock.Any(), gomock.Any()).Times(0)
	rows.EXPECT().GetRecords(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	// one read per distinct key
	rows.EXPECT().GetRecord(gomock.Any(), peopleTable, gomock.Any()).DoAndReturn(mem.GetRecord).Times(2)

	ctx := context.Background()
	tbl := newPeople(t, CachingLazy, rows)
	require.NoError(t, tbl.Initialize(ctx))

	for i := 0; i < 3; i++ {
		got, err := tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": int64(1)})
		require.NoError(t, err)
		assert.Equal(t, john, got)

		got, err = tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": int64(3)})
		require.NoError(t, err)
		assert.Equal(t, jane, got)
	}
}

func TestLazyTable_NonKeyReadsPassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := newMemoryStore()
	seed(t, mem, john, amy)

	rows := mock.NewMockRowStore(ctrl)
	rows.EXPECT().GetRecord(gomock.Any(), peopleTable, store.Conditions{"name": "Amy"}).DoAndReturn(mem.GetRecord).Times(2)

	ctx := context.Background()
	tbl := newPeople(t, CachingLazy, rows)
	require.NoError(t, tbl.Initialize(ctx))

	for i := 0; i < 2; i++ {
		got, err := tbl.GetOne(ctx, store.Conditions{"name": "Amy"})
		require.NoError(t, err)
		assert.Equal(t, amy, got)
	}
}

func TestLazyTable_MissIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := newMemoryStore()

	rows := mock.NewMockRowStore(ctrl)
	rows.EXPECT().GetRecord(gomock.Any(), peopleTable, gomock.Any()).DoAndReturn(mem.GetRecord).Times(2)

	ctx := context.Background()
	tbl := newPeople(t, CachingLazy, rows)

	for i := 0; i < 2; i++ {
		_, err := tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": 9})
		assert.ErrorIs(t, err, store.ErrRecordNotFound)
	}
}

func TestLazyTable_ReadAfterInsertServedFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := newMemoryStore()

	rows := mock.NewMockRowStore(ctrl)
	rows.EXPECT().InsertRecord(gomock.Any(), peopleTable, gomock.Any()).DoAndReturn(mem.InsertRecord).Times(1)
	rows.EXPECT().GetRecord(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	ctx := context.Background()
	tbl := newPeople(t, CachingLazy, rows)
	require.NoError(t, tbl.Insert(ctx, jane))

	got, err := tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": 3})
	require.NoError(t, err)
	assert.Equal(t, jane, got)
}

func TestNoneTable_NeverCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := newMemoryStore()
	seed(t, mem, john)

	rows := mock.NewMockRowStore(ctrl)
	rows.EXPECT().GetRecord(gomock.Any(), peopleTable, gomock.Any()).DoAndReturn(mem.GetRecord).Times(3)

	ctx := context.Background()
	tbl := newPeople(t, CachingNone, rows)
	require.NoError(t, tbl.Initialize(ctx))

	for i := 0; i < 3; i++ {
		got, err := tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": 1})
		require.NoError(t, err)
		assert.Equal(t, john, got)
	}
}

func TestTable_Sorting(t *testing.T) {
	tests := []struct {
		name    string
		sorting Sorting
		want    []string
	}{
		{name: "by name", sorting: By("name"), want: []string{"Amy", "Jane", "John"}},
		{name: "by surname keeps insertion order of ties", sorting: By("surname"), want: []string{"John", "Amy", "Jane"}},
		{name: "name descending", sorting: Sorting{Desc("name")}, want: []string{"John", "Jane", "Amy"}},
		{name: "name then surname descending", sorting: By("name").Then(Desc("surname")), want: []string{"Amy", "Jane", "John"}},
		{name: "surname descending then name", sorting: Sorting{Desc("surname"), Asc("name")}, want: []string{"Jane", "Amy", "John"}},
		{name: "unsorted", sorting: nil, want: []string{"John", "Amy", "Jane"}},
	}

	for _, strategy := range allStrategies {
		tbl := newInitializedPeople(t, strategy)

		for _, tt := range tests {
			t.Run(strategy.String()+"/"+tt.name, func(t *testing.T) {
				got, err := tbl.GetAll(context.Background(), tt.sorting)
				require.NoError(t, err)
				assert.Equal(t, tt.want, names(got))
			})
		}
	}
}

func TestTable_DeleteNarrowsExactly(t *testing.T) {
	for _, strategy := range allStrategies {
		t.Run(strategy.String(), func(t *testing.T) {
			ctx := context.Background()
			tbl := newInitializedPeople(t, strategy)

			// warm the lazy cache with a row that is about to go
			_, err := tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": 1})
			require.NoError(t, err)

			removed, err := tbl.Delete(ctx, store.Conditions{"surname": "Doe"})
			require.NoError(t, err)
			assert.EqualValues(t, 2, removed)

			got, err := tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": 3})
			require.NoError(t, err)
			assert.Equal(t, jane, got)

			_, err = tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": 1})
			assert.ErrorIs(t, err, store.ErrRecordNotFound)

			count, err := tbl.Count(ctx, nil)
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestTable_DeleteByPrimaryKey(t *testing.T) {
	for _, strategy := range allStrategies {
		t.Run(strategy.String(), func(t *testing.T) {
			ctx := context.Background()
			tbl := newInitializedPeople(t, strategy)

			removed, err := tbl.DeleteByPrimaryKey(ctx, tbl.PrimaryKeyOf(amy))
			require.NoError(t, err)
			assert.EqualValues(t, 1, removed)

			got, err := tbl.GetMany(ctx, store.Conditions{"surname": "Doe"}, nil)
			require.NoError(t, err)
			assert.Equal(t, []person{john}, got)

			_, err = tbl.DeleteByPrimaryKey(ctx, store.Conditions{"name": "John"})
			assert.ErrorIs(t, err, ErrInvalidPrimaryKey)
		})
	}
}

func TestTable_InsertDuplicate(t *testing.T) {
	for _, strategy := range allStrategies {
		t.Run(strategy.String(), func(t *testing.T) {
			ctx := context.Background()
			tbl := newInitializedPeople(t, strategy)

			err := tbl.Insert(ctx, person{ID: 1, Name: "Johnny", Surname: "Doe"})
			assert.ErrorIs(t, err, store.ErrConstraintViolation)

			got, err := tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": 1})
			require.NoError(t, err)
			assert.Equal(t, john, got)

			count, err := tbl.Count(ctx, store.Conditions{"id": 1})
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestEagerTable_NotInitialized(t *testing.T) {
	ctx := context.Background()
	tbl := newPeople(t, CachingEager, newMemoryStore())

	_, err := tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": 1})
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = tbl.GetMany(ctx, nil, nil)
	assert.ErrorIs(t, err, ErrNotInitialized)

	assert.ErrorIs(t, tbl.Insert(ctx, john), ErrNotInitialized)
}

func TestEagerTable_ReinitializeReloads(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryStore()
	tbl := newPeople(t, CachingEager, mem)
	require.NoError(t, tbl.Initialize(ctx))

	// written behind the table's back
	seed(t, mem, amy)

	_, err := tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": 2})
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	require.NoError(t, tbl.Initialize(ctx))
	got, err := tbl.GetOneByPrimaryKey(ctx, store.Conditions{"id": 2})
	require.NoError(t, err)
	assert.Equal(t, amy, got)
}

func TestTable_InvalidPrimaryKey(t *testing.T) {
	tbl := newInitializedPeople(t, CachingLazy)

	_, err := tbl.GetOneByPrimaryKey(context.Background(), store.Conditions{"name": "John"})
	assert.ErrorIs(t, err, ErrInvalidPrimaryKey)
}

func TestTable_RowStoreErrorsPassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	errStore := errors.New("disk full")

	rows := mock.NewMockRowStore(ctrl)
	rows.EXPECT().GetAllRecords(gomock.Any(), peopleTable).Return(nil, errStore)
	rows.EXPECT().InsertRecord(gomock.Any(), peopleTable, gomock.Any()).Return(errStore)
	rows.EXPECT().GetRecords(gomock.Any(), peopleTable, gomock.Any()).Return(nil, errStore)

	ctx := context.Background()

	eager := newPeople(t, CachingEager, rows)
	assert.Same(t, errStore, eager.Initialize(ctx))

	none := newPeople(t, CachingNone, rows)
	assert.Same(t, errStore, none.Insert(ctx, john))

	_, err := none.GetMany(ctx, nil, By("name"))
	assert.Same(t, errStore, err)
}

func TestTable_DecodeError(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryStore()
	require.NoError(t, mem.InsertRecord(ctx, peopleTable, store.Record{"id": "not-a-number"}))

	tbl := newPeople(t, CachingNone, mem)
	_, err := tbl.GetOne(ctx, nil)
	assert.ErrorIs(t, err, ErrDecodingRecord)
}

func TestEagerTable_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	tbl := newPeople(t, CachingEager, newMemoryStore())
	require.NoError(t, tbl.Initialize(ctx))

	var wg sync.WaitGroup
	for i := 1; i <= 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, tbl.Insert(ctx, person{ID: int64(i), Name: fmt.Sprint(i), Surname: "Doe"}))
		}()
	}
	wg.Wait()

	count, err := tbl.Count(ctx, store.Conditions{"surname": "Doe"})
	require.NoError(t, err)
	assert.Equal(t, 32, count)

	require.NoError(t, tbl.Initialize(ctx))
	count, err = tbl.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 32, count)
}

func TestParseCachingStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    CachingStrategy
		wantErr bool
	}{
		{in: "eager", want: CachingEager},
		{in: "LAZY", want: CachingLazy},
		{in: " none ", want: CachingNone},
		{in: "always", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCachingStrategy(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCachingStrategy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFor(t *testing.T) {
	cfg, err := ConfigFor("surveys", CachingLazy, nil)
	require.NoError(t, err)
	assert.Equal(t, CachingLazy, cfg.CachingStrategy)

	cfg, err = ConfigFor("surveys", CachingLazy, map[string]string{"surveys": "eager"})
	require.NoError(t, err)
	assert.Equal(t, CachingEager, cfg.CachingStrategy)

	_, err = ConfigFor("surveys", CachingLazy, map[string]string{"surveys": "sometimes"})
	assert.ErrorIs(t, err, ErrUnknownCachingStrategy)
}
