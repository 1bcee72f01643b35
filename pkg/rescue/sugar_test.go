package rescue_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/boltdb/bolt"
	"github.com/golang/mock/gomock"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/require"

	"go.llib.dev/rescue/internal/mocks"
	"go.llib.dev/rescue/pkg/rescue"
	"go.llib.dev/rescue/pkg/traversal"
)

func TestEach(t *testing.T) {
	ctx := context.Background()

	var visited []int
	err := rescue.Each(ctx, numbers(1, 5), func(v int) error {
		visited = append(visited, v)
		if v == 3 {
			return errBoom
		}
		return nil
	})
	require.Equal(t, numbers(1, 5), visited)

	var agg *rescue.AggregateError
	require.True(t, errors.As(err, &agg))
	require.Len(t, agg.Failures(), 1)
	require.Equal(t, traversal.Args{3}, agg.Failures()[0].Args())
	require.False(t, agg.Aborted())

	require.NoError(t, rescue.Each(ctx, []string{}, func(string) error { return errBoom }))
}

func TestEachWithIndex(t *testing.T) {
	err := rescue.EachWithIndex(context.Background(), []string{"a", "b", "c"}, func(v string, i int) error {
		if i == 1 {
			return fmt.Errorf("bad %s", v)
		}
		return nil
	})
	var agg *rescue.AggregateError
	require.True(t, errors.As(err, &agg))
	require.Equal(t, traversal.Args{"b", 1}, agg.Failures()[0].Args())
}

func TestMap(t *testing.T) {
	out, err := rescue.Map(context.Background(), []string{"1", "x", "3"}, strconv.Atoi)
	require.Equal(t, []int{1, 0, 3}, out)

	var numErr *strconv.NumError
	require.True(t, errors.As(err, &numErr))
	require.Equal(t, "x", numErr.Num)
}

func TestFilter(t *testing.T) {
	isEven := func(v int) (bool, error) {
		if v == 3 {
			return false, errBoom
		}
		return v%2 == 0, nil
	}

	t.Run("Filter", func(t *testing.T) {
		out, err := rescue.Filter(context.Background(), numbers(1, 6), isEven)
		require.Equal(t, []int{2, 4, 6}, out)
		require.True(t, errors.Is(err, errBoom))
	})

	t.Run("Reject", func(t *testing.T) {
		out, err := rescue.Reject(context.Background(), numbers(1, 6), isEven)
		require.Equal(t, []int{1, 3, 5}, out)
		require.True(t, errors.Is(err, errBoom))
	})
}

func TestEachSlice(t *testing.T) {
	var batches [][]int
	err := rescue.EachSlice(context.Background(), numbers(1, 7), 3, func(batch []int) error {
		batches = append(batches, batch)
		if len(batch) < 3 {
			return errBoom
		}
		return nil
	})
	require.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}, batches)

	var agg *rescue.AggregateError
	require.True(t, errors.As(err, &agg))
	require.Equal(t, traversal.Args{[]int{7}}, agg.Failures()[0].Args())
}

func TestEachPage(t *testing.T) {
	pages := map[int][]string{0: {"a", "b"}, 2: {"c"}}
	more := func(ctx context.Context, offset int) ([]string, bool, error) {
		return pages[offset], true, nil
	}

	var visited []string
	err := rescue.EachPage(context.Background(), more, func(v string) error {
		visited = append(visited, v)
		if v == "b" {
			return errBoom
		}
		return nil
	}, rescue.WithErrorLimit(2))
	require.Equal(t, []string{"a", "b", "c"}, visited)

	var agg *rescue.AggregateError
	require.True(t, errors.As(err, &agg))
	require.False(t, agg.Aborted())
}

func TestEachEntry(t *testing.T) {
	path := filepath.Join(os.TempDir(), uuid.NewV4().String())
	db, err := bolt.Open(path, 0600, nil)
	require.Nil(t, err)
	defer os.Remove(path)
	defer db.Close()

	bucket := []byte("accounts")
	require.Nil(t, db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucket(bucket)
		if err != nil {
			return err
		}
		for _, k := range []string{"alice", "bob", "carol"} {
			if err := b.Put([]byte(k), []byte("balance:"+k)); err != nil {
				return err
			}
		}
		return nil
	}))

	var keys []string
	err = rescue.EachEntry(context.Background(), db, bucket, func(k, v []byte) error {
		keys = append(keys, string(k))
		if string(k) == "bob" {
			return errBoom
		}
		return nil
	})
	require.Equal(t, []string{"alice", "bob", "carol"}, keys)

	var agg *rescue.AggregateError
	require.True(t, errors.As(err, &agg))
	require.Equal(t, traversal.Args{[]byte("bob"), []byte("balance:bob")}, agg.Failures()[0].Args())
}

func TestEachRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	rows := mocks.NewMockSQLRows(ctrl)
	ids := []int{1, 2, 3}
	rows.EXPECT().Next().DoAndReturn(func() bool { return len(ids) != 0 }).AnyTimes()
	rows.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
		*(dest[0].(*int)) = ids[0]
		ids = ids[1:]
		return nil
	}).Times(3)
	rows.EXPECT().Err().Return(nil)
	rows.EXPECT().Close().Return(nil)

	var visited []int
	err := rescue.EachRow(context.Background(), rows, func(s traversal.SQLRowScanner) (int, error) {
		var id int
		return id, s.Scan(&id)
	}, func(id int) error {
		visited = append(visited, id)
		if id == 2 {
			return errBoom
		}
		return nil
	})
	require.Equal(t, []int{1, 2, 3}, visited)

	var agg *rescue.AggregateError
	require.True(t, errors.As(err, &agg))
	require.Equal(t, traversal.Args{2}, agg.Failures()[0].Args())
}
