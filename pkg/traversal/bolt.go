package traversal

import (
	"context"

	"github.com/boltdb/bolt"
)

// Bolt visits each entry of a bolt bucket in key order with Args{key, value}.
// A missing bucket is walked as an empty collection.
//
// The key and value byte slices are only valid during the visit,
// so a visitor that keeps them must copy them, for example with Args.Clone.
// The result is the number of visited entries.
func Bolt(db *bolt.DB, bucket []byte) Traversal[int] {
	return Func[int](func(ctx context.Context, visit Visitor) (int, error) {
		var n int
		err := db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucket)
			if b == nil {
				return nil
			}
			c := b.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				n++
				if _, next, err := call(visit, Args{k, v}); !next {
					return err
				}
			}
			return nil
		})
		return n, err
	})
}
