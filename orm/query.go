package orm

import (
	"github.com/iov-one/swap"
)

// queryPrefix returns all models whose key begins with the prefix.
func queryPrefix(db swap.ReadOnlyKVStore, prefix []byte) ([]swap.Model, error) {
	it, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var res []swap.Model
	for ; it.Valid(); it.Next() {
		res = append(res, swap.Pair(it.Key(), it.Value()))
	}
	return res, nil
}

// prefixRange turns a prefix into a (start, end) range. The end is
// nil if the prefix has no upper bound, as for 0xFFFF...
func prefixRange(prefix []byte) ([]byte, []byte) {
	start := append([]byte(nil), prefix...)
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return start, end[:i+1]
		}
	}
	return start, nil
}
