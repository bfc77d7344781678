package swap_test

import (
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/swaptest/assert"
)

type offersQuery struct{}

func (offersQuery) Query(swap.ReadOnlyKVStore, string, []byte) ([]swap.Model, error) {
	return nil, nil
}

func TestQueryRoute(t *testing.T) {
	qr := swap.NewQueryRouter()
	qr.RegisterAll(func(r swap.QueryRouter) {
		r.Register("/offers/maker", offersQuery{})
	})
	assert.Panics(t, func() { qr.Register("/offers/maker", offersQuery{}) })

	cases := map[string]struct {
		path    string
		found   bool
		wantMod string
	}{
		"no modifier":    {path: "/offers/maker", found: true, wantMod: swap.KeyQueryMod},
		"prefix":         {path: "/offers/maker?prefix", found: true, wantMod: swap.PrefixQueryMod},
		"empty modifier": {path: "/offers/maker?", found: true, wantMod: ""},
		"unknown path":   {path: "/offers?prefix", wantMod: swap.PrefixQueryMod},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			h, mod := qr.Route(tc.path)
			assert.Equal(t, tc.found, h != nil)
			assert.Equal(t, tc.wantMod, mod)
		})
	}
}
