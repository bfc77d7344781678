package swap

import (
	"fmt"
	"strings"
)

// Query modifiers follow the path after a "?" and select how the query
// data is read.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is one key value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers the queries of one path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the query paths of an extension to a router.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths to their handlers.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll lets each register add its paths.
func (r QueryRouter) RegisterAll(regs ...QueryRegister) {
	for _, reg := range regs {
		reg(r)
	}
}

// Register serves path with h. It panics if the path is taken.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %s registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns the handler of path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Route splits "path?mod" and returns the handler of path together
// with the modifier.
func (r QueryRouter) Route(full string) (QueryHandler, string) {
	path, mod := full, KeyQueryMod
	if i := strings.IndexByte(full, '?'); i >= 0 {
		path, mod = full[:i], full[i+1:]
	}
	return r.routes[path], mod
}
