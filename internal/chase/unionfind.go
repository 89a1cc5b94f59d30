package chase

import "github.com/categorist/chasekit/internal/ir"

// unionFind tracks element equivalence classes during an EGD step. Keys are
// canonical value keys. Representative choice is deterministic: constants
// beat witnesses, ties break on smaller canonical key, so quotienting the
// same instance by the same equalities always yields the same result.
type unionFind struct {
	parent map[string]string
	elems  map[string]ir.Value
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[string]string),
		elems:  make(map[string]ir.Value),
	}
}

func (u *unionFind) add(v ir.Value) string {
	key := ir.MustValueKey(v)
	if _, ok := u.parent[key]; !ok {
		u.parent[key] = key
		u.elems[key] = v
	}
	return key
}

func (u *unionFind) find(key string) string {
	root := key
	for u.parent[root] != root {
		root = u.parent[root]
	}
	// Path compression.
	for u.parent[key] != root {
		key, u.parent[key] = u.parent[key], root
	}
	return root
}

// union merges the classes of a and b, keeping the preferred element as
// root.
func (u *unionFind) union(a, b ir.Value) {
	ra := u.find(u.add(a))
	rb := u.find(u.add(b))
	if ra == rb {
		return
	}
	if preferKey(ra, u.elems[ra], rb, u.elems[rb]) {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}

// rep returns the representative element of v's class (v itself when v was
// never merged).
func (u *unionFind) rep(v ir.Value) ir.Value {
	key := ir.MustValueKey(v)
	if _, ok := u.parent[key]; !ok {
		return v
	}
	return u.elems[u.find(key)]
}

// preferKey reports whether (ka, a) should be the class root over (kb, b).
func preferKey(ka string, a ir.Value, kb string, b ir.Value) bool {
	aw, bw := ir.IsWitness(a), ir.IsWitness(b)
	if aw != bw {
		return bw // the non-witness wins
	}
	return ka < kb
}
