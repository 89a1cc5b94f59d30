package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/benbjohnson/immutable"
)

var emptySorted = immutable.NewSortedMap(nil)

// Carrier is a duplicate-free collection of elements of one sort, backed by
// a persistent sorted map keyed by canonical value key. Adding an element
// returns a new Carrier sharing structure with the old one, which is what
// makes per-step instance cloning cheap. Iteration order is the canonical
// key order, so every walk over a carrier is deterministic.
type Carrier struct {
	m *immutable.SortedMap
}

// NewCarrier returns an empty carrier.
func NewCarrier() Carrier { return Carrier{emptySorted} }

// Len returns the number of elements.
func (c Carrier) Len() int {
	if c.m == nil {
		return 0
	}
	return c.m.Len()
}

// Has reports whether the element is present.
func (c Carrier) Has(v Value) bool {
	if c.m == nil {
		return false
	}
	_, ok := c.m.Get(MustValueKey(v))
	return ok
}

// Add returns a carrier containing v. Adding a present element is a no-op.
func (c Carrier) Add(v Value) Carrier {
	if c.m == nil {
		c.m = emptySorted
	}
	return Carrier{c.m.Set(MustValueKey(v), v)}
}

// Union returns a carrier with every element of c and o.
func (c Carrier) Union(o Carrier) Carrier {
	if o.m == nil {
		return c
	}
	out := c
	for itr := o.m.Iterator(); !itr.Done(); {
		_, v := itr.Next()
		out = out.Add(v.(Value))
	}
	return out
}

// Values lists the elements in canonical key order.
func (c Carrier) Values() []Value {
	if c.m == nil {
		return nil
	}
	out := make([]Value, 0, c.m.Len())
	for itr := c.m.Iterator(); !itr.Done(); {
		_, v := itr.Next()
		out = append(out, v.(Value))
	}
	return out
}

// TupleSet is a duplicate-free collection of relation tuples, keyed by
// canonical tuple key. Same persistence and ordering discipline as Carrier.
type TupleSet struct {
	m *immutable.SortedMap
}

// NewTupleSet returns an empty tuple set.
func NewTupleSet() TupleSet { return TupleSet{emptySorted} }

// Len returns the number of tuples.
func (ts TupleSet) Len() int {
	if ts.m == nil {
		return 0
	}
	return ts.m.Len()
}

// Has reports whether the tuple is present.
func (ts TupleSet) Has(t Tuple) bool {
	if ts.m == nil {
		return false
	}
	_, ok := ts.m.Get(MustTupleKey(t))
	return ok
}

// Add returns a tuple set containing t. Adding a present tuple is a no-op.
func (ts TupleSet) Add(t Tuple) TupleSet {
	if ts.m == nil {
		ts.m = emptySorted
	}
	return TupleSet{ts.m.Set(MustTupleKey(t), t)}
}

// Union returns a tuple set with every tuple of ts and o.
func (ts TupleSet) Union(o TupleSet) TupleSet {
	if o.m == nil {
		return ts
	}
	out := ts
	for itr := o.m.Iterator(); !itr.Done(); {
		_, t := itr.Next()
		out = out.Add(t.(Tuple))
	}
	return out
}

// Tuples lists the tuples in canonical key order.
func (ts TupleSet) Tuples() []Tuple {
	if ts.m == nil {
		return nil
	}
	out := make([]Tuple, 0, ts.m.Len())
	for itr := ts.m.Iterator(); !itr.Done(); {
		_, t := itr.Next()
		out = append(out, t.(Tuple))
	}
	return out
}

// Instance is a sigma-structure: one carrier per sort, one tuple set per
// relation. Instances are immutable values; every mutation helper returns a
// new Instance and never aliases caller state. The top-level maps are copied
// per operation while the persistent collections below them are shared.
type Instance struct {
	carriers  map[string]Carrier
	relations map[string]TupleSet
}

// NewInstance returns the empty instance over a signature, with an empty
// carrier for each sort and an empty tuple set for each relation.
func NewInstance(sig Signature) Instance {
	inst := Instance{
		carriers:  make(map[string]Carrier, len(sig.Sorts)),
		relations: make(map[string]TupleSet, len(sig.Relations)),
	}
	for _, sort := range sig.Sorts {
		inst.carriers[sort] = NewCarrier()
	}
	for _, rel := range sig.Relations {
		inst.relations[rel.Name] = NewTupleSet()
	}
	return inst
}

func (inst Instance) clone() Instance {
	out := Instance{
		carriers:  make(map[string]Carrier, len(inst.carriers)),
		relations: make(map[string]TupleSet, len(inst.relations)),
	}
	for sort, c := range inst.carriers {
		out.carriers[sort] = c
	}
	for rel, ts := range inst.relations {
		out.relations[rel] = ts
	}
	return out
}

// Empty returns an instance with the same sorts and relations but no
// elements or tuples.
func (inst Instance) Empty() Instance {
	out := Instance{
		carriers:  make(map[string]Carrier, len(inst.carriers)),
		relations: make(map[string]TupleSet, len(inst.relations)),
	}
	for sort := range inst.carriers {
		out.carriers[sort] = NewCarrier()
	}
	for rel := range inst.relations {
		out.relations[rel] = NewTupleSet()
	}
	return out
}

// Carrier returns the carrier for a sort (empty if the sort is unknown).
func (inst Instance) Carrier(sort string) Carrier {
	return inst.carriers[sort]
}

// TupleSet returns the tuple set for a relation (empty if unknown).
func (inst Instance) TupleSet(rel string) TupleSet {
	return inst.relations[rel]
}

// Sorts lists the sorts carrying elements or declared at construction,
// sorted by name.
func (inst Instance) Sorts() []string {
	out := make([]string, 0, len(inst.carriers))
	for sort := range inst.carriers {
		out = append(out, sort)
	}
	slices.Sort(out)
	return out
}

// Relations lists the relation names, sorted.
func (inst Instance) Relations() []string {
	out := make([]string, 0, len(inst.relations))
	for rel := range inst.relations {
		out = append(out, rel)
	}
	slices.Sort(out)
	return out
}

// WithElement returns an instance whose sort carrier also contains v.
// Unknown sorts get a carrier on first use (malformed input is not
// validated here; see theory.Validate).
func (inst Instance) WithElement(sort string, v Value) Instance {
	out := inst.clone()
	out.carriers[sort] = out.carriers[sort].Add(v)
	return out
}

// WithTuple returns an instance whose relation also contains t.
func (inst Instance) WithTuple(rel string, t Tuple) Instance {
	out := inst.clone()
	out.relations[rel] = out.relations[rel].Add(t)
	return out
}

// Union returns the pointwise union of two instances: every carrier and
// every tuple set unioned, deduplicated by canonical key. Because the chase
// is inflationary this is the colimit of a chase chain.
func (inst Instance) Union(other Instance) Instance {
	out := inst.clone()
	for sort, c := range other.carriers {
		out.carriers[sort] = out.carriers[sort].Union(c)
	}
	for rel, ts := range other.relations {
		out.relations[rel] = out.relations[rel].Union(ts)
	}
	return out
}

// ElementCount returns the total number of elements across all carriers.
func (inst Instance) ElementCount() int {
	n := 0
	for _, c := range inst.carriers {
		n += c.Len()
	}
	return n
}

// TupleCount returns the total number of tuples across all relations.
func (inst Instance) TupleCount() int {
	n := 0
	for _, ts := range inst.relations {
		n += ts.Len()
	}
	return n
}

// Canonical encodes the instance as canonical JSON:
// {"carriers":{sort:[...]},"relations":{rel:[...]}} with all keys in RFC
// 8785 order and collections in canonical key order. Sorts and relations
// that are empty are included, so the encoding is stable across instances
// built from the same signature.
func (inst Instance) Canonical() ([]byte, error) {
	carrierFields := make(map[string][]byte, len(inst.carriers))
	for sort, c := range inst.carriers {
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, v := range c.Values() {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := CanonicalValue(v)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		carrierFields[sort] = buf.Bytes()
	}
	relFields := make(map[string][]byte, len(inst.relations))
	for rel, ts := range inst.relations {
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, t := range ts.Tuples() {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := CanonicalTuple(t)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		relFields[rel] = buf.Bytes()
	}

	carriers, err := canonicalObject(carrierFields)
	if err != nil {
		return nil, err
	}
	relations, err := canonicalObject(relFields)
	if err != nil {
		return nil, err
	}
	return canonicalObject(map[string][]byte{
		"carriers":  carriers,
		"relations": relations,
	})
}

// Hash returns the content-addressed hash of the instance, the change
// detection oracle used by every chase loop.
func (inst Instance) Hash() (string, error) {
	canonical, err := inst.Canonical()
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainInstance, canonical), nil
}

// MustHash is like Hash but panics on error.
// Element values are a closed variant, so failures indicate a bug.
func (inst Instance) MustHash() string {
	h, err := inst.Hash()
	if err != nil {
		panic(err)
	}
	return h
}

// Equal reports structural equality via canonical hashing.
func (inst Instance) Equal(other Instance) bool {
	return inst.MustHash() == other.MustHash()
}

// UnmarshalInstance decodes the JSON form produced by Canonical. The
// canonical form does not record relation arities, so the decoded
// signature infers each arity from the relation's first tuple; a relation
// with no tuples decodes with an empty arity.
func UnmarshalInstance(data []byte) (Instance, error) {
	var raw struct {
		Carriers  map[string][]json.RawMessage   `json:"carriers"`
		Relations map[string][][]json.RawMessage `json:"relations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Instance{}, fmt.Errorf("decode instance: %w", err)
	}

	var sig Signature
	for sort := range raw.Carriers {
		sig.Sorts = append(sig.Sorts, sort)
	}
	slices.Sort(sig.Sorts)

	var relNames []string
	for rel := range raw.Relations {
		relNames = append(relNames, rel)
	}
	slices.Sort(relNames)
	for _, name := range relNames {
		rel := Relation{Name: name}
		if rows := raw.Relations[name]; len(rows) > 0 {
			rel.Arity = make([]string, len(rows[0]))
		}
		sig.Relations = append(sig.Relations, rel)
	}

	inst := NewInstance(sig)
	for _, sort := range sig.Sorts {
		for i, rawVal := range raw.Carriers[sort] {
			v, err := UnmarshalValue(rawVal)
			if err != nil {
				return Instance{}, fmt.Errorf("carriers[%s][%d]: %w", sort, i, err)
			}
			inst = inst.WithElement(sort, v)
		}
	}
	for _, name := range relNames {
		for i, row := range raw.Relations[name] {
			t := make(Tuple, len(row))
			for j, rawVal := range row {
				v, err := UnmarshalValue(rawVal)
				if err != nil {
					return Instance{}, fmt.Errorf("relations[%s][%d][%d]: %w", name, i, j, err)
				}
				t[j] = v
			}
			inst = inst.WithTuple(name, t)
		}
	}
	return inst, nil
}
