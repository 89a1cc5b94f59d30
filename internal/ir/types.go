package ir

// Relation is a relation symbol with an ordered arity of sort names.
type Relation struct {
	Name  string   `json:"name"`
	Arity []string `json:"arity"`
}

// Signature is a finite set of sort names and relation symbols.
// Immutable once constructed; the chase never adds sorts or relations.
type Signature struct {
	Sorts     []string   `json:"sorts"`
	Relations []Relation `json:"relations"`
}

// Relation looks up a relation symbol by name.
func (s Signature) Relation(name string) (Relation, bool) {
	for _, r := range s.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

// HasSort reports whether the signature declares the named sort.
func (s Signature) HasSort(name string) bool {
	for _, sort := range s.Sorts {
		if sort == name {
			return true
		}
	}
	return false
}
