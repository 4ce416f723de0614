package jsonvalue

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is an insertion-ordered mapping. Members are kept as an association
// list for serialization; lookups go through a derived key index.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// ObjectOf builds an object from the members in order. Later duplicates
// replace earlier values in place.
func ObjectOf(members ...Member) *Object {
	obj := NewObject()
	for _, m := range members {
		obj.Set(m.Key, m.Value)
	}
	return obj
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.members[i].Value, true
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.index[key]
	return ok
}

// Set stores value under key. Existing keys keep their position.
func (o *Object) Set(key string, value Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = value
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: value})
}

// Delete removes key, preserving the order of the remaining members.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	i, ok := o.index[key]
	if !ok {
		return false
	}
	o.members = append(o.members[:i], o.members[i+1:]...)
	delete(o.index, key)
	for j := i; j < len(o.members); j++ {
		o.index[o.members[j].Key] = j
	}
	return true
}

// Keys returns the member keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Members returns a copy of the members in insertion order.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	return append([]Member(nil), o.members...)
}

// Clone deep-copies the object.
func (o *Object) Clone() *Object {
	out := NewObject()
	if o == nil {
		return out
	}
	out.members = make([]Member, len(o.members))
	for i, m := range o.members {
		out.members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		out.index[m.Key] = i
	}
	return out
}
