package resource

import "slices"

// Array is an ordered list of strings. A nil element is an absent slot; its
// position still counts.
type Array struct {
	Base
	SourceArray []*string
	TargetArray []*string
}

// NewArray creates an array resource, defaulting the datatype to x-android-resource.
func NewArray(b Base, source, target []*string) *Array {
	b.applyDefaults(DatatypeAndroid)
	return &Array{Base: b, SourceArray: copyArray(source), TargetArray: copyArray(target)}
}

func (a *Array) Kind() Kind { return KindArray }

func (a *Array) HashKey() string { return hashKey("ra", &a.Base) }

func (a *Array) CleanHashKey() string { return cleanHashKey("ra", &a.Base) }

func (a *Array) Clone() Resource {
	return &Array{
		Base:        a.Base.clone(),
		SourceArray: copyArray(a.SourceArray),
		TargetArray: copyArray(a.TargetArray),
	}
}

func (a *Array) AddInstance(other Resource) error { return a.addInstance(a, other) }

func (a *Array) HasTarget() bool {
	return slices.ContainsFunc(a.TargetArray, func(s *string) bool { return s != nil && *s != "" })
}

func (a *Array) Equals(other Resource) bool {
	o, ok := other.(*Array)
	if !ok {
		return false
	}
	return a.metaEquals(&o.Base) &&
		slices.EqualFunc(a.SourceArray, o.SourceArray, equalPtr) &&
		slices.EqualFunc(a.TargetArray, o.TargetArray, equalPtr)
}

// Len is the number of slots, counting gaps, across source and target.
func (a *Array) Len() int {
	return max(len(a.SourceArray), len(a.TargetArray))
}

// SourceAt returns the source string at index i.
func (a *Array) SourceAt(i int) (string, bool) { return at(a.SourceArray, i) }

// TargetAt returns the target string at index i.
func (a *Array) TargetAt(i int) (string, bool) { return at(a.TargetArray, i) }

// SetSource stores s at index i, growing the array with gaps as needed.
func (a *Array) SetSource(i int, s string) { a.SourceArray = setAt(a.SourceArray, i, s) }

// SetTarget stores s at index i, growing the array with gaps as needed.
func (a *Array) SetTarget(i int, s string) { a.TargetArray = setAt(a.TargetArray, i, s) }

func at(arr []*string, i int) (string, bool) {
	if i < 0 || i >= len(arr) || arr[i] == nil {
		return "", false
	}
	return *arr[i], true
}

func setAt(arr []*string, i int, s string) []*string {
	if i < 0 {
		return arr
	}
	for len(arr) <= i {
		arr = append(arr, nil)
	}
	arr[i] = &s
	return arr
}

func copyArray(arr []*string) []*string {
	if arr == nil {
		return nil
	}
	out := make([]*string, len(arr))
	for i, s := range arr {
		if s != nil {
			v := *s
			out[i] = &v
		}
	}
	return out
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
