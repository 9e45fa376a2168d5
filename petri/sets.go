package petri

// sortedSet helpers for []TransitionId, ported from dalzilio-nets/parser.go's
// setAdd/setUnion (sorted-slice sets over transition indices), extended with
// setIncluded/setMember to support PrioClosure.

func setAdd(s []TransitionId, v TransitionId) []TransitionId {
	if len(s) == 0 {
		return []TransitionId{v}
	}
	for i := range s {
		if s[i] == v {
			return s
		}
		if s[i] > v {
			res := make([]TransitionId, len(s)+1)
			copy(res[:i], s[:i])
			copy(res[i+1:], s[i:])
			res[i] = v
			return res
		}
	}
	res := make([]TransitionId, len(s))
	copy(res, s)
	return append(res, v)
}

func setUnion(s1, s2 []TransitionId) []TransitionId {
	res := make([]TransitionId, len(s1))
	copy(res, s1)
	for _, v := range s2 {
		res = setAdd(res, v)
	}
	return res
}

// setIncluded reports whether every element of s1 appears in s2 (both
// sorted).
func setIncluded(s1, s2 []TransitionId) bool {
	for _, v := range s1 {
		if setMember(s2, v) < 0 {
			return false
		}
	}
	return true
}

// setMember returns the index of v in the sorted slice s, or -1.
func setMember(s []TransitionId, v TransitionId) int {
	for i, w := range s {
		if w == v {
			return i
		}
		if w > v {
			return -1
		}
	}
	return -1
}
