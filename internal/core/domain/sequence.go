package domain

// SequenceKey scopes a lot index counter. LotBase is opaque and
// case-sensitive; "A1" and "a1" are distinct counters.
type SequenceKey struct {
	TenantID string
	LotBase  string
}

func (k SequenceKey) Valid() bool {
	return k.TenantID != "" && k.LotBase != ""
}

func (k SequenceKey) String() string {
	return k.TenantID + "/" + k.LotBase
}
