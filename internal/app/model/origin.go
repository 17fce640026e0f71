package model

type OriginKind string

const (
	OriginInternal OriginKind = "internal" // dine-in, bound to a table
	OriginExternal OriginKind = "external" // pickup or delivery customer
)

// Origin classifies where an order comes from. TableID and TableNumber are
// only set for OriginInternal.
type Origin struct {
	Kind        OriginKind `json:"type"`
	TableID     uint       `json:"table_id,omitempty"`
	TableNumber int        `json:"table_number,omitempty"`
}

func InternalOrigin(tableID uint, tableNumber int) Origin {
	return Origin{Kind: OriginInternal, TableID: tableID, TableNumber: tableNumber}
}

func ExternalOrigin() Origin {
	return Origin{Kind: OriginExternal}
}

func (o Origin) IsInternal() bool {
	return o.Kind == OriginInternal
}

// OriginOrExternal treats a missing origin as an external customer.
func OriginOrExternal(o *Origin) Origin {
	if o == nil || o.Kind == "" {
		return ExternalOrigin()
	}
	return *o
}
