package visits

// Kind identifies the entity type a visit ledger tracks.
type Kind string

const (
	KindReview   Kind = "review"
	KindProvider Kind = "provider"
	KindService  Kind = "service"
)

type ledger struct {
	table  string
	column string
}

var ledgers = map[Kind]ledger{
	KindReview:   {table: "review_logs", column: "review_id"},
	KindProvider: {table: "provider_logs", column: "provider_id"},
	KindService:  {table: "service_logs", column: "service_id"},
}

func (k Kind) ledger() (ledger, error) {
	l, ok := ledgers[k]
	if !ok {
		return ledger{}, ErrUnknownKind
	}
	return l, nil
}
