package runledger

import "context"

// Repository appends entries. There is deliberately no update or delete.
type Repository interface {
	Insert(ctx context.Context, entry Entry) error
}
