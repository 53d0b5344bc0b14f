package shortener

import "context"

// Store is the durable mapping table. FindByURL only considers
// non-custom rows, matching the deduplication invariant: custom codes
// may point at a URL that already has a generated code.
type Store interface {
	FindByURL(ctx context.Context, url string) (*Link, error)
	FindByCode(ctx context.Context, code Code) (*Link, error)

	// Insert creates a row. It returns ErrCodeTaken when the code is
	// already present and ErrURLTaken when the non-custom dedup
	// constraint rejects the URL.
	Insert(ctx context.Context, link *Link) error

	CountLinks(ctx context.Context) (int64, error)

	// AllCodes streams every stored code, used to seed the existence
	// filter at startup.
	AllCodes(ctx context.Context, fn func(Code) error) error

	// InTx runs fn against a transactional view of the store. Any error
	// rolls the transaction back; no partial writes are observable.
	InTx(ctx context.Context, fn func(Store) error) error
}
