package catalog

import "context"

// Repository stores catalog documents by name
type Repository interface {
	Save(ctx context.Context, name string, doc Document) error
	Load(ctx context.Context, name string) (*Database, error)
	List(ctx context.Context) ([]string, error)
}
