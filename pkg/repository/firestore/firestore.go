package firestore

import (
	"context"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore is a Store backed by a single Firestore collection. Each key is
// one document; the key is path-escaped to form the document ID.
type Firestore struct {
	client           *firestore.Client
	collectionPrefix string
	clientOpts       []option.ClientOption
}

var _ interfaces.Store = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix isolates the collection, e.g. per test run
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

// WithClientOptions passes options such as credentials to the Firestore client
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(f *Firestore) {
		f.clientOpts = append(f.clientOpts, opts...)
	}
}

// entry is the persisted document
type entry struct {
	Key       string    `firestore:"key"`
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	f := &Firestore{}
	for _, opt := range opts {
		opt(f)
	}

	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, f.clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}
	f.client = client

	return f, nil
}

func (f *Firestore) collection() string {
	if f.collectionPrefix != "" {
		return f.collectionPrefix + "_kv"
	}
	return "kv"
}

func docID(key string) string {
	return url.PathEscape(key)
}

func (f *Firestore) Get(ctx context.Context, key string) (string, bool, error) {
	doc, err := f.client.Collection(f.collection()).Doc(docID(key)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", false, nil
		}
		return "", false, goerr.Wrap(err, "failed to get document", goerr.V("key", key))
	}

	var e entry
	if err := doc.DataTo(&e); err != nil {
		return "", false, goerr.Wrap(err, "failed to decode document", goerr.V("key", key))
	}

	return e.Value, true, nil
}

func (f *Firestore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return goerr.New("key is required")
	}

	e := entry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := f.client.Collection(f.collection()).Doc(docID(key)).Set(ctx, e); err != nil {
		return goerr.Wrap(err, "failed to set document", goerr.V("key", key))
	}

	return nil
}

// Update runs fn inside a Firestore transaction. The transaction retries fn
// when the document changed concurrently.
func (f *Firestore) Update(ctx context.Context, key string, fn func(old string) (string, error)) error {
	if key == "" {
		return goerr.New("key is required")
	}

	ref := f.client.Collection(f.collection()).Doc(docID(key))
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var old string
		doc, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return goerr.Wrap(err, "failed to get document in transaction", goerr.V("key", key))
		default:
			var e entry
			if err := doc.DataTo(&e); err != nil {
				return goerr.Wrap(err, "failed to decode document", goerr.V("key", key))
			}
			old = e.Value
		}

		value, err := fn(old)
		if err != nil {
			return err
		}

		return tx.Set(ref, entry{
			Key:       key,
			Value:     value,
			UpdatedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return goerr.Wrap(err, "failed to update document", goerr.V("key", key))
	}

	return nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
