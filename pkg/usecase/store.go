package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jeetu-ai/jeetu/pkg/domain/interfaces"
	"github.com/jeetu-ai/jeetu/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Store keys. Every partition is one JSON list under one key.
const sharedTaskSessionsKey = "shared_tasks/_sessions"

func actionsKey(userID string) string {
	return "actions/" + userID
}

func recordsKey(userID string, kind types.ActionKind) string {
	return "records/" + userID + "/" + kind.String()
}

func sharedTasksKey(sessionID string) string {
	return "shared_tasks/" + sessionID
}

func messagesKey(sessionID string) string {
	return "messages/" + sessionID
}

// errNoChange aborts updateList without writing
var errNoChange = goerr.New("no change")

// loadList reads the JSON list stored under key. A missing key is an empty list.
func loadList[T any](ctx context.Context, store interfaces.Store, key string) ([]T, error) {
	raw, _, err := store.Get(ctx, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read store", goerr.V(StoreKeyKey, key))
	}
	items, err := decodeList[T](raw)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode stored list", goerr.V(StoreKeyKey, key))
	}
	return items, nil
}

// updateList applies fn to the JSON list stored under key as one atomic
// store update. fn may run more than once, so it must only derive its result
// from the list it is given. Returning errNoChange leaves the list as is.
func updateList[T any](ctx context.Context, store interfaces.Store, key string, fn func(items []T) ([]T, error)) error {
	err := store.Update(ctx, key, func(old string) (string, error) {
		items, err := decodeList[T](old)
		if err != nil {
			return "", err
		}
		items, err = fn(items)
		if err != nil {
			return "", err
		}
		return encodeList(items)
	})
	if errors.Is(err, errNoChange) {
		return nil
	}
	if err != nil {
		return goerr.Wrap(err, "failed to update store", goerr.V(StoreKeyKey, key))
	}
	return nil
}

func decodeList[T any](raw string) ([]T, error) {
	if raw == "" {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, goerr.Wrap(err, "failed to decode list")
	}
	return items, nil
}

func encodeList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode list")
	}
	return string(raw), nil
}
