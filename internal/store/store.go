// Package store provides the flat key/value persistence behind order-form
// sessions. Each form slice is stored as an independent JSON document so a
// corrupt or missing slice degrades to its default instead of poisoning the
// whole form.
package store

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// Slice keys. Every persisted piece of a session lives under one of these,
// scoped by session id.
const (
	KeyCustomer     = "customer"
	KeyBilling      = "billing"
	KeyDates        = "dates"
	KeyContract     = "contract"
	KeyPlan         = "plan"
	KeyProducts     = "products"
	KeyIntegrations = "integrations"
	KeyFees         = "fees"
	KeyUsageTiers   = "usageTiers"
	KeyTerms        = "terms"
	KeyTemplates    = "templates"
)

// KV is the persistence port. Implementations must treat a missing key as
// (nil, false, nil), not an error.
type KV interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadJSON reads key from kv and unmarshals it into a T. A missing key,
// a read error, or corrupt JSON all yield the provided default; errors and
// corruption are logged and otherwise swallowed so one bad slice never
// blocks a session from loading.
func LoadJSON[T any](ctx context.Context, kv KV, log zerolog.Logger, key string, def T) T {
	data, ok, err := kv.Load(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("store read failed, using default")
		return def
	}
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("corrupt stored value, using default")
		return def
	}
	return v
}

// SaveJSON marshals v and writes it under key.
func SaveJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Save(ctx, key, data)
}
