// Package ioobject connects to S3-compatible object stores.
package ioobject

import (
	"github.com/kpilake/kpilake/pkg/config"
	"github.com/kpilake/kpilake/pkg/store"
)

// New creates the object store client selected by cfg.Backend.
func New(cfg config.ObjectStoreConfig) (store.ObjectStore, error) {
	switch cfg.Backend {
	case "tos":
		return NewTOS(cfg)
	default:
		return NewMinio(cfg)
	}
}
