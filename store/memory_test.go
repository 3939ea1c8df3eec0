package store_test

import (
	"testing"

	"github.com/bellapacxx/bingo-rooms/store"
	"github.com/bellapacxx/bingo-rooms/store/storetest"
)

func TestMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return store.NewMemory() })
}
