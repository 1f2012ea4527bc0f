package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/popis/internal/db"
	"github.com/erazemk/popis/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(db.NewTestDB(t))
}

func itemInput(name, serial string) model.ItemInput {
	return model.ItemInput{
		ItemName:     name,
		SerialNumber: serial,
		Status:       model.ItemStatusAvailable,
		Condition:    model.ConditionGood,
	}
}

func createItem(t *testing.T, s *Store, name, serial string) *model.Item {
	t.Helper()
	item, err := s.CreateItem(context.Background(), itemInput(name, serial), fmt.Sprintf("AST-%s", serial), nil)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item
}
