package memory_test

import (
	"testing"

	"github.com/aretw0/robotstudio/pkg/adapters/memory"
	"github.com/aretw0/robotstudio/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, func(*testing.T) ports.SnapshotStore {
		return memory.NewStore()
	})
}
