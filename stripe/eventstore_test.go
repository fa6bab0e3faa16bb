package stripe

import (
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestMemoryEventStore(t *testing.T) {
	c := qt.New(t)
	store := NewMemoryEventStore(time.Hour)

	c.Assert(store.AlreadyProcessed("evt_1"), qt.IsFalse)
	store.MarkProcessed("evt_1")
	c.Assert(store.AlreadyProcessed("evt_1"), qt.IsTrue)
	c.Assert(store.AlreadyProcessed("evt_2"), qt.IsFalse)
}

func TestMemoryEventStoreConcurrent(t *testing.T) {
	c := qt.New(t)
	store := NewMemoryEventStore(0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.MarkProcessed("evt_shared")
			store.AlreadyProcessed("evt_shared")
		}()
	}
	wg.Wait()
	c.Assert(store.AlreadyProcessed("evt_shared"), qt.IsTrue)
}
