package stripe

import (
	"os"
	"testing"

	"go.vocdoni.io/dvote/log"
)

func TestMain(m *testing.M) {
	log.Init("debug", "stdout", nil)
	os.Exit(m.Run())
}
