package testhelper

import (
	"github.com/jeffrom/journald/config"
)

// TestConfig returns a configuration pointing at a fresh temporary socket
// path.
func TestConfig(verbose bool) *config.Config {
	conf := config.New()
	conf.SocketPath = TmpSock()
	conf.SealThreshold = 0
	conf.Verbose = verbose
	return conf
}
