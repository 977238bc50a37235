package presets

import (
	"time"

	"github.com/ringsync/go-ringsync/config"
)

func init() {
	register("fastnet", fastnet())
}

func fastnet() config.Config {
	conf := config.DefaultConfig()
	conf.TickInterval = 20 * time.Millisecond
	conf.Recovery.RetryInterval = time.Second
	conf.Recovery.RebroadcastInterval = 200 * time.Millisecond
	conf.Stream.CatchUpWait = time.Second
	conf.Stream.RebroadcastInterval = 200 * time.Millisecond
	conf.P2P.RequestTimeout = 2 * time.Second
	conf.P2P.BootstrapInterval = time.Second
	conf.P2P.PrivateNetwork = true
	return conf
}
