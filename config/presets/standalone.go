package presets

import (
	"time"

	"github.com/ringsync/go-ringsync/config"
)

func init() {
	register("standalone", standalone())
}

// standalone runs a single writer of the demo game log on localhost.
func standalone() config.Config {
	conf := config.DefaultConfig()
	conf.P2P.Listen = []string{"/ip4/127.0.0.1/tcp/7613"}
	conf.P2P.DisableDHT = true
	conf.DemoWriter = true
	conf.DemoInterval = 500 * time.Millisecond
	conf.Windows = []config.WindowConfig{
		{InstanceConfig: config.InstanceConfig{ID: 1}, Capacity: 256, EntrySize: 16},
	}
	conf.Streams = []config.InstanceConfig{{ID: 2}}
	return conf
}
