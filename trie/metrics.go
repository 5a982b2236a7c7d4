package trie

import "github.com/ethereum/go-ethereum/metrics"

var (
	cleanHitMeter   = metrics.NewRegisteredMeter("statetrie/store/cleans/hit", nil)
	cleanMissMeter  = metrics.NewRegisteredMeter("statetrie/store/cleans/miss", nil)
	cleanReadMeter  = metrics.NewRegisteredMeter("statetrie/store/cleans/read", nil)
	cleanWriteMeter = metrics.NewRegisteredMeter("statetrie/store/cleans/write", nil)

	saveTimeTimer   = metrics.NewRegisteredTimer("statetrie/store/save/time", nil)
	saveNodesMeter  = metrics.NewRegisteredMeter("statetrie/store/save/nodes", nil)
	saveValuesMeter = metrics.NewRegisteredMeter("statetrie/store/save/values", nil)
	saveBytesMeter  = metrics.NewRegisteredMeter("statetrie/store/save/bytes", nil)
)
