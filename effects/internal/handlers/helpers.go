package handlers

import (
	effectmodel "github.com/on-the-ground/memo_ive_go/effects/internal/model"

	"github.com/cespare/xxhash/v2"
)

// getIndexByHash picks the worker for payload. The modulo is taken on the
// unsigned hash so the index is never negative.
func getIndexByHash(payload effectmodel.Partitionable, numChs int) int {
	switch numChs {
	case 0:
		panic("number of channels cannot be 0")
	case 1:
		return 0
	default:
		return int(xxhash.Sum64String(payload.PartitionKey()) % uint64(numChs))
	}
}
