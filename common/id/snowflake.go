package id

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var ErrNotInitialized = errors.New("id generator not initialized")

var (
	node *snowflake.Node
	once sync.Once
)

// Init prepares the process-wide Snowflake node. Only the first call has an
// effect; every registry replica must use a distinct nodeID (0-1023).
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns a time-ordered int64 id for tenants, users and sessions.
func New() int64 {
	if node == nil {
		panic(ErrNotInitialized)
	}
	return node.Generate().Int64()
}
