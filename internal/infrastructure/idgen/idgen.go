// Package idgen generates numeric snowflake ids and prefixed TypeID uids.
package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.jetify.com/typeid/v2"
)

// Generator implements billing.IDGenerator. Numeric ids are snowflakes, so
// every instance needs its own node number.
type Generator struct {
	node *snowflake.Node
}

// New creates a generator for a snowflake node in 0..1023
func New(node int64) (*Generator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", node, err)
	}
	return &Generator{node: n}, nil
}

// NextID returns a new time-ordered numeric id
func (g *Generator) NextID() int64 {
	return g.node.Generate().Int64()
}

// NewUID returns a public uid such as "ord_01h455vb4pex5vsknk084sn02q".
// It panics on an invalid prefix, which is a programming error.
func (g *Generator) NewUID(prefix string) string {
	tid, err := typeid.Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("idgen: invalid prefix %q: %v", prefix, err))
	}
	return tid.String()
}
