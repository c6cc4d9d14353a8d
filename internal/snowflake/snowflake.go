package snowflake

import "github.com/bwmarrin/snowflake"

// Generator hands out unique entry ids.
type Generator struct {
	node *snowflake.Node
}

// NewGenerator creates a generator for the given node ID.
// Node ID should be unique across all instances (0-1023).
func NewGenerator(nodeID int64) (*Generator, error) {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &Generator{node: n}, nil
}

// NextID generates a new unique snowflake ID.
func (g *Generator) NextID() int64 {
	return g.node.Generate().Int64()
}
