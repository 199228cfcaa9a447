package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// Generator produces time-ordered snowflake IDs for a single node.
// A nil *Generator falls back to KSUIDs.
type Generator struct {
	node *snowflake.Node
}

// New returns a Generator bound to nodeID (0..1023).
func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

// Next returns the next ID as a decimal string.
func (g *Generator) Next() string {
	if g == nil || g.node == nil {
		return NewKSUID()
	}
	return g.node.Generate().String()
}
