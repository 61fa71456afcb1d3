package uid

import (
	"crypto/rand"
	"math/big"

	"github.com/bwmarrin/snowflake"
)

// NumberID generates unique int64 identifiers.
type NumberID interface {
	Generate() int64
}

// Snowflake implements NumberID using twitter snowflake IDs.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake returns a snowflake generator with a random node number.
func NewSnowflake() (*Snowflake, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1024))
	if err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(n.Int64())
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
