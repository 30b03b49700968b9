//go:build wireinject

package wire

import (
	"github.com/google/wire"
)

// BuildContainer creates a new container with all dependencies wired up.
// The function body is replaced by wire with the generated implementation.
func BuildContainer() (*Container, error) {
	wire.Build(ContainerSet)
	return nil, nil
}
