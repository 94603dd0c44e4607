// Package kernels resolves a kernel implementation by name.
package kernels

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/relief/pkg/kernel"
	"github.com/chazu/relief/pkg/kernel/earcut"
	"github.com/chazu/relief/pkg/kernel/sdfx"
)

// Default is the kernel used when no name is given.
const Default = "earcut"

var registry = map[string]func() kernel.Kernel{
	"earcut": func() kernel.Kernel { return earcut.New() },
	"sdfx":   func() kernel.Kernel { return sdfx.New() },
}

// ByName returns a new kernel. An empty name selects Default.
func ByName(name string) (kernel.Kernel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = Default
	}
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("kernels: unknown kernel %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}

// Names lists the known kernels in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
