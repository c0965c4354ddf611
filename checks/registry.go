// Package checks holds the mesh-integrity checks, their registry, and
// the orchestrator that runs a selected subset over one mesh.
package checks

import (
	"errors"
	"fmt"

	"github.com/meshkit/meshdoctor/mesh"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// ErrUnknownCheck reports a check name absent from the runnable set.
var ErrUnknownCheck = errors.New("unknown check")

// Definition is one runnable check: an options builder, the action,
// and a display function for its result.
type Definition struct {
	Name    string
	Options func(flat map[string]any) (any, error)
	Action  func(m *mesh.Mesh, opts any) (Result, error)
	Display func(r Result) string
}

// Constructor builds a check Definition; a failing constructor leaves
// that check out of the registry without affecting the others.
type Constructor func(log *zap.Logger) (Definition, error)

// TableEntry names one known check.
type TableEntry struct {
	Name  string
	Build Constructor
}

// DefaultTable is the closed list of known checks, in display order.
func DefaultTable() []TableEntry {
	return []TableEntry{
		{CheckCollocatedPoints, newCollocatedCheck},
		{CheckDuplicateSupportNodes, newDuplicateSupportCheck},
		{CheckSmallVolumes, newSmallVolumeCheck},
		{CheckInvalidCells, newInvalidCellCheck},
		{CheckSupportedElements, newSupportedCheck},
	}
}

// Known check names.
const (
	CheckCollocatedPoints      = "collocated-points"
	CheckDuplicateSupportNodes = "duplicate-support-nodes"
	CheckSmallVolumes          = "small-volumes"
	CheckInvalidCells          = "invalid-cells"
	CheckSupportedElements     = "supported-elements"
)

// Registry maps check names to runnable definitions.
type Registry struct {
	log   *zap.Logger
	names []string
	defs  map[string]Definition
}

// NewRegistry builds the registry from the default table.
func NewRegistry(log *zap.Logger) *Registry {
	return NewRegistryFromTable(log, DefaultTable())
}

// NewRegistryFromTable builds a registry from an explicit table. Each
// constructor runs independently; a failure is logged and that check
// is simply absent from the runnable set.
func NewRegistryFromTable(log *zap.Logger, table []TableEntry) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{log: log, defs: make(map[string]Definition)}
	for _, e := range table {
		def, err := e.Build(log)
		if err != nil {
			log.Error("check unavailable, skipping",
				zap.String("check", e.Name), zap.Error(err))
			continue
		}
		r.names = append(r.names, e.Name)
		r.defs[e.Name] = def
	}
	return r
}

// Names lists the runnable checks in table order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Lookup returns the definition for a check name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// RunChecks runs the named checks strictly in the given order, passing
// each its own flat option map, and aggregates the results by name.
// Checks are independent; no check observes another's result. An
// unknown name or a failing check aborts the run.
func (r *Registry) RunChecks(m *mesh.Mesh, names []string,
	opts map[string]map[string]any) (map[string]Result, error) {
	results := make(map[string]Result, len(names))
	for _, name := range names {
		def, ok := r.defs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, name)
		}
		o, err := def.Options(opts[name])
		if err != nil {
			return nil, fmt.Errorf("check %q options: %w", name, err)
		}
		r.log.Info("running check", zap.String("check", name))
		res, err := def.Action(m, o)
		if err != nil {
			return nil, fmt.Errorf("check %q: %w", name, err)
		}
		results[name] = res
	}
	return results, nil
}

// decodeOptions fills a typed options struct from the flat string->
// value mapping a config layer hands over. Unknown keys are input
// errors.
func decodeOptions(flat map[string]any, into any) error {
	if flat == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      into,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(flat); err != nil {
		return fmt.Errorf("invalid options %v: %w", flat, err)
	}
	return nil
}

func summaryDisplay(r Result) string { return r.Summary() }
