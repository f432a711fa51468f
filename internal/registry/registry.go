package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/depsgraph/internal/node"
	"github.com/vk/depsgraph/internal/scene"
	"github.com/zclconf/go-cty/cty/function"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Handler evaluates one operation using the scene data in its binding.
type Handler func(ctx context.Context, op *node.OperationNode, b *Binding) error

// ConstraintHandler moves a location towards a constraint target. It
// receives the current location and returns the constrained one.
type ConstraintHandler func(ctx context.Context, c *scene.Constraint, current []float64, b *Binding) ([]float64, error)

// HandlerDriver is the handler key shared by all driver operations.
const HandlerDriver node.Opcode = "driver"

// Registry holds all the registered handlers for a single application
// instance.
type Registry struct {
	handlers    map[node.Opcode]Handler
	modifiers   map[string]Handler
	constraints map[string]ConstraintHandler
	functions   map[string]function.Function
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		handlers:    make(map[node.Opcode]Handler),
		modifiers:   make(map[string]Handler),
		constraints: make(map[string]ConstraintHandler),
		functions:   make(map[string]function.Function),
	}
}

// NewWith creates a registry and registers every module.
func NewWith(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterHandler registers the handler for a fixed opcode.
func (r *Registry) RegisterHandler(opcode node.Opcode, h Handler) {
	if _, exists := r.handlers[opcode]; exists {
		panic(fmt.Sprintf("handler for opcode '%s' already registered", opcode))
	}
	slog.Debug("Registering operation handler.", "opcode", opcode)
	r.handlers[opcode] = h
}

// RegisterModifier registers the handler for a modifier type.
func (r *Registry) RegisterModifier(modifierType string, h Handler) {
	if _, exists := r.modifiers[modifierType]; exists {
		panic(fmt.Sprintf("modifier '%s' already registered", modifierType))
	}
	slog.Debug("Registering modifier handler.", "type", modifierType)
	r.modifiers[modifierType] = h
}

// RegisterConstraint registers the handler for a constraint type.
func (r *Registry) RegisterConstraint(constraintType string, h ConstraintHandler) {
	if _, exists := r.constraints[constraintType]; exists {
		panic(fmt.Sprintf("constraint '%s' already registered", constraintType))
	}
	slog.Debug("Registering constraint handler.", "type", constraintType)
	r.constraints[constraintType] = h
}

// RegisterFunction makes fn callable from driver expressions.
func (r *Registry) RegisterFunction(name string, fn function.Function) {
	if _, exists := r.functions[name]; exists {
		panic(fmt.Sprintf("function '%s' already registered", name))
	}
	r.functions[name] = fn
}

// Handler returns the handler registered for opcode.
func (r *Registry) Handler(opcode node.Opcode) (Handler, bool) {
	h, ok := r.handlers[opcode]
	return h, ok
}

// Modifier returns the handler registered for a modifier type.
func (r *Registry) Modifier(modifierType string) (Handler, bool) {
	h, ok := r.modifiers[modifierType]
	return h, ok
}

// Constraint returns the handler registered for a constraint type.
func (r *Registry) Constraint(constraintType string) (ConstraintHandler, bool) {
	h, ok := r.constraints[constraintType]
	return h, ok
}

// Functions returns the driver function table. The map must not be
// modified.
func (r *Registry) Functions() map[string]function.Function {
	return r.functions
}

// Opcodes lists the registered fixed opcodes, sorted.
func (r *Registry) Opcodes() []string {
	out := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}

// Callback binds the handler for opcode to b. Modifier and driver
// operations are dispatched on the binding rather than the opcode.
func (r *Registry) Callback(opcode node.Opcode, b *Binding) (node.Callback, error) {
	var (
		h  Handler
		ok bool
	)
	switch {
	case b.Modifier != nil:
		if h, ok = r.modifiers[b.Modifier.Type]; !ok {
			return nil, &UnknownHandlerError{Kind: "modifier", Name: b.Modifier.Type, Entity: b.Entity()}
		}
	case b.Driver != nil:
		if h, ok = r.handlers[HandlerDriver]; !ok {
			return nil, &UnknownHandlerError{Kind: "operation", Name: string(HandlerDriver), Entity: b.Entity()}
		}
	default:
		if h, ok = r.handlers[opcode]; !ok {
			return nil, &UnknownHandlerError{Kind: "operation", Name: string(opcode), Entity: b.Entity()}
		}
	}
	b.registry = r
	return func(ctx context.Context, op *node.OperationNode) error {
		return h(ctx, op, b)
	}, nil
}
