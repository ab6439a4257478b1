package repl

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Handler runs one command or free-text input. The context carries the
// dispatch span and the session logger.
type Handler func(ctx context.Context, args string) error

// Command is a registered slash command.
type Command struct {
	Name        string
	Description string
	Handler     Handler
}

// registry maps lowercase "/name" to commands. Lookup is
// case-insensitive on the leading token.
type registry struct {
	mu       sync.Mutex
	commands map[string]Command
}

func newRegistry() *registry {
	return &registry{commands: map[string]Command{}}
}

// register adds a command. Panics on duplicate names; registration
// happens at startup where a duplicate is a programming error.
func (r *registry) register(name, description string, handler Handler) {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}

	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.commands[key]; dup {
		panic(fmt.Sprintf("repl: duplicate command registration for %q", name))
	}

	r.commands[key] = Command{Name: name, Description: description, Handler: handler}
}

func (r *registry) lookup(name string) (Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmd, ok := r.commands[strings.ToLower(name)]

	return cmd, ok
}

// list returns all commands sorted by name.
func (r *registry) list() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}

	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

	return cmds
}
