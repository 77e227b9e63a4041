package task

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type entry struct {
	id   ID
	task Task
}

// Registry maps task identifiers to implementations.
type Registry struct {
	tasks map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]entry)}
}

// Register adds t. Malformed and duplicate identifiers are rejected.
func (r *Registry) Register(t Task) error {
	id, err := ParseID(t.Name())
	if err != nil {
		return err
	}
	if _, exists := r.tasks[t.Name()]; exists {
		return fmt.Errorf("task %q is already registered", t.Name())
	}
	r.tasks[t.Name()] = entry{id: id, task: t}
	return nil
}

// RegisterModules registers every module in order, stopping at the first error.
func (r *Registry) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(r); err != nil {
			return err
		}
	}
	return nil
}

// Get looks a task up by identifier.
func (r *Registry) Get(name string) (Task, bool) {
	e, ok := r.tasks[name]
	return e.task, ok
}

// Len is the number of registered tasks.
func (r *Registry) Len() int {
	return len(r.tasks)
}

// List returns all tasks in natural identifier order.
func (r *Registry) List() []Task {
	entries := make([]entry, 0, len(r.tasks))
	for _, e := range r.tasks {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id.Less(entries[j].id) })

	out := make([]Task, len(entries))
	for i, e := range entries {
		out[i] = e.task
	}
	return out
}

// Names returns the identifiers of List.
func (r *Registry) Names() []string {
	tasks := r.List()
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.Name()
	}
	return names
}

// Filter keeps tasks whose index part (the number after the dot) contains
// query, so "3" matches task1.3 and task4.3. An empty query keeps everything.
func (r *Registry) Filter(query string) []Task {
	if query == "" {
		return r.List()
	}
	var out []Task
	for _, t := range r.List() {
		e := r.tasks[t.Name()]
		if strings.Contains(strconv.Itoa(e.id.Index), query) {
			out = append(out, t)
		}
	}
	return out
}
