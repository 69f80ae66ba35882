// Package view holds the permission-bound visibility binding: the headless
// equivalent of the console's structural "render iff permitted" directive.
package view

import "sync"

// Renderer is whatever displays the bound content. Show and Hide are only
// invoked when the visibility decision actually flips.
type Renderer interface {
	Show()
	Hide()
}

// PermissionSource is the slice of the permission cache a binding needs.
type PermissionSource interface {
	Has(permission string) bool
	HasAny(permissions []string) bool
	Subscribe(fn func(perms []string)) (unsubscribe func())
}

// Binding keeps a renderer in sync with the permission cache for the
// lifetime of the bound element. Change events may arrive from the cache's
// debounce timer, hence the lock.
type Binding struct {
	src      PermissionSource
	renderer Renderer
	perms    []string

	mu      sync.Mutex
	visible bool
	unsub   func()
}

// Bind evaluates synchronously, so the initial render does not wait for the
// first change event, and then re-evaluates on every cache change until
// Close. A single permission name checks Has, several check HasAny.
func Bind(src PermissionSource, permissions []string, renderer Renderer) *Binding {
	b := &Binding{
		src:      src,
		renderer: renderer,
		perms:    append([]string(nil), permissions...),
	}

	if b.allowed() {
		b.visible = true
		renderer.Show()
	} else {
		renderer.Hide()
	}

	b.unsub = src.Subscribe(func([]string) {
		b.update()
	})
	return b
}

// Close detaches the binding from the cache. The renderer is left in its
// last state; tearing down the element is the owner's concern.
func (b *Binding) Close() {
	b.mu.Lock()
	unsub := b.unsub
	b.unsub = nil
	b.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (b *Binding) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

func (b *Binding) update() {
	allowed := b.allowed()

	b.mu.Lock()
	if allowed == b.visible {
		b.mu.Unlock()
		return
	}
	b.visible = allowed
	b.mu.Unlock()

	if allowed {
		b.renderer.Show()
	} else {
		b.renderer.Hide()
	}
}

func (b *Binding) allowed() bool {
	switch len(b.perms) {
	case 0:
		return false
	case 1:
		return b.src.Has(b.perms[0])
	default:
		return b.src.HasAny(b.perms)
	}
}
