// Package location holds the current location tag of a mounted volume.
//
// New files are stamped with the current tag and directory listings only
// show entries whose tag matches it.
package location

import (
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/example/locfs/pkg/layout"
)

// Default is the tag in effect until Set is called.
const Default = "Home"

// Source supplies the current location.
type Source interface {
	Current() string
}

// Context is a concurrency-safe, replaceable location value.
type Context struct {
	current atomic.Pointer[string]

	mu       sync.Mutex
	watchers []chan<- string
}

// NewContext returns a context holding initial, or Default when initial
// is empty.
func NewContext(initial string) (*Context, error) {
	if initial == "" {
		initial = Default
	}
	if err := layout.ValidateName(initial); err != nil {
		return nil, err
	}
	c := &Context{}
	c.current.Store(&initial)
	return c, nil
}

func (c *Context) Current() string {
	return *c.current.Load()
}

// Set replaces the current location. The tag must be a non-empty bounded
// string.
func (c *Context) Set(tag string) error {
	if err := layout.ValidateName(tag); err != nil {
		return err
	}
	previous := c.current.Swap(&tag)
	log.WithFields(log.Fields{
		"from": *previous,
		"to":   tag,
	}).Info("Location changed")

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range c.watchers {
		select {
		case w <- tag:
		default:
		}
	}
	return nil
}

// Watch registers ch to receive every new location. Sends never block; a
// watcher that is not ready misses the value.
func (c *Context) Watch(ch chan<- string) {
	c.mu.Lock()
	c.watchers = append(c.watchers, ch)
	c.mu.Unlock()
}

// Fixed is a Source that always reports the same tag.
type Fixed string

func (f Fixed) Current() string { return string(f) }
