// Package app owns the in-memory todo list and user profile and applies
// every user intent to them.
package app

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/studywithme/internal/model"
	"github.com/idilsaglam/studywithme/internal/store"
)

// Storage is what the controller needs from the storage adapter.
type Storage interface {
	LoadTodos() ([]model.Todo, bool, error)
	SaveTodos([]model.Todo) error
	ClearTodos() error
	LoadProfile() (model.UserProfile, bool, error)
	SaveProfile(model.UserProfile) error
}

// Options configure a Controller.
type Options struct {
	// Anonymous drops profiles: no author is stamped and the profile is
	// neither loaded nor saved.
	Anonymous bool
	Now       func() time.Time
	Logger    *log.Logger
}

// Controller is the single owner of application state. It is not safe for
// concurrent use.
type Controller struct {
	storage Storage
	opts    Options
	log     *log.Logger

	todos   []model.Todo
	profile model.UserProfile
	mode    EditMode
	notice  Notice
}

// New builds a controller with default state. Call Load to adopt what the
// storage holds.
func New(storage Storage, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if storage == nil {
		storage = store.NewAdapter(store.NewMemory())
	}
	return &Controller{
		storage: storage,
		opts:    opts,
		log:     logger,
		todos:   []model.Todo{},
		mode:    Idle{},
	}
}

// Load adopts stored state. Unreadable entries leave the defaults in place
// and produce an error notice.
func (c *Controller) Load() Notice {
	var n Notice
	todos, found, err := c.storage.LoadTodos()
	switch {
	case err != nil:
		c.log.Error("load todos", "err", err, "corrupt", errors.Is(err, store.ErrCorrupt))
		n = failure(MsgLoadFailed)
	case found:
		c.todos = todos
	}
	if !c.opts.Anonymous {
		p, found, err := c.storage.LoadProfile()
		switch {
		case err != nil:
			c.log.Error("load profile", "err", err, "corrupt", errors.Is(err, store.ErrCorrupt))
			n = failure(MsgLoadFailed)
		case found:
			c.profile = p
		}
	}
	c.log.Debug("state loaded", "todos", len(c.todos))
	return c.report(n)
}

// Todos returns a copy of the list in insertion order.
func (c *Controller) Todos() []model.Todo {
	return append([]model.Todo(nil), c.todos...)
}

// Groups partitions the list by period, groups in first-seen order.
func (c *Controller) Groups() []model.Group {
	return model.GroupByPeriod(c.todos)
}

func (c *Controller) Stats() (done, pending int) {
	return model.Stats(c.todos)
}

// Find returns the todo with id.
func (c *Controller) Find(id int64) (model.Todo, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.todos[i], true
	}
	return model.Todo{}, false
}

func (c *Controller) Mode() EditMode { return c.mode }

// Notice is the last reported notice.
func (c *Controller) Notice() Notice { return c.notice }

func (c *Controller) DismissNotice() { c.notice = Notice{} }

func (c *Controller) Profile() model.UserProfile { return c.profile }

// ProfilesEnabled reports whether profiles are part of this variant.
func (c *Controller) ProfilesEnabled() bool { return !c.opts.Anonymous }

// DisplayName resolves the current author name.
func (c *Controller) DisplayName() string {
	return c.profile.DisplayName()
}

// Submit adds a todo, or rewrites the one being edited.
func (c *Controller) Submit(period, text string) Notice {
	period, text = strings.TrimSpace(period), strings.TrimSpace(text)
	if text == "" {
		return c.report(failure(MsgTaskRequired))
	}
	if period == "" {
		return c.report(failure(MsgPeriodRequired))
	}

	switch m := c.mode.(type) {
	case Editing:
		c.mode = Idle{}
		i := c.indexOf(m.ID)
		if i < 0 {
			return c.report(failure(MsgEditGone))
		}
		next := c.Todos()
		next[i].Text = text
		next[i].Period = period
		return c.commit(next, success(MsgUpdated))
	default:
		t := model.Todo{
			ID:     c.nextID(),
			Period: period,
			Text:   text,
		}
		if !c.opts.Anonymous {
			t.Author = c.DisplayName()
		}
		return c.commit(append(c.Todos(), t), success(MsgAdded))
	}
}

// Add appends a todo regardless of the edit mode.
func (c *Controller) Add(period, text string) Notice {
	c.mode = Idle{}
	return c.Submit(period, text)
}

// Edit rewrites the todo with id regardless of the edit mode.
func (c *Controller) Edit(id int64, period, text string) Notice {
	if _, ok := c.BeginEdit(id); !ok {
		return c.report(failure(MsgEditGone))
	}
	n := c.Submit(period, text)
	c.mode = Idle{}
	return n
}

// BeginEdit switches to editing id and returns the record to prefill inputs.
func (c *Controller) BeginEdit(id int64) (model.Todo, bool) {
	t, ok := c.Find(id)
	if !ok {
		return model.Todo{}, false
	}
	c.mode = Editing{ID: id}
	return t, true
}

func (c *Controller) CancelEdit() { c.mode = Idle{} }

// Delete removes the todo with id. Unknown ids are ignored.
func (c *Controller) Delete(id int64) Notice {
	i := c.indexOf(id)
	if i < 0 {
		return Notice{}
	}
	if e, ok := c.mode.(Editing); ok && e.ID == id {
		c.mode = Idle{}
	}
	next := make([]model.Todo, 0, len(c.todos)-1)
	next = append(next, c.todos[:i]...)
	next = append(next, c.todos[i+1:]...)
	return c.commit(next, success(MsgDeleted))
}

// Toggle flips the completion flag of id and reports whether it was found.
func (c *Controller) Toggle(id int64) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	next := c.Todos()
	next[i].Completed = !next[i].Completed
	c.commit(next, Notice{})
	return true
}

// ClearAll removes every todo and the stored blob once confirm agrees.
func (c *Controller) ClearAll(confirm func(prompt string) bool) Notice {
	if confirm == nil || !confirm(ClearPrompt) {
		return Notice{}
	}
	c.todos = []model.Todo{}
	c.mode = Idle{}
	if err := c.storage.ClearTodos(); err != nil {
		c.log.Error("clear todos", "err", err)
		return c.report(failure(MsgSaveFailed))
	}
	c.log.Info("todos cleared")
	return c.report(success(MsgCleared))
}

// SaveProfile validates and stores p.
func (c *Controller) SaveProfile(p model.UserProfile) Notice {
	p.Name = strings.TrimSpace(p.Name)
	if !p.IsAnonymous && p.Name == "" {
		return c.report(failure(MsgNameRequired))
	}
	c.profile = p
	if c.opts.Anonymous {
		return c.report(success(MsgProfileSaved))
	}
	if err := c.storage.SaveProfile(p); err != nil {
		c.log.Error("save profile", "err", err)
		return c.report(failure(MsgSaveFailed))
	}
	return c.report(success(MsgProfileSaved))
}

// commit replaces the list, persists it, and reports n on success.
func (c *Controller) commit(next []model.Todo, n Notice) Notice {
	c.todos = next
	if err := c.storage.SaveTodos(c.todos); err != nil {
		c.log.Error("save todos", "err", err)
		return c.report(failure(MsgSaveFailed))
	}
	return c.report(n)
}

func (c *Controller) report(n Notice) Notice {
	if !n.IsZero() {
		c.notice = n
		c.log.Debug("notice", "level", n.Level, "msg", n.Message)
	}
	return n
}

func (c *Controller) indexOf(id int64) int {
	for i, t := range c.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID is the current time in milliseconds, moved past every id in use.
func (c *Controller) nextID() int64 {
	id := c.opts.Now().UnixMilli()
	for _, t := range c.todos {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}
