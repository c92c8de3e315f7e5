package app

import (
	"errors"
	"testing"
	"time"

	"github.com/idilsaglam/studywithme/internal/model"
	"github.com/idilsaglam/studywithme/internal/store"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func newTestController(t *testing.T) (*Controller, *store.Adapter) {
	t.Helper()
	a := store.NewAdapter(store.NewMemory())
	c := New(a, Options{Now: fixedClock(1000)})
	c.Load()
	return c, a
}

func TestSubmit_Add(t *testing.T) {
	c, a := newTestController(t)
	c.SaveProfile(model.UserProfile{Name: "Jiwoo"})

	n := c.Submit(" 1주차 ", " read ")
	if n.Level != LevelSuccess || n.Message != MsgAdded {
		t.Fatalf("notice: got %+v", n)
	}
	todos := c.Todos()
	if len(todos) != 1 {
		t.Fatalf("got %d todos, want 1", len(todos))
	}
	want := model.Todo{ID: 1000, Period: "1주차", Text: "read", Author: "Jiwoo"}
	if todos[0] != want {
		t.Errorf("got %+v, want %+v", todos[0], want)
	}

	stored, found, err := a.LoadTodos()
	if err != nil || !found || len(stored) != 1 {
		t.Errorf("persisted: %v found=%v err=%v", stored, found, err)
	}
}

func TestSubmit_FreshIDs(t *testing.T) {
	c, _ := newTestController(t)
	for i := 0; i < 5; i++ {
		c.Submit("p", "t")
	}
	seen := map[int64]bool{}
	for _, td := range c.Todos() {
		if seen[td.ID] {
			t.Fatalf("duplicate id %d", td.ID)
		}
		seen[td.ID] = true
	}
	if len(seen) != 5 {
		t.Errorf("got %d ids, want 5", len(seen))
	}
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		period string
		text   string
		want   string
	}{
		{"empty task", "1주차", "", MsgTaskRequired},
		{"blank task", "1주차", "   ", MsgTaskRequired},
		{"empty period", "", "read", MsgPeriodRequired},
		{"both empty", "", "", MsgTaskRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t)
			c.Submit("p", "existing")
			before := c.Todos()

			n := c.Submit(tt.period, tt.text)
			if n.Level != LevelError || n.Message != tt.want {
				t.Errorf("notice: got %+v, want error %q", n, tt.want)
			}
			if got := c.Todos(); len(got) != len(before) || got[0] != before[0] {
				t.Errorf("list changed: %+v", got)
			}
		})
	}
}

func TestSubmit_Edit(t *testing.T) {
	c, _ := newTestController(t)
	c.Submit("1주차", "a")
	c.Submit("1주차", "b")
	target := c.Todos()[1]
	c.Toggle(target.ID)

	if _, ok := c.BeginEdit(target.ID); !ok {
		t.Fatal("BeginEdit: not found")
	}
	if m, ok := c.Mode().(Editing); !ok || m.ID != target.ID {
		t.Fatalf("mode: got %#v", c.Mode())
	}

	n := c.Submit("2주차", "b2")
	if n.Message != MsgUpdated {
		t.Errorf("notice: got %+v", n)
	}
	if _, ok := c.Mode().(Idle); !ok {
		t.Errorf("mode after edit: got %#v, want Idle", c.Mode())
	}
	todos := c.Todos()
	if len(todos) != 2 {
		t.Fatalf("len: got %d, want 2", len(todos))
	}
	got := todos[1]
	if got.ID != target.ID || got.Period != "2주차" || got.Text != "b2" || !got.Completed || got.Author != target.Author {
		t.Errorf("edited todo: got %+v", got)
	}
	if todos[0].Text != "a" {
		t.Errorf("other todo changed: %+v", todos[0])
	}
}

func TestSubmit_EditValidationKeepsEditing(t *testing.T) {
	c, _ := newTestController(t)
	c.Submit("p", "a")
	id := c.Todos()[0].ID
	c.BeginEdit(id)

	c.Submit("p", "")
	if m, ok := c.Mode().(Editing); !ok || m.ID != id {
		t.Errorf("mode: got %#v, want Editing{%d}", c.Mode(), id)
	}
}

func TestSubmit_EditTargetDeleted(t *testing.T) {
	c, _ := newTestController(t)
	c.Submit("p", "a")
	c.Submit("p", "b")
	id := c.Todos()[0].ID
	c.BeginEdit(id)
	c.Delete(id)

	if _, ok := c.Mode().(Idle); !ok {
		t.Fatalf("deleting the edited todo should return to Idle, got %#v", c.Mode())
	}
	c.Submit("p", "c")
	if len(c.Todos()) != 2 {
		t.Errorf("expected an append after edit target vanished, got %+v", c.Todos())
	}
}

func TestEdit(t *testing.T) {
	c, _ := newTestController(t)
	c.Submit("p", "a")
	id := c.Todos()[0].ID

	if n := c.Edit(id, "q", "b"); n.Message != MsgUpdated {
		t.Errorf("Edit: %+v", n)
	}
	if n := c.Edit(42, "q", "b"); n.Message != MsgEditGone {
		t.Errorf("Edit unknown: %+v", n)
	}
	if got := c.Todos()[0]; got.Period != "q" || got.Text != "b" {
		t.Errorf("got %+v", got)
	}
}

func TestCancelEdit(t *testing.T) {
	c, _ := newTestController(t)
	c.Submit("p", "a")
	c.BeginEdit(c.Todos()[0].ID)
	c.CancelEdit()
	c.Submit("p", "b")
	if len(c.Todos()) != 2 {
		t.Errorf("submit after cancel should append, got %d todos", len(c.Todos()))
	}
}

func TestToggleTwice(t *testing.T) {
	c, _ := newTestController(t)
	c.Submit("p", "a")
	id := c.Todos()[0].ID

	if !c.Toggle(id) || !c.Todos()[0].Completed {
		t.Fatal("first toggle should complete")
	}
	c.Toggle(id)
	if c.Todos()[0].Completed {
		t.Error("second toggle should restore")
	}
	if c.Toggle(999) {
		t.Error("Toggle of unknown id reported found")
	}
}

func TestDelete(t *testing.T) {
	c, _ := newTestController(t)
	c.Submit("p", "a")
	c.Submit("p", "b")
	c.Submit("p", "c")
	todos := c.Todos()

	c.Delete(todos[1].ID)
	got := c.Todos()
	if len(got) != 2 || got[0] != todos[0] || got[1] != todos[2] {
		t.Errorf("after delete: %+v", got)
	}

	if n := c.Delete(12345); !n.IsZero() || len(c.Todos()) != 2 {
		t.Errorf("delete unknown: notice=%+v len=%d", n, len(c.Todos()))
	}
}

func TestClearAll(t *testing.T) {
	kv := store.NewMemory()
	c := New(store.NewAdapter(kv), Options{})
	c.Submit("p", "a")

	var prompt string
	if n := c.ClearAll(func(p string) bool { prompt = p; return false }); !n.IsZero() {
		t.Errorf("declined clear: %+v", n)
	}
	if prompt != ClearPrompt || len(c.Todos()) != 1 {
		t.Fatalf("declined clear changed state: prompt=%q len=%d", prompt, len(c.Todos()))
	}

	n := c.ClearAll(func(string) bool { return true })
	if n.Message != MsgCleared || len(c.Todos()) != 0 {
		t.Errorf("clear: notice=%+v len=%d", n, len(c.Todos()))
	}
	if _, ok, _ := kv.Get(store.TodosKey); ok {
		t.Error("stored blob not removed")
	}
}

func TestGroups(t *testing.T) {
	c, _ := newTestController(t)
	c.Submit("1주차", "a")
	c.Submit("2주차", "b")
	c.Submit("1주차", "c")

	groups := c.Groups()
	if len(groups) != 2 {
		t.Fatalf("got %d groups", len(groups))
	}
	if g := groups[0]; g.Period != "1주차" || len(g.Todos) != 2 || g.Todos[0].Text != "a" || g.Todos[1].Text != "c" {
		t.Errorf("first group: %+v", g)
	}
}

func TestSaveProfile(t *testing.T) {
	c, a := newTestController(t)

	if n := c.SaveProfile(model.UserProfile{Name: "  "}); n.Message != MsgNameRequired {
		t.Errorf("blank name: %+v", n)
	}
	if c.DisplayName() != model.NoName {
		t.Errorf("DisplayName: %q", c.DisplayName())
	}

	if n := c.SaveProfile(model.UserProfile{IsAnonymous: true}); n.Message != MsgProfileSaved {
		t.Errorf("anonymous: %+v", n)
	}
	if c.DisplayName() != model.AnonymousName {
		t.Errorf("DisplayName: %q", c.DisplayName())
	}
	c.Submit("p", "a")
	if c.Todos()[0].Author != model.AnonymousName {
		t.Errorf("author: %q", c.Todos()[0].Author)
	}

	stored, found, _ := a.LoadProfile()
	if !found || !stored.IsAnonymous {
		t.Errorf("profile not persisted: %+v", stored)
	}
}

func TestLoad_AdoptsStoredState(t *testing.T) {
	a := store.NewAdapter(store.NewMemory())
	a.SaveTodos([]model.Todo{{ID: 7, Period: "p", Text: "t"}})
	a.SaveProfile(model.UserProfile{Name: "Minji"})

	c := New(a, Options{})
	if n := c.Load(); !n.IsZero() {
		t.Errorf("Load notice: %+v", n)
	}
	if len(c.Todos()) != 1 || c.DisplayName() != "Minji" {
		t.Errorf("state: %+v %q", c.Todos(), c.DisplayName())
	}
}

func TestLoad_CorruptFallsBack(t *testing.T) {
	kv := store.NewMemory()
	kv.Set(store.TodosKey, []byte("{broken"))
	c := New(store.NewAdapter(kv), Options{})

	n := c.Load()
	if n.Level != LevelError || n.Message != MsgLoadFailed {
		t.Errorf("notice: %+v", n)
	}
	if len(c.Todos()) != 0 {
		t.Errorf("expected default empty list, got %+v", c.Todos())
	}
	if c.Submit("p", "a").Message != MsgAdded {
		t.Error("controller unusable after load failure")
	}
}

func TestAnonymousVariant(t *testing.T) {
	c := New(nil, Options{Anonymous: true})
	c.Load()
	c.Submit("p", "a")
	if c.Todos()[0].Author != "" {
		t.Errorf("author: %q, want empty", c.Todos()[0].Author)
	}
	if c.ProfilesEnabled() {
		t.Error("ProfilesEnabled should be false")
	}
}

type failingStorage struct{ *store.Adapter }

func (failingStorage) SaveTodos([]model.Todo) error { return errors.New("disk full") }

func TestSaveFailureReported(t *testing.T) {
	c := New(failingStorage{store.NewAdapter(store.NewMemory())}, Options{})
	n := c.Submit("p", "a")
	if n.Level != LevelError || n.Message != MsgSaveFailed {
		t.Errorf("notice: %+v", n)
	}
	if c.Notice() != n {
		t.Errorf("Notice(): %+v", c.Notice())
	}
	c.DismissNotice()
	if !c.Notice().IsZero() {
		t.Error("notice not dismissed")
	}
}
