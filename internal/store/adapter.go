package store

import (
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/studywithme/internal/model"
)

// Fixed keys of the two persisted blobs.
const (
	TodosKey   = "studyWithMe_todos"
	ProfileKey = "studyWithMe_userProfile"
)

// ErrCorrupt marks a stored blob that exists but cannot be adopted.
var ErrCorrupt = errors.New("stored data is corrupt")

// Adapter reads and writes typed records through a KV.
type Adapter struct {
	kv KV
}

func NewAdapter(kv KV) *Adapter {
	return &Adapter{kv: kv}
}

// LoadTodos returns the stored list and whether an entry existed.
func (a *Adapter) LoadTodos() ([]model.Todo, bool, error) {
	var todos []model.Todo
	found, err := a.load(TodosKey, todosSchema, &todos)
	if err != nil || !found {
		return nil, found, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, true, nil
}

func (a *Adapter) SaveTodos(todos []model.Todo) error {
	if todos == nil {
		todos = []model.Todo{}
	}
	return a.save(TodosKey, todos)
}

// ClearTodos removes the todo blob entirely.
func (a *Adapter) ClearTodos() error {
	if err := a.kv.Delete(TodosKey); err != nil {
		return fmt.Errorf("delete %s: %w", TodosKey, err)
	}
	return nil
}

// LoadProfile returns the stored profile and whether an entry existed.
func (a *Adapter) LoadProfile() (model.UserProfile, bool, error) {
	var p model.UserProfile
	found, err := a.load(ProfileKey, profileSchema, &p)
	if err != nil || !found {
		return model.UserProfile{}, found, err
	}
	return p, true, nil
}

func (a *Adapter) SaveProfile(p model.UserProfile) error {
	return a.save(ProfileKey, p)
}

func (a *Adapter) load(key string, schema *jsonschema.Schema, out any) (bool, error) {
	b, ok, err := a.kv.Get(key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	if err := schema.Validate(doc); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

func (a *Adapter) save(key string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := a.kv.Set(key, b); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
