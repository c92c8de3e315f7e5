package store

import (
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const todosSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "period", "text", "completed"],
    "properties": {
      "id": {"type": "integer"},
      "period": {"type": "string"},
      "text": {"type": "string"},
      "completed": {"type": "boolean"},
      "author": {"type": "string"}
    }
  }
}`

const profileSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "isAnonymous"],
  "properties": {
    "name": {"type": "string"},
    "isAnonymous": {"type": "boolean"}
  }
}`

var (
	todosSchema   = jsonschema.MustCompileString("todos.schema.json", todosSchemaJSON)
	profileSchema = jsonschema.MustCompileString("profile.schema.json", profileSchemaJSON)
)
