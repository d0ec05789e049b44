package api

import (
	"encoding/json"
	"fmt"

	"github.com/qri-io/jsonschema"
)

// Request schemas check JSON types only. Presence of required fields and the
// domain rules are checked separately so their errors keep their own shape.

const registerSchemaJSON = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "email": {"type": "string"},
    "password": {"type": "string"},
    "phone": {"type": "string"},
    "address": {"type": "string"}
  }
}`

const loginSchemaJSON = `{
  "type": "object",
  "properties": {
    "email": {"type": "string"},
    "password": {"type": "string"}
  }
}`

const reportSchemaJSON = `{
  "type": "object",
  "properties": {
    "date": {"type": "string"},
    "time": {"type": "string"},
    "location": {"type": "string"},
    "type": {"type": "string"},
    "description": {"type": "string"},
    "reporter": {"type": "string"},
    "evidence": {"type": "boolean"},
    "has_evidence": {"type": "boolean"}
  }
}`

const incidentUpdateSchemaJSON = `{
  "type": "object",
  "properties": {
    "date": {"type": "string"},
    "location": {"type": "string"},
    "type": {"type": "string"},
    "description": {"type": "string"},
    "status": {"type": "string"},
    "reporter": {"type": "string"},
    "has_evidence": {"type": "boolean"}
  }
}`

const assignSchemaJSON = `{
  "type": "object",
  "properties": {
    "incident_id": {"type": "string"},
    "police_id": {"type": "integer", "minimum": 1},
    "status": {"type": "string"},
    "notes": {"type": "string"}
  }
}`

const caseUpdateSchemaJSON = `{
  "type": "object",
  "properties": {
    "status": {"type": "string"},
    "notes": {"type": "string"}
  }
}`

const policeSchemaJSON = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "badge_number": {"type": "string"},
    "phone": {"type": "string"},
    "station": {"type": "string"}
  }
}`

const contactSchemaJSON = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "phone": {"type": "string"},
    "relation": {"type": "string"}
  }
}`

const sosSchemaJSON = `{
  "type": "object",
  "properties": {
    "location": {"type": "string"}
  }
}`

var (
	registerSchema       = mustSchema(registerSchemaJSON)
	loginSchema          = mustSchema(loginSchemaJSON)
	reportSchema         = mustSchema(reportSchemaJSON)
	incidentUpdateSchema = mustSchema(incidentUpdateSchemaJSON)
	assignSchema         = mustSchema(assignSchemaJSON)
	caseUpdateSchema     = mustSchema(caseUpdateSchemaJSON)
	policeSchema         = mustSchema(policeSchemaJSON)
	contactSchema        = mustSchema(contactSchemaJSON)
	sosSchema            = mustSchema(sosSchemaJSON)
)

func mustSchema(doc string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(doc), rs); err != nil {
		panic(fmt.Sprintf("invalid request schema: %v", err))
	}
	return rs
}
